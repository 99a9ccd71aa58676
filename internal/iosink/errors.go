package iosink

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"uniparq/pkg/errcode"
)

func CreateFileError(path string, err error) error {
	msg := "Cannot create output file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SinkCreateFileError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create output: %w",
			fn, err),
	}
}

func WriteError(err error) error {
	msg := "Cannot write to output file"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SinkWriteError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot write batch: %w",
			fn, err),
	}
}

func CloseError(path string, err error) error {
	msg := "Cannot finalize output file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SinkCloseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot finalize output: %w",
			fn, err),
	}
}
