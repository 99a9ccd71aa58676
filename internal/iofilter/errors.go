package iofilter

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"uniparq/pkg/errcode"
)

func OpenError(path string, err error) error {
	msg := "Cannot open Parquet file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FilterOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open parquet file: %w",
			fn, err),
	}
}

func ReadError(path string, err error) error {
	msg := "Cannot read Parquet file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FilterReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read parquet file: %w",
			fn, err),
	}
}

func WriteError(path string, err error) error {
	msg := "Cannot write Parquet file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FilterWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write parquet file: %w",
			fn, err),
	}
}
