package ioparse

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"uniparq/pkg/errcode"
)

func OpenInputError(path string, err error) error {
	msg := "Cannot open input file <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ParseOpenInputError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open input: %w",
			fn, err),
	}
}

func GzipError(path string, err error) error {
	msg := "Cannot read gzip stream from <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ParseGzipError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read gzip stream: %w",
			fn, err),
	}
}

func XMLError(err error) error {
	msg := "Malformed XML in input stream"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ParseXMLError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: malformed xml: %w",
			fn, err),
	}
}

func MissingAccessionError(entryName string) error {
	msg := "Entry <em>%s</em> has no primary accession"
	vars := []any{entryName}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ParseMissingAccessionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: entry without accession: %q",
			fn, entryName),
	}
}

func SidecarError(path string, err error) error {
	msg := "Cannot read sidecar FASTA <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ParseSidecarError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read sidecar fasta: %w",
			fn, err),
	}
}
