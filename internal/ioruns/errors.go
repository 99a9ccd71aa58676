package ioruns

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"uniparq/pkg/errcode"
)

func RunDirError(dir string, err error) error {
	msg := "Cannot create run directory <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RunDirError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create run dir: %w",
			fn, err),
	}
}

func ReportError(path string, err error) error {
	msg := "Cannot write run report <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RunReportError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write report: %w",
			fn, err),
	}
}

func ConfigSnapshotError(path string, err error) error {
	msg := "Cannot write config snapshot <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RunConfigSnapshotError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write config snapshot: %w",
			fn, err),
	}
}

func LedgerOpenError(path string, err error) error {
	msg := "Cannot open run ledger <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RunLedgerOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open ledger: %w",
			fn, err),
	}
}

func LedgerQueryError(err error) error {
	msg := "Run ledger query failed"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RunLedgerQueryError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: ledger query: %w",
			fn, err),
	}
}

func CleanupError(dir string, err error) error {
	msg := "Cannot clean old runs in <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RunCleanupError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot clean runs: %w",
			fn, err),
	}
}
