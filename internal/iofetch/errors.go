package iofetch

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"

	"uniparq/pkg/errcode"
)

func RequestError(url string, err error) error {
	msg := "Cannot download <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchRequestError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot download: %w",
			fn, err),
	}
}

func StatusError(url string, status string) error {
	msg := "Download of <em>%s</em> failed with status %s"
	vars := []any{url, status}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchStatusError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: bad download status: %s",
			fn, status),
	}
}

func SaveError(path string, err error) error {
	msg := "Cannot save download to <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchSaveError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot save download: %w",
			fn, err),
	}
}
