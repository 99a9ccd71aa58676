package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Parse errors
	ParseOpenInputError
	ParseGzipError
	ParseXMLError
	ParseMissingAccessionError
	ParseSidecarError

	// Sink errors
	SinkCreateFileError
	SinkWriteError
	SinkCloseError

	// Fetch errors
	FetchRequestError
	FetchStatusError
	FetchSaveError

	// Filter errors
	FilterOpenError
	FilterReadError
	FilterWriteError

	// Run ledger errors
	RunDirError
	RunReportError
	RunConfigSnapshotError
	RunLedgerOpenError
	RunLedgerQueryError
	RunCleanupError
)
