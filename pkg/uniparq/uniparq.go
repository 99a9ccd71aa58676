// Package uniparq defines the core interfaces of the dump conversion
// pipeline. Implementations live in internal/io* packages; pure logic
// lives under pkg/.
package uniparq

import (
	"context"

	"uniparq/pkg/batch"
	"uniparq/pkg/entry"
)

// Version and Build are set by build flags.
var (
	Version = "dev"
	Build   = "unknown"
)

// Source yields raw entries one at a time from a dump. It follows the
// bufio.Scanner idiom: Scan advances to the next entry, Entry returns
// it, Err reports the first failure after Scan returns false.
type Source interface {
	// Scan advances to the next entry in the dump. It returns false
	// when the input is exhausted or a fatal parse error occurred.
	Scan() bool

	// Entry returns the entry produced by the last successful Scan.
	// The returned value is reused between calls; callers that keep
	// data across Scan calls must copy it out.
	Entry() *entry.Raw

	// Err returns the first fatal error encountered, or nil on clean
	// end of input.
	Err() error

	// Close releases the underlying readers.
	Close() error
}

// Sink consumes batches of transformed rows and persists them.
// Implementations are used from a single goroutine.
type Sink interface {
	// Write persists one batch. A returned error is fatal and stops
	// the pipeline.
	Write(ctx context.Context, b *batch.Batch) error

	// Close flushes buffered data and finalizes the output.
	Close() error
}
