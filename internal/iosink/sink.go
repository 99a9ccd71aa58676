// Package iosink persists batches of transformed rows as a Parquet
// file with zstd-compressed columns.
package iosink

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"uniparq/pkg/batch"
	"uniparq/pkg/config"
	"uniparq/pkg/metrics"
)

// countingWriter tracks bytes flushed to the output file.
type countingWriter struct {
	f *os.File
	n atomic.Uint64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.f.Write(p)
	c.n.Add(uint64(n))
	return n, err
}

// Sink writes rows to a Parquet file. It is used from the single
// consumer goroutine of the pipeline.
type Sink struct {
	path    string
	counter *countingWriter
	writer  *parquet.GenericWriter[Row]
	metrics *metrics.Metrics

	// buf is reused between batches.
	buf []Row
}

// New creates the output file and a zstd-compressed Parquet writer
// over it.
func New(
	path string, cfg *config.Config, m *metrics.Metrics,
) (*Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, CreateFileError(path, err)
	}

	counter := &countingWriter{f: file}
	writer := parquet.NewGenericWriter[Row](
		counter,
		parquet.Compression(&zstd.Codec{
			Level: ZstdLevel(cfg.Performance.CompressionLevel),
		}),
	)

	return &Sink{
		path:    path,
		counter: counter,
		writer:  writer,
		metrics: m,
	}, nil
}

// Write converts and persists one batch.
func (s *Sink) Write(ctx context.Context, b *batch.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.buf = s.buf[:0]
	for _, r := range b.Rows {
		s.buf = append(s.buf, FromEntry(r))
	}

	if _, err := s.writer.Write(s.buf); err != nil {
		return WriteError(err)
	}

	s.metrics.AddRows(uint64(b.Len()))
	s.metrics.IncBatches()
	return nil
}

// Close flushes the Parquet footer and closes the file.
func (s *Sink) Close() error {
	if err := s.writer.Close(); err != nil {
		s.counter.f.Close()
		return CloseError(s.path, err)
	}
	if err := s.counter.f.Close(); err != nil {
		return CloseError(s.path, err)
	}
	s.metrics.AddBytesWritten(s.counter.n.Load())
	return nil
}

// BytesWritten returns bytes flushed to disk so far. Buffered row
// groups are not included until the writer flushes them.
func (s *Sink) BytesWritten() uint64 {
	return s.counter.n.Load()
}

// ZstdLevel maps the 1..9 config scale onto the writer's named
// levels.
func ZstdLevel(n int) zstd.Level {
	switch {
	case n <= 2:
		return zstd.SpeedFastest
	case n <= 5:
		return zstd.SpeedDefault
	case n <= 7:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}
