package ioparse

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"
)

// countingReader tracks compressed bytes consumed from the file, so
// progress reflects position in the file rather than inflated output.
type countingReader struct {
	r io.Reader
	n atomic.Uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(uint64(n))
	return n, err
}

func (c *countingReader) Count() uint64 {
	return c.n.Load()
}

// input is the layered reader over a dump file: counting on the raw
// file handle, optional gzip inflation, and a sized read buffer.
type input struct {
	file     *os.File
	gz       *gzip.Reader
	counter  *countingReader
	buffered *bufio.Reader
}

// openInput opens path for streaming. Files ending in .gz are
// inflated transparently.
func openInput(path string, bufSize int) (*input, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, OpenInputError(path, err)
	}

	in := &input{
		file:    file,
		counter: &countingReader{r: file},
	}

	var r io.Reader = in.counter
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			file.Close()
			return nil, GzipError(path, err)
		}
		in.gz = gz
		r = gz
	}

	if bufSize <= 0 {
		bufSize = 256 * 1024
	}
	in.buffered = bufio.NewReaderSize(r, bufSize)
	return in, nil
}

func (in *input) Read(p []byte) (int, error) {
	return in.buffered.Read(p)
}

// BytesRead returns compressed bytes consumed so far. Safe to call
// from another goroutine.
func (in *input) BytesRead() uint64 {
	return in.counter.Count()
}

func (in *input) Close() error {
	if in.gz != nil {
		if err := in.gz.Close(); err != nil {
			in.file.Close()
			return err
		}
	}
	return in.file.Close()
}

// InputSize returns the on-disk size of path.
func InputSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, OpenInputError(path, err)
	}
	return info.Size(), nil
}
