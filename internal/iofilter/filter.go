// Package iofilter splits a converted Parquet file into per-organism
// files. It streams row groups, so memory stays flat regardless of
// input size.
package iofilter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"uniparq/internal/iosink"
	"uniparq/pkg/config"
)

const readChunk = 1024

// Split copies rows whose organism_id is in taxa from path into one
// output file per taxon, written next to outDir. It returns row
// counts per taxon.
func Split(
	ctx context.Context,
	path string,
	outDir string,
	taxa []int32,
	cfg *config.Config,
) (map[int32]uint64, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	defer in.Close()

	reader := parquet.NewGenericReader[iosink.Row](in)
	defer reader.Close()

	writers := make(map[int32]*taxonWriter, len(taxa))
	defer func() {
		for _, w := range writers {
			w.abort()
		}
	}()

	counts := make(map[int32]uint64, len(taxa))
	for _, t := range taxa {
		counts[t] = 0
	}

	buf := make([]iosink.Row, readChunk)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := reader.Read(buf)
		for _, row := range buf[:n] {
			if _, ok := counts[row.OrganismID]; !ok {
				continue
			}
			w, werr := writerFor(
				writers, row.OrganismID, path, outDir, cfg,
			)
			if werr != nil {
				return nil, werr
			}
			if werr := w.write(row); werr != nil {
				return nil, werr
			}
			counts[row.OrganismID]++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ReadError(path, err)
		}
	}

	for _, w := range writers {
		if err := w.close(); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

// taxonWriter is a lazily created output file for one organism.
type taxonWriter struct {
	path   string
	file   *os.File
	writer *parquet.GenericWriter[iosink.Row]
	done   bool
}

func writerFor(
	writers map[int32]*taxonWriter,
	taxon int32,
	srcPath string,
	outDir string,
	cfg *config.Config,
) (*taxonWriter, error) {
	if w, ok := writers[taxon]; ok {
		return w, nil
	}

	base := strings.TrimSuffix(
		filepath.Base(srcPath), filepath.Ext(srcPath),
	)
	outPath := filepath.Join(
		outDir, fmt.Sprintf("%s_%d.parquet", base, taxon),
	)

	file, err := os.Create(outPath)
	if err != nil {
		return nil, WriteError(outPath, err)
	}

	w := &taxonWriter{
		path: outPath,
		file: file,
		writer: parquet.NewGenericWriter[iosink.Row](
			file,
			parquet.Compression(&zstd.Codec{
				Level: iosink.ZstdLevel(cfg.Performance.CompressionLevel),
			}),
		),
	}
	writers[taxon] = w
	return w, nil
}

func (w *taxonWriter) write(row iosink.Row) error {
	if _, err := w.writer.Write([]iosink.Row{row}); err != nil {
		return WriteError(w.path, err)
	}
	return nil
}

func (w *taxonWriter) close() error {
	if w.done {
		return nil
	}
	w.done = true
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return WriteError(w.path, err)
	}
	if err := w.file.Close(); err != nil {
		return WriteError(w.path, err)
	}
	return nil
}

// abort closes the file handle without finalizing; used on error
// paths after close already ran for the successful case.
func (w *taxonWriter) abort() {
	if w.done {
		return
	}
	w.done = true
	w.file.Close()
	os.Remove(w.path)
}
