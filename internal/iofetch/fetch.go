// Package iofetch downloads dump and sidecar files over HTTP with a
// progress bar.
package iofetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnsys"
)

// Fetcher downloads files into a destination directory.
type Fetcher struct {
	client *http.Client
	// progress disables the bar in tests and non-tty runs.
	progress bool
}

// New creates a Fetcher with a generous timeout suitable for
// multi-gigabyte dumps.
func New(progress bool) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: 12 * time.Hour},
		progress: progress,
	}
}

// Fetch downloads url into destDir, keeping the URL's base name.
// It writes to a .partial file first and renames on success, so an
// interrupted download never leaves a truncated file at the final
// path. It returns the final path.
func (f *Fetcher) Fetch(
	ctx context.Context, url, destDir string,
) (string, error) {
	if err := gnsys.MakeDir(destDir); err != nil {
		return "", SaveError(destDir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", RequestError(url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", RequestError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", StatusError(url, resp.Status)
	}

	dest := filepath.Join(destDir, filepath.Base(req.URL.Path))
	partial := dest + ".partial"

	out, err := os.Create(partial)
	if err != nil {
		return "", SaveError(partial, err)
	}

	var body io.Reader = resp.Body
	var bar *pb.ProgressBar
	if f.progress && resp.ContentLength > 0 {
		bar = pb.Full.Start64(resp.ContentLength)
		bar.Set("prefix", filepath.Base(dest)+" ")
		bar.Set(pb.Bytes, true)
		bar.Set(pb.CleanOnFinish, true)
		body = bar.NewProxyReader(resp.Body)
	}

	_, err = io.Copy(out, body)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		out.Close()
		os.Remove(partial)
		return "", SaveError(partial, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(partial)
		return "", SaveError(partial, err)
	}

	if err := os.Rename(partial, dest); err != nil {
		return "", SaveError(dest, err)
	}
	return dest, nil
}
