package iofetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniparq/internal/iofetch"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/pub/sprot.xml.gz", r.URL.Path)
			w.Write([]byte("payload"))
		}))
	defer srv.Close()

	destDir := filepath.Join(t.TempDir(), "data")

	f := iofetch.New(false)
	path, err := f.Fetch(
		context.Background(), srv.URL+"/pub/sprot.xml.gz", destDir,
	)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(destDir, "sprot.xml.gz"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	assert.NoFileExists(t, path+".partial",
		"partial file renamed away on success")
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
	defer srv.Close()

	f := iofetch.New(false)
	_, err := f.Fetch(
		context.Background(), srv.URL+"/missing.gz", t.TempDir(),
	)
	require.Error(t, err)
}

func TestFetchUnreachable(t *testing.T) {
	f := iofetch.New(false)
	_, err := f.Fetch(
		context.Background(),
		"http://127.0.0.1:1/nothing.gz",
		t.TempDir(),
	)
	require.Error(t, err)
}
