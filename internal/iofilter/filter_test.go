package iofilter_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniparq/internal/iofilter"
	"uniparq/internal/iosink"
	"uniparq/pkg/config"
)

// writeSource produces a Parquet file with rows for the given
// organism ids, one row per id occurrence.
func writeSource(t *testing.T, path string, organisms []int32) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	w := parquet.NewGenericWriter[iosink.Row](f)
	rows := make([]iosink.Row, len(organisms))
	for i, org := range organisms {
		rows[i] = iosink.Row{
			ID:         fmt.Sprintf("P%05d", i),
			ParentID:   fmt.Sprintf("P%05d", i),
			Sequence:   "MKTAYIAKQR",
			OrganismID: org,
		}
	}
	_, err = w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func readRows(t *testing.T, path string) []iosink.Row {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := parquet.NewGenericReader[iosink.Row](f)
	defer r.Close()

	var res []iosink.Row
	buf := make([]iosink.Row, 16)
	for {
		n, err := r.Read(buf)
		res = append(res, buf[:n]...)
		if err == io.EOF {
			return res
		}
		require.NoError(t, err)
	}
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sprot.parquet")
	writeSource(t, src,
		[]int32{9606, 10090, 9606, 7227, 9606, 10090})

	counts, err := iofilter.Split(
		context.Background(), src, dir,
		[]int32{9606, 10090, 4932}, config.New(),
	)
	require.NoError(t, err)

	assert.Equal(t, map[int32]uint64{
		9606:  3,
		10090: 2,
		4932:  0,
	}, counts)

	human := readRows(t, filepath.Join(dir, "sprot_9606.parquet"))
	require.Len(t, human, 3)
	for _, row := range human {
		assert.Equal(t, int32(9606), row.OrganismID)
	}
	assert.Equal(t, "P00000", human[0].ID, "input order preserved")
	assert.Equal(t, "P00002", human[1].ID)

	mouse := readRows(t, filepath.Join(dir, "sprot_10090.parquet"))
	assert.Len(t, mouse, 2)

	assert.NoFileExists(t, filepath.Join(dir, "sprot_4932.parquet"),
		"no file created for an absent taxon")
	assert.NoFileExists(t, filepath.Join(dir, "sprot_7227.parquet"),
		"unrequested taxa are dropped")
}

func TestSplitMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := iofilter.Split(
		context.Background(),
		filepath.Join(dir, "absent.parquet"),
		dir, []int32{9606}, config.New(),
	)
	require.Error(t, err)
}

func TestSplitCanceled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sprot.parquet")
	writeSource(t, src, []int32{9606})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := iofilter.Split(ctx, src, dir, []int32{9606}, config.New())
	require.ErrorIs(t, err, context.Canceled)
}
