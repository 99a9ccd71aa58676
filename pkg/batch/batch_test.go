package batch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniparq/pkg/batch"
	"uniparq/pkg/entry"
)

func row(id string) *entry.Row {
	return &entry.Row{ID: id, ParentID: id}
}

func TestPush(t *testing.T) {
	b := batch.NewBatcher(3)

	assert.Nil(t, b.Push(row("a")))
	assert.Nil(t, b.Push(row("b")))
	assert.Equal(t, 2, b.Pending())

	full := b.Push(row("c"))
	require.NotNil(t, full)
	assert.Equal(t, 3, full.Len())
	assert.Zero(t, b.Pending())
}

func TestOrderPreserved(t *testing.T) {
	b := batch.NewBatcher(4)

	ids := []string{"P1", "P1-2", "P2", "P3"}
	var full *batch.Batch
	for _, id := range ids {
		full = b.Push(row(id))
	}
	require.NotNil(t, full)

	for i, r := range full.Rows {
		assert.Equal(t, ids[i], r.ID)
	}
}

func TestFlush(t *testing.T) {
	b := batch.NewBatcher(10)

	assert.Nil(t, b.Flush(), "empty batcher has nothing to flush")

	b.Push(row("a"))
	b.Push(row("b"))

	partial := b.Flush()
	require.NotNil(t, partial)
	assert.Equal(t, 2, partial.Len())
	assert.Zero(t, b.Pending())
	assert.Nil(t, b.Flush(), "second flush is empty")
}

func TestCapacityFloor(t *testing.T) {
	b := batch.NewBatcher(0)

	full := b.Push(row("a"))
	require.NotNil(t, full, "capacity clamps to one")
	assert.Equal(t, 1, full.Len())
}
