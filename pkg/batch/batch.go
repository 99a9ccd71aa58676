// Package batch groups transformed rows into bounded, order-
// preserving batches for the serialization sink.
package batch

import "uniparq/pkg/entry"

// Batch is an ordered group of rows. It is immutable once handed to
// the pipeline channel.
type Batch struct {
	Rows []*entry.Row
}

// Len returns the number of rows in the batch.
func (b *Batch) Len() int {
	return len(b.Rows)
}

// Batcher accumulates rows up to a configured capacity. It never
// reorders or drops rows.
type Batcher struct {
	capacity int
	rows     []*entry.Row
}

// NewBatcher creates a Batcher. Capacity must be positive.
func NewBatcher(capacity int) *Batcher {
	if capacity < 1 {
		capacity = 1
	}
	return &Batcher{
		capacity: capacity,
		rows:     make([]*entry.Row, 0, capacity),
	}
}

// Push appends a row. When the batch reaches capacity it is returned
// and a new empty one is started; otherwise Push returns nil.
func (b *Batcher) Push(row *entry.Row) *Batch {
	b.rows = append(b.rows, row)
	if len(b.rows) < b.capacity {
		return nil
	}
	full := &Batch{Rows: b.rows}
	b.rows = make([]*entry.Row, 0, b.capacity)
	return full
}

// Flush returns the remaining partial batch at end-of-stream, or nil
// if nothing is pending.
func (b *Batcher) Flush() *Batch {
	if len(b.rows) == 0 {
		return nil
	}
	partial := &Batch{Rows: b.rows}
	b.rows = make([]*entry.Row, 0, b.capacity)
	return partial
}

// Pending returns the number of rows not yet emitted.
func (b *Batcher) Pending() int {
	return len(b.rows)
}
