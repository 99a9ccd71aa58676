package metrics_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"uniparq/pkg/metrics"
)

func TestCounters(t *testing.T) {
	m := metrics.New()

	m.IncEntries()
	m.IncEntries()
	m.IncSkipped()
	m.AddRows(10)
	m.IncBatches()
	m.AddBytesRead(1024)
	m.AddBytesWritten(512)

	assert.Equal(t, uint64(2), m.Entries())
	assert.Equal(t, uint64(1), m.Skipped())
	assert.Equal(t, uint64(10), m.Rows())
	assert.Equal(t, uint64(1), m.Batches())
	assert.Equal(t, uint64(1024), m.BytesRead())
	assert.Equal(t, uint64(512), m.BytesWritten())
}

func TestConcurrentIncrements(t *testing.T) {
	m := metrics.New()

	// Producer and consumer update counters concurrently; totals
	// must not lose updates.
	var wg sync.WaitGroup
	const workers = 8
	const perWorker = 1000

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.IncEntries()
				m.IncMapAttempted()
				m.AddRows(2)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(workers*perWorker), m.Entries())
	assert.Equal(t, uint64(workers*perWorker*2), m.Rows())

	s := m.Snapshot()
	assert.Equal(t, uint64(workers*perWorker), s.MapAttempted)
}

func TestSnapshotDerivesFailed(t *testing.T) {
	m := metrics.New()

	m.IncCanonicalOOB()
	m.IncVspDeletion()
	m.IncVspDeletion()
	m.IncVspUnresolvable()
	m.IncIsoformOOB()
	m.IncResidueMismatch()

	s := m.Snapshot()
	assert.Equal(t, uint64(6), s.MapFailed)
	assert.Equal(t, uint64(2), s.VspDeletion)
}
