// Package metrics provides process-wide counters for one conversion
// run. Counters are updated from both pipeline goroutines with atomic
// increments only; there is no lock on the hot path.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics is created once per run and shared by reference between
// the producer and consumer goroutines. Read it only after both have
// finished, or accept slightly stale values (progress display).
type Metrics struct {
	start time.Time

	entriesParsed  atomic.Uint64
	entriesSkipped atomic.Uint64
	rowsEmitted    atomic.Uint64
	batchesEmitted atomic.Uint64
	bytesRead      atomic.Uint64
	bytesWritten   atomic.Uint64

	featuresSeen atomic.Uint64
	isoformsSeen atomic.Uint64

	mapAttempted atomic.Uint64
	mapMapped    atomic.Uint64

	failCanonicalOOB    atomic.Uint64
	failVspDeletion     atomic.Uint64
	failVspUnresolvable atomic.Uint64
	failIsoformOOB      atomic.Uint64
	failResidueMismatch atomic.Uint64

	evidenceMisses atomic.Uint64
}

// New creates a Metrics with the run clock started.
func New() *Metrics {
	return &Metrics{start: time.Now()}
}

func (m *Metrics) IncEntries()             { m.entriesParsed.Add(1) }
func (m *Metrics) IncSkipped()             { m.entriesSkipped.Add(1) }
func (m *Metrics) IncBatches()             { m.batchesEmitted.Add(1) }
func (m *Metrics) AddRows(n uint64)        { m.rowsEmitted.Add(n) }
func (m *Metrics) AddBytesRead(n uint64)   { m.bytesRead.Add(n) }
func (m *Metrics) AddBytesWritten(n uint64) { m.bytesWritten.Add(n) }
func (m *Metrics) AddFeatures(n uint64)    { m.featuresSeen.Add(n) }
func (m *Metrics) AddIsoforms(n uint64)    { m.isoformsSeen.Add(n) }
func (m *Metrics) IncMapAttempted()        { m.mapAttempted.Add(1) }
func (m *Metrics) IncMapMapped()           { m.mapMapped.Add(1) }
func (m *Metrics) IncCanonicalOOB()        { m.failCanonicalOOB.Add(1) }
func (m *Metrics) IncVspDeletion()         { m.failVspDeletion.Add(1) }
func (m *Metrics) IncVspUnresolvable()     { m.failVspUnresolvable.Add(1) }
func (m *Metrics) IncIsoformOOB()          { m.failIsoformOOB.Add(1) }
func (m *Metrics) IncResidueMismatch()     { m.failResidueMismatch.Add(1) }
func (m *Metrics) AddEvidenceMisses(n uint64) { m.evidenceMisses.Add(n) }

func (m *Metrics) Entries() uint64      { return m.entriesParsed.Load() }
func (m *Metrics) Skipped() uint64      { return m.entriesSkipped.Load() }
func (m *Metrics) Rows() uint64         { return m.rowsEmitted.Load() }
func (m *Metrics) Batches() uint64      { return m.batchesEmitted.Load() }
func (m *Metrics) BytesRead() uint64    { return m.bytesRead.Load() }
func (m *Metrics) BytesWritten() uint64 { return m.bytesWritten.Load() }

// Elapsed returns the wall time since the run started.
func (m *Metrics) Elapsed() time.Duration {
	return time.Since(m.start)
}

// Snapshot is a plain copy of all counters for reporting.
type Snapshot struct {
	EntriesParsed  uint64 `yaml:"entries_parsed"`
	EntriesSkipped uint64 `yaml:"entries_skipped"`
	RowsEmitted    uint64 `yaml:"rows_emitted"`
	BatchesEmitted uint64 `yaml:"batches_emitted"`
	BytesRead      uint64 `yaml:"bytes_read"`
	BytesWritten   uint64 `yaml:"bytes_written"`

	FeaturesSeen uint64 `yaml:"features_seen"`
	IsoformsSeen uint64 `yaml:"isoforms_seen"`

	MapAttempted uint64 `yaml:"map_attempted"`
	MapMapped    uint64 `yaml:"map_mapped"`
	MapFailed    uint64 `yaml:"map_failed"`

	CanonicalOOB    uint64 `yaml:"canonical_oob"`
	VspDeletion     uint64 `yaml:"vsp_deletion"`
	VspUnresolvable uint64 `yaml:"vsp_unresolvable"`
	IsoformOOB      uint64 `yaml:"isoform_oob"`
	ResidueMismatch uint64 `yaml:"residue_mismatch"`

	EvidenceMisses uint64 `yaml:"evidence_misses"`

	ElapsedSecs float64 `yaml:"elapsed_secs"`
}

// Snapshot reads every counter once and derives the aggregate
// failure count.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		EntriesParsed:   m.entriesParsed.Load(),
		EntriesSkipped:  m.entriesSkipped.Load(),
		RowsEmitted:     m.rowsEmitted.Load(),
		BatchesEmitted:  m.batchesEmitted.Load(),
		BytesRead:       m.bytesRead.Load(),
		BytesWritten:    m.bytesWritten.Load(),
		FeaturesSeen:    m.featuresSeen.Load(),
		IsoformsSeen:    m.isoformsSeen.Load(),
		MapAttempted:    m.mapAttempted.Load(),
		MapMapped:       m.mapMapped.Load(),
		CanonicalOOB:    m.failCanonicalOOB.Load(),
		VspDeletion:     m.failVspDeletion.Load(),
		VspUnresolvable: m.failVspUnresolvable.Load(),
		IsoformOOB:      m.failIsoformOOB.Load(),
		ResidueMismatch: m.failResidueMismatch.Load(),
		EvidenceMisses:  m.evidenceMisses.Load(),
		ElapsedSecs:     m.Elapsed().Seconds(),
	}
	s.MapFailed = s.CanonicalOOB + s.VspDeletion + s.VspUnresolvable +
		s.IsoformOOB + s.ResidueMismatch
	return s
}
