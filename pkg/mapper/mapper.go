// Package mapper rewrites canonical-frame coordinates into an
// isoform's coordinate frame under that isoform's insertion,
// deletion and substitution edits.
//
// A Mapper is built once per (isoform, entry) pair from exactly the
// edits the isoform references; there is no constructor that accepts
// an unscoped edit set, so edits can never be applied globally.
package mapper

import (
	"slices"
	"sort"

	"uniparq/pkg/entry"
)

// Failure classifies why a coordinate could not be mapped. These are
// data-quality outcomes, never run-fatal.
type Failure int

const (
	// FailureNone means the position mapped cleanly.
	FailureNone Failure = iota

	// FailureVspDeletion means the position falls inside a deleted
	// segment and does not exist in the isoform.
	FailureVspDeletion

	// FailureVspUnresolvable means the position falls strictly
	// inside a length-changing edit, where no 1:1 correspondence
	// exists. Guessing would fabricate coordinates, which is worse
	// than omission.
	FailureVspUnresolvable

	// FailureIsoformOOB means the mapped position lands outside the
	// isoform sequence bounds.
	FailureIsoformOOB

	// FailureResidueMismatch means the residue at the mapped
	// position differs from the canonical residue.
	FailureResidueMismatch

	// FailureCanonicalOOB means the input span is outside the
	// canonical sequence itself.
	FailureCanonicalOOB
)

// String returns the classification name used in reports and counters.
func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "mapped"
	case FailureVspDeletion:
		return "vsp_deletion"
	case FailureVspUnresolvable:
		return "vsp_unresolvable"
	case FailureIsoformOOB:
		return "isoform_oob"
	case FailureResidueMismatch:
		return "residue_mismatch"
	case FailureCanonicalOOB:
		return "canonical_oob"
	default:
		return "unknown"
	}
}

// Mapper maps 0-based canonical positions to 0-based isoform
// positions. It is immutable after construction.
type Mapper struct {
	edits []entry.Edit
}

// New creates a mapper from an already-scoped edit list. The edits
// are copied and sorted by canonical start position. An empty list
// yields an identity mapper.
func New(edits []entry.Edit) *Mapper {
	sorted := slices.Clone(edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})
	return &Mapper{edits: sorted}
}

// NewForIsoform creates a mapper from the entry's edits restricted to
// the identifiers the isoform references. Edits not referenced by the
// isoform never enter the mapper.
func NewForIsoform(all []entry.Edit, editIDs []string) *Mapper {
	if len(editIDs) == 0 {
		return New(nil)
	}

	want := make(map[string]bool, len(editIDs))
	for _, id := range editIDs {
		want[id] = true
	}

	var scoped []entry.Edit
	for _, e := range all {
		if want[e.ID] {
			scoped = append(scoped, e)
		}
	}
	return New(scoped)
}

// EditCount returns the number of edits the mapper applies.
func (m *Mapper) EditCount() int {
	return len(m.edits)
}

// Delta returns the total length change across all edits, i.e. the
// expected isoform length minus the canonical length.
func (m *Mapper) Delta() int {
	var d int
	for _, e := range m.edits {
		d += e.Delta()
	}
	return d
}

// MapPoint maps one 0-based canonical position into the isoform
// frame. The walk accumulates the length delta of all edits entirely
// before the position; a position inside an edit's span is rejected
// unless the edit preserves length or the position sits exactly on
// the edit's start boundary.
func (m *Mapper) MapPoint(pos int) (int, Failure) {
	if pos < 0 {
		return 0, FailureCanonicalOOB
	}

	shift := 0
	for _, e := range m.edits {
		if pos >= e.Span.End {
			shift += e.Delta()
			continue
		}
		if pos < e.Span.Start {
			break
		}

		// Inside the edited span.
		if e.IsDeletion() {
			return 0, FailureVspDeletion
		}
		if e.Delta() != 0 {
			if pos != e.Span.Start {
				return 0, FailureVspUnresolvable
			}
			return e.Span.Start + shift, FailureNone
		}
		return pos + shift, FailureNone
	}

	mapped := pos + shift
	if mapped < 0 {
		return 0, FailureIsoformOOB
	}
	return mapped, FailureNone
}

// Apply derives the isoform sequence by applying the mapper's edits
// to the canonical sequence. Used as a fallback when no override
// sequence is available. Edits whose spans exceed the sequence are
// skipped rather than guessed at.
func (m *Mapper) Apply(canonical string) string {
	if len(m.edits) == 0 {
		return canonical
	}

	b := []byte(canonical)
	// Right to left so earlier spans keep their coordinates.
	for i := len(m.edits) - 1; i >= 0; i-- {
		e := m.edits[i]
		if e.Span.Start > len(b) || e.Span.End > len(b) {
			continue
		}
		b = slices.Concat(b[:e.Span.Start], []byte(e.Replacement), b[e.Span.End:])
	}
	return string(b)
}
