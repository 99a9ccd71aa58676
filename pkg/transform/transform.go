// Package transform expands one parsed entry into output rows: one
// for the canonical sequence and one per declared isoform, with every
// coordinate-bearing annotation rewritten into the row's own frame.
package transform

import (
	"uniparq/pkg/entry"
	"uniparq/pkg/mapper"
	"uniparq/pkg/metrics"
)

// Transformer is safe for reuse across entries. The sidecar map
// (isoform accession -> sequence) may be nil; isoform sequences are
// then derived by applying the isoform's edits to the canonical
// sequence.
type Transformer struct {
	metrics *metrics.Metrics
	sidecar map[string]string
}

// New creates a Transformer.
func New(m *metrics.Metrics, sidecar map[string]string) *Transformer {
	return &Transformer{metrics: m, sidecar: sidecar}
}

// Transform produces 1 + len(raw.Isoforms) rows for the entry.
// Annotation-mapping failures are classified and counted, never
// returned as errors; they drop the annotation, not the row.
func (t *Transformer) Transform(raw *entry.Raw) []*entry.Row {
	t.metrics.AddFeatures(uint64(len(raw.Annotations)))
	t.metrics.AddIsoforms(uint64(len(raw.Isoforms)))

	rows := make([]*entry.Row, 0, 1+len(raw.Isoforms))

	// Canonical row: identity mapping against the entry's own frame.
	identity := mapper.New(nil)
	rows = append(rows, t.buildRow(raw, "", "", raw.Sequence, identity))

	edits := raw.Edits()
	for i := range raw.Isoforms {
		iso := &raw.Isoforms[i]
		m := mapper.NewForIsoform(edits, iso.EditIDs)
		seq := t.isoformSequence(raw, iso, m)
		rows = append(rows, t.buildRow(raw, iso.ID, iso.Note, seq, m))
	}

	return rows
}

// isoformSequence prefers the sidecar override sequence and falls
// back to applying the isoform's edits to the canonical sequence.
func (t *Transformer) isoformSequence(
	raw *entry.Raw,
	iso *entry.Isoform,
	m *mapper.Mapper,
) string {
	if t.sidecar != nil {
		key := iso.SeqRef
		if key == "" {
			key = iso.ID
		}
		if seq, ok := t.sidecar[key]; ok && seq != "" {
			return seq
		}
	}
	return m.Apply(raw.Sequence)
}

func (t *Transformer) buildRow(
	raw *entry.Raw,
	isoformID, isoformNote string,
	seq string,
	m *mapper.Mapper,
) *entry.Row {
	row := &entry.Row{
		ID:           raw.Accession,
		ParentID:     raw.Accession,
		IsoformID:    isoformID,
		IsoformNote:  isoformNote,
		Sequence:     seq,
		OrganismID:   raw.OrganismID,
		OrganismName: raw.OrganismName,
		EntryName:    raw.EntryName,
		GeneName:     raw.GeneName,
		ProteinName:  raw.ProteinName,
		Existence:    raw.Existence,
	}
	if isoformID != "" {
		row.ID = isoformID
	}

	for i := range raw.Annotations {
		ann := &raw.Annotations[i]
		if ma, ok := t.mapAnnotation(raw, ann, seq, m); ok {
			row.Annotations = append(row.Annotations, ma)
		}
	}

	for _, loc := range raw.Locations {
		row.Locations = append(row.Locations, entry.MappedLocation{
			Name:     loc.Name,
			Evidence: loc.Evidence,
		})
	}

	if len(raw.CrossRefs) > 0 {
		row.CrossRefs = append(row.CrossRefs, raw.CrossRefs...)
	}

	return row
}

// mapAnnotation rewrites one annotation into the row's frame.
// Free-text annotations pass through unchanged. Coordinate-bearing
// annotations are validated against the canonical frame, mapped, then
// validated against the row's sequence; any failure drops the
// annotation and bumps its classification counter.
func (t *Transformer) mapAnnotation(
	raw *entry.Raw,
	ann *entry.Annotation,
	seq string,
	m *mapper.Mapper,
) (entry.MappedAnnotation, bool) {
	out := entry.MappedAnnotation{
		Category:    ann.Category,
		Description: ann.Description,
		Evidence:    ann.Evidence,
	}

	if ann.Span == nil {
		return out, true
	}

	sp := *ann.Span
	t.metrics.IncMapAttempted()

	if !sp.Valid() || sp.End > len(raw.Sequence) {
		t.count(mapper.FailureCanonicalOOB)
		return out, false
	}

	start, f := m.MapPoint(sp.Start)
	if f != mapper.FailureNone {
		t.count(f)
		return out, false
	}

	end := start
	if !sp.IsPoint() {
		end, f = m.MapPoint(sp.End - 1)
		if f != mapper.FailureNone {
			t.count(f)
			return out, false
		}
		if end < start {
			t.count(mapper.FailureVspUnresolvable)
			return out, false
		}
	}

	if end >= len(seq) {
		t.count(mapper.FailureIsoformOOB)
		return out, false
	}

	// Residue identity is only checkable for single-position spans.
	if sp.IsPoint() {
		if want, ok := raw.ResidueAt(sp.Start); ok && seq[start] != want {
			t.count(mapper.FailureResidueMismatch)
			return out, false
		}
	}

	t.metrics.IncMapMapped()
	out.Start = int32(start) + 1
	out.End = int32(end) + 1
	return out, true
}

func (t *Transformer) count(f mapper.Failure) {
	switch f {
	case mapper.FailureCanonicalOOB:
		t.metrics.IncCanonicalOOB()
	case mapper.FailureVspDeletion:
		t.metrics.IncVspDeletion()
	case mapper.FailureVspUnresolvable:
		t.metrics.IncVspUnresolvable()
	case mapper.FailureIsoformOOB:
		t.metrics.IncIsoformOOB()
	case mapper.FailureResidueMismatch:
		t.metrics.IncResidueMismatch()
	}
}
