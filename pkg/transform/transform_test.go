package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniparq/pkg/entry"
	"uniparq/pkg/metrics"
	"uniparq/pkg/transform"
)

func span(start, end int) *entry.Span {
	return &entry.Span{Start: start, End: end}
}

// testEntry has a 20-residue canonical sequence and one isoform that
// deletes positions [5, 10).
func testEntry() *entry.Raw {
	raw := &entry.Raw{
		Accession:    "P00001",
		EntryName:    "TEST_HUMAN",
		GeneName:     "TST1",
		ProteinName:  "Test protein",
		OrganismID:   9606,
		OrganismName: "Homo sapiens",
		Existence:    1,
		Sequence:     "MKTAYIAKQRQISFVKSHFS",
	}
	raw.Annotations = append(raw.Annotations,
		entry.Annotation{
			Category:  "splice variant",
			ID:        "VSP_001",
			Span:      span(5, 10),
			Variation: "Missing",
		},
		entry.Annotation{
			Category:    "modified residue",
			Span:        span(2, 3),
			Description: "Phosphothreonine",
		},
		entry.Annotation{
			Category:    "domain",
			Span:        span(12, 18),
			Description: "SH3",
		},
	)
	raw.Isoforms = append(raw.Isoforms, entry.Isoform{
		ID:      "P00001-2",
		Note:    "Brain specific",
		EditIDs: []string{"VSP_001"},
	})
	return raw
}

func TestTransformRowCount(t *testing.T) {
	tr := transform.New(metrics.New(), nil)
	rows := tr.Transform(testEntry())

	require.Len(t, rows, 2)
	assert.True(t, rows[0].IsCanonical())
	assert.False(t, rows[1].IsCanonical())
}

func TestCanonicalRow(t *testing.T) {
	tr := transform.New(metrics.New(), nil)
	rows := tr.Transform(testEntry())
	row := rows[0]

	assert.Equal(t, "P00001", row.ID)
	assert.Equal(t, "P00001", row.ParentID)
	assert.Empty(t, row.IsoformID)
	assert.Equal(t, "MKTAYIAKQRQISFVKSHFS", row.Sequence)
	assert.Equal(t, int32(9606), row.OrganismID)
	assert.Equal(t, "TEST_HUMAN", row.EntryName)

	// All three annotations survive in the canonical frame with
	// 1-based inclusive coordinates.
	require.Len(t, row.Annotations, 3)
	mod := row.Annotations[1]
	assert.Equal(t, "modified residue", mod.Category)
	assert.Equal(t, int32(3), mod.Start)
	assert.Equal(t, int32(3), mod.End)

	dom := row.Annotations[2]
	assert.Equal(t, int32(13), dom.Start)
	assert.Equal(t, int32(18), dom.End)
}

func TestIsoformRow(t *testing.T) {
	tr := transform.New(metrics.New(), nil)
	rows := tr.Transform(testEntry())
	row := rows[1]

	assert.Equal(t, "P00001-2", row.ID)
	assert.Equal(t, "P00001", row.ParentID)
	assert.Equal(t, "P00001-2", row.IsoformID)
	assert.Equal(t, "Brain specific", row.IsoformNote)

	// Canonical minus [5, 10).
	assert.Equal(t, "MKTAYQISFVKSHFS", row.Sequence)

	var categories []string
	for _, a := range row.Annotations {
		categories = append(categories, a.Category)
	}
	// The splice variant's own span is deleted in this isoform.
	assert.NotContains(t, categories, "splice variant")

	// The modified residue precedes the deletion: same coordinate.
	// The domain follows it: shifted left by 5.
	require.Len(t, row.Annotations, 2)
	assert.Equal(t, int32(3), row.Annotations[0].Start)
	assert.Equal(t, int32(8), row.Annotations[1].Start)
	assert.Equal(t, int32(13), row.Annotations[1].End)
}

func TestFailureCounters(t *testing.T) {
	m := metrics.New()
	tr := transform.New(m, nil)
	tr.Transform(testEntry())

	s := m.Snapshot()
	// Canonical row: 3 mapped. Isoform row: 2 mapped, 1 dropped
	// inside the deletion.
	assert.Equal(t, uint64(6), s.MapAttempted)
	assert.Equal(t, uint64(5), s.MapMapped)
	assert.Equal(t, uint64(1), s.VspDeletion)
	assert.Equal(t, uint64(3), s.FeaturesSeen)
	assert.Equal(t, uint64(1), s.IsoformsSeen)
}

func TestCanonicalOOB(t *testing.T) {
	m := metrics.New()
	tr := transform.New(m, nil)

	raw := &entry.Raw{
		Accession: "P00002",
		Sequence:  "MKTAY",
	}
	raw.Annotations = append(raw.Annotations, entry.Annotation{
		Category: "modified residue",
		Span:     span(10, 11),
	})

	rows := tr.Transform(raw)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Annotations)
	assert.Equal(t, uint64(1), m.Snapshot().CanonicalOOB)
}

func TestResidueMismatch(t *testing.T) {
	m := metrics.New()
	tr := transform.New(m, map[string]string{
		// Sidecar sequence disagrees at position 0.
		"P00003-2": "WKTAY",
	})

	raw := &entry.Raw{
		Accession: "P00003",
		Sequence:  "MKTAY",
	}
	raw.Annotations = append(raw.Annotations, entry.Annotation{
		Category: "modified residue",
		Span:     span(0, 1),
	})
	raw.Isoforms = append(raw.Isoforms, entry.Isoform{ID: "P00003-2"})

	rows := tr.Transform(raw)
	require.Len(t, rows, 2)

	// Canonical keeps the annotation, the isoform drops it.
	assert.Len(t, rows[0].Annotations, 1)
	assert.Empty(t, rows[1].Annotations)
	assert.Equal(t, uint64(1), m.Snapshot().ResidueMismatch)
}

func TestSidecarOverridesDerivedSequence(t *testing.T) {
	m := metrics.New()
	tr := transform.New(m, map[string]string{
		"P00001-2": "AAAAAAAAAA",
	})

	rows := tr.Transform(testEntry())
	assert.Equal(t, "AAAAAAAAAA", rows[1].Sequence)
}

func TestIsoformOOB(t *testing.T) {
	m := metrics.New()
	// Sidecar sequence shorter than mapped coordinates demand.
	tr := transform.New(m, map[string]string{"P00004-2": "MK"})

	raw := &entry.Raw{
		Accession: "P00004",
		Sequence:  "MKTAYIAKQR",
	}
	raw.Annotations = append(raw.Annotations, entry.Annotation{
		Category: "domain",
		Span:     span(0, 8),
	})
	raw.Isoforms = append(raw.Isoforms, entry.Isoform{ID: "P00004-2"})

	rows := tr.Transform(raw)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[1].Annotations)
	assert.Equal(t, uint64(1), m.Snapshot().IsoformOOB)
}

func TestFreeTextPassesThrough(t *testing.T) {
	m := metrics.New()
	tr := transform.New(m, nil)

	raw := &entry.Raw{
		Accession: "P00005",
		Sequence:  "MKTAY",
	}
	raw.Annotations = append(raw.Annotations, entry.Annotation{
		Category:    "subunit",
		Description: "Homodimer",
	})
	raw.Locations = append(raw.Locations, entry.Location{
		Name: "Cytoplasm",
	})

	rows := tr.Transform(raw)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Annotations, 1)
	assert.Equal(t, "Homodimer", rows[0].Annotations[0].Description)
	assert.Zero(t, rows[0].Annotations[0].Start)

	require.Len(t, rows[0].Locations, 1)
	assert.Equal(t, "Cytoplasm", rows[0].Locations[0].Name)

	// Free-text annotations never count as mapping attempts.
	assert.Zero(t, m.Snapshot().MapAttempted)
}
