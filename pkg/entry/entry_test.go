package entry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniparq/pkg/entry"
)

func TestSpan(t *testing.T) {
	tests := []struct {
		msg     string
		span    entry.Span
		length  int
		point   bool
		valid   bool
	}{
		{"single position", entry.Span{Start: 4, End: 5}, 1, true, true},
		{"range", entry.Span{Start: 0, End: 10}, 10, false, true},
		{"empty", entry.Span{Start: 3, End: 3}, 0, false, false},
		{"inverted", entry.Span{Start: 5, End: 2}, -3, false, false},
		{"negative start", entry.Span{Start: -1, End: 2}, 3, false, false},
	}

	for _, v := range tests {
		assert.Equal(t, v.length, v.span.Len(), v.msg)
		assert.Equal(t, v.point, v.span.IsPoint(), v.msg)
		assert.Equal(t, v.valid, v.span.Valid(), v.msg)
	}
}

func TestReset(t *testing.T) {
	raw := &entry.Raw{
		Accession: "P12345",
		Sequence:  "MKT",
	}
	raw.Annotations = append(raw.Annotations, entry.Annotation{
		Category: "domain",
	})
	raw.Isoforms = append(raw.Isoforms, entry.Isoform{ID: "P12345-2"})
	raw.AddEvidence("1", "ECO:0000269")

	raw.Reset()

	assert.Empty(t, raw.Accession)
	assert.Empty(t, raw.Sequence)
	assert.Empty(t, raw.Annotations)
	assert.Empty(t, raw.Isoforms)
	assert.Zero(t, raw.EvidenceCount())
}

func TestResolveEvidence(t *testing.T) {
	raw := &entry.Raw{}
	raw.AddEvidence("1", "ECO:0000269")
	raw.AddEvidence("2", "ECO:0000305")
	raw.AddEvidence("3", "ECO:0000250")

	tests := []struct {
		msg    string
		keys   []string
		res    string
		misses int
	}{
		{"no keys", nil, "", 0},
		{"single key", []string{"2"}, "ECO:0000305", 0},
		{
			"declaration order regardless of reference order",
			[]string{"3", "1"},
			"ECO:0000269;ECO:0000250",
			0,
		},
		{"unknown key counted", []string{"1", "9"}, "ECO:0000269", 1},
		{"all unknown", []string{"7", "8"}, "", 2},
	}

	for _, v := range tests {
		res, misses := raw.ResolveEvidence(v.keys)
		assert.Equal(t, v.res, res, v.msg)
		assert.Equal(t, v.misses, misses, v.msg)
	}
}

func TestAddEvidenceDuplicateKeys(t *testing.T) {
	raw := &entry.Raw{}
	raw.AddEvidence("1", "ECO:0000269")
	raw.AddEvidence("1", "ECO:0000305")

	res, misses := raw.ResolveEvidence([]string{"1"})
	assert.Equal(t, "ECO:0000269", res)
	assert.Zero(t, misses)
}

func TestEdits(t *testing.T) {
	raw := &entry.Raw{Sequence: "MKTAYIAKQR"}
	raw.Annotations = append(raw.Annotations,
		entry.Annotation{
			Category:  "splice variant",
			ID:        "VSP_001",
			Span:      &entry.Span{Start: 2, End: 5},
			Variation: "Missing",
		},
		entry.Annotation{
			Category:  "splice variant",
			ID:        "VSP_002",
			Span:      &entry.Span{Start: 6, End: 8},
			Original:  "AK",
			Variation: "WW",
		},
		// No id: cannot be referenced by an isoform.
		entry.Annotation{
			Category: "splice variant",
			Span:     &entry.Span{Start: 0, End: 1},
		},
		// No span: nothing to scope.
		entry.Annotation{
			Category: "splice variant",
			ID:       "VSP_003",
		},
		// Not an edit at all.
		entry.Annotation{
			Category: "domain",
			ID:       "PRO_001",
			Span:     &entry.Span{Start: 0, End: 4},
		},
	)

	edits := raw.Edits()
	require.Len(t, edits, 2)

	assert.Equal(t, "VSP_001", edits[0].ID)
	assert.True(t, edits[0].IsDeletion())
	assert.Equal(t, -3, edits[0].Delta())

	assert.Equal(t, "VSP_002", edits[1].ID)
	assert.False(t, edits[1].IsDeletion())
	assert.Equal(t, "WW", edits[1].Replacement)
	assert.Zero(t, edits[1].Delta())
}

func TestEditReplacementNormalization(t *testing.T) {
	tests := []struct {
		msg string
		ann entry.Annotation
		res string
		del bool
	}{
		{
			msg: "missing marker in variation",
			ann: entry.Annotation{
				Category:  "splice variant",
				ID:        "VSP_001",
				Span:      &entry.Span{Start: 0, End: 2},
				Variation: "Missing",
			},
			del: true,
		},
		{
			msg: "missing marker in description",
			ann: entry.Annotation{
				Category:    "splice variant",
				ID:          "VSP_002",
				Span:        &entry.Span{Start: 0, End: 2},
				Description: "in isoform 2, missing",
			},
			del: true,
		},
		{
			msg: "whitespace stripped from residues",
			ann: entry.Annotation{
				Category:  "splice variant",
				ID:        "VSP_003",
				Span:      &entry.Span{Start: 0, End: 2},
				Variation: "MK TA\n",
			},
			res: "MKTA",
		},
	}

	for _, v := range tests {
		raw := &entry.Raw{}
		raw.Annotations = append(raw.Annotations, v.ann)
		edits := raw.Edits()
		require.Len(t, edits, 1, v.msg)
		assert.Equal(t, v.del, edits[0].IsDeletion(), v.msg)
		if !v.del {
			assert.Equal(t, v.res, edits[0].Replacement, v.msg)
		}
	}
}

func TestResidueAt(t *testing.T) {
	raw := &entry.Raw{Sequence: "MKT"}

	res, ok := raw.ResidueAt(1)
	assert.True(t, ok)
	assert.Equal(t, byte('K'), res)

	_, ok = raw.ResidueAt(3)
	assert.False(t, ok)
	_, ok = raw.ResidueAt(-1)
	assert.False(t, ok)
}

func TestRowIsCanonical(t *testing.T) {
	canonical := &entry.Row{ID: "P1", ParentID: "P1"}
	isoform := &entry.Row{ID: "P1-2", ParentID: "P1", IsoformID: "P1-2"}

	assert.True(t, canonical.IsCanonical())
	assert.False(t, isoform.IsCanonical())
}
