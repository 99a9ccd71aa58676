package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uniparq/pkg/entry"
	"uniparq/pkg/mapper"
)

func del(id string, start, end int) entry.Edit {
	return entry.Edit{
		ID:   id,
		Span: entry.Span{Start: start, End: end},
	}
}

func sub(id string, start, end int, repl string) entry.Edit {
	return entry.Edit{
		ID:          id,
		Span:        entry.Span{Start: start, End: end},
		Replacement: repl,
	}
}

func TestIdentity(t *testing.T) {
	m := mapper.New(nil)

	for _, pos := range []int{0, 1, 41, 10_000} {
		got, f := m.MapPoint(pos)
		assert.Equal(t, mapper.FailureNone, f)
		assert.Equal(t, pos, got)
	}
}

func TestMapPoint(t *testing.T) {
	tests := []struct {
		msg   string
		edits []entry.Edit
		pos   int
		res   int
		fail  mapper.Failure
	}{
		{
			msg:   "before deletion",
			edits: []entry.Edit{del("VSP_001", 10, 20)},
			pos:   5,
			res:   5,
			fail:  mapper.FailureNone,
		},
		{
			msg:   "after deletion shifts left",
			edits: []entry.Edit{del("VSP_001", 10, 20)},
			pos:   30,
			res:   20,
			fail:  mapper.FailureNone,
		},
		{
			msg:   "first position after deletion",
			edits: []entry.Edit{del("VSP_001", 10, 20)},
			pos:   20,
			res:   10,
			fail:  mapper.FailureNone,
		},
		{
			msg:   "inside deletion",
			edits: []entry.Edit{del("VSP_001", 10, 20)},
			pos:   15,
			fail:  mapper.FailureVspDeletion,
		},
		{
			msg:   "deletion start boundary is deleted too",
			edits: []entry.Edit{del("VSP_001", 10, 20)},
			pos:   10,
			fail:  mapper.FailureVspDeletion,
		},
		{
			msg:   "same-length substitution maps through",
			edits: []entry.Edit{sub("VSP_002", 10, 13, "AAA")},
			pos:   11,
			res:   11,
			fail:  mapper.FailureNone,
		},
		{
			msg:   "interior of length-changing edit",
			edits: []entry.Edit{sub("VSP_003", 10, 13, "AAAAA")},
			pos:   11,
			fail:  mapper.FailureVspUnresolvable,
		},
		{
			msg:   "start boundary of length-changing edit",
			edits: []entry.Edit{sub("VSP_003", 10, 13, "AAAAA")},
			pos:   10,
			res:   10,
			fail:  mapper.FailureNone,
		},
		{
			msg: "two deletions accumulate",
			edits: []entry.Edit{
				del("VSP_001", 0, 5),
				del("VSP_002", 10, 15),
			},
			pos:  20,
			res:  10,
			fail: mapper.FailureNone,
		},
		{
			msg: "insertion shifts right",
			edits: []entry.Edit{
				sub("VSP_004", 5, 6, "AAAA"),
			},
			pos:  10,
			res:  13,
			fail: mapper.FailureNone,
		},
		{
			msg:   "negative position",
			edits: nil,
			pos:   -1,
			fail:  mapper.FailureCanonicalOOB,
		},
	}

	for _, v := range tests {
		m := mapper.New(v.edits)
		got, f := m.MapPoint(v.pos)
		assert.Equal(t, v.fail, f, v.msg)
		if v.fail == mapper.FailureNone {
			assert.Equal(t, v.res, got, v.msg)
		}
	}
}

func TestUnsortedEdits(t *testing.T) {
	// Construction sorts, so declaration order must not matter.
	edits := []entry.Edit{
		del("VSP_002", 30, 40),
		del("VSP_001", 10, 20),
	}
	m := mapper.New(edits)

	got, f := m.MapPoint(50)
	assert.Equal(t, mapper.FailureNone, f)
	assert.Equal(t, 30, got)
}

func TestNewForIsoform(t *testing.T) {
	all := []entry.Edit{
		del("VSP_001", 10, 20),
		del("VSP_002", 30, 40),
		sub("VSP_003", 50, 53, "WWW"),
	}

	tests := []struct {
		msg   string
		ids   []string
		count int
		delta int
	}{
		{"no ids yields identity", nil, 0, 0},
		{"one edit scoped", []string{"VSP_001"}, 1, -10},
		{"two edits scoped", []string{"VSP_001", "VSP_002"}, 2, -20},
		{"unknown ids ignored", []string{"VSP_999"}, 0, 0},
	}

	for _, v := range tests {
		m := mapper.NewForIsoform(all, v.ids)
		assert.Equal(t, v.count, m.EditCount(), v.msg)
		assert.Equal(t, v.delta, m.Delta(), v.msg)
	}
}

func TestIsolation(t *testing.T) {
	// An edit referenced only by another isoform must not leak into
	// this mapper.
	all := []entry.Edit{
		del("VSP_001", 0, 5),
		del("VSP_002", 10, 15),
	}
	m := mapper.NewForIsoform(all, []string{"VSP_002"})

	// Position 2 is inside VSP_001's span, which is out of scope.
	got, f := m.MapPoint(2)
	assert.Equal(t, mapper.FailureNone, f)
	assert.Equal(t, 2, got)

	got, f = m.MapPoint(12)
	assert.Equal(t, mapper.FailureVspDeletion, f)
	assert.Zero(t, got)
}

func TestApply(t *testing.T) {
	canonical := "MKTAYIAKQR"

	tests := []struct {
		msg   string
		edits []entry.Edit
		res   string
	}{
		{"no edits", nil, "MKTAYIAKQR"},
		{
			"deletion removes span",
			[]entry.Edit{del("VSP_001", 2, 5)},
			"MKIAKQR",
		},
		{
			"substitution same length",
			[]entry.Edit{sub("VSP_002", 0, 2, "WW")},
			"WWTAYIAKQR",
		},
		{
			"insertion grows sequence",
			[]entry.Edit{sub("VSP_003", 9, 10, "RGG")},
			"MKTAYIAKQRGG",
		},
		{
			"two edits apply independently",
			[]entry.Edit{
				del("VSP_001", 0, 2),
				sub("VSP_002", 8, 10, "WW"),
			},
			"TAYIAKWW",
		},
		{
			"span past sequence end is skipped",
			[]entry.Edit{del("VSP_004", 8, 20)},
			"MKTAYIAKQR",
		},
	}

	for _, v := range tests {
		m := mapper.New(v.edits)
		assert.Equal(t, v.res, m.Apply(canonical), v.msg)
	}
}

func TestFullSpanDeletion(t *testing.T) {
	// An isoform that deletes the whole canonical sequence.
	m := mapper.New([]entry.Edit{del("VSP_001", 0, 10)})

	assert.Equal(t, "", m.Apply("MKTAYIAKQR"))

	for pos := 0; pos < 10; pos++ {
		_, f := m.MapPoint(pos)
		assert.Equal(t, mapper.FailureVspDeletion, f)
	}
}

func TestFailureString(t *testing.T) {
	tests := []struct {
		fail mapper.Failure
		res  string
	}{
		{mapper.FailureNone, "mapped"},
		{mapper.FailureVspDeletion, "vsp_deletion"},
		{mapper.FailureVspUnresolvable, "vsp_unresolvable"},
		{mapper.FailureIsoformOOB, "isoform_oob"},
		{mapper.FailureResidueMismatch, "residue_mismatch"},
		{mapper.FailureCanonicalOOB, "canonical_oob"},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, v.fail.String())
	}
}
