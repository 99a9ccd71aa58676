// Package entry defines the data model shared by the parsing and
// transformation stages: the reusable per-entry scratch accumulator,
// annotations with canonical-frame coordinates, isoform declarations,
// and the transformed output row.
//
// This package is pure: no I/O, no global state.
package entry

import "strings"

// Span is a half-open [Start, End) interval in 0-based canonical
// coordinates. The UniProt XML convention (1-based, inclusive) is
// converted at the parser boundary.
type Span struct {
	Start int
	End   int
}

// Len returns the number of positions covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsPoint reports whether the span covers exactly one position.
func (s Span) IsPoint() bool {
	return s.Len() == 1
}

// Valid reports whether the span is non-empty and non-negative.
func (s Span) Valid() bool {
	return s.Start >= 0 && s.End > s.Start
}

// Annotation is one coordinate-bearing or free-text annotation
// accumulated during parsing. Span is nil for free-text annotations
// (for example subunit comments).
type Annotation struct {
	// Category is the feature or comment type, for example
	// "active site", "modified residue", "splice variant", "subunit".
	Category string

	// ID is the feature identifier attribute when present. For
	// splice-variant features this is the edit identifier (VSP_...)
	// referenced by isoform declarations.
	ID string

	Span        *Span
	Description string

	// Original and Variation are the reference and replacement
	// residues of variant features; both may be empty.
	Original  string
	Variation string

	// EvidenceKeys are entry-local numeric keys, resolved into
	// Evidence at entry flush.
	EvidenceKeys []string
	Evidence     string
}

// Location is a subcellular-location annotation.
type Location struct {
	Name         string
	EvidenceKeys []string
	Evidence     string
}

// CrossRef is a named external database reference.
type CrossRef struct {
	Database string
	ID       string
}

// Isoform is the scratch record of one declared sequence variant.
type Isoform struct {
	// ID is the isoform accession, for example "P04637-2".
	ID string

	// SeqRef is the override sequence key (sidecar FASTA accession)
	// when the declaration carries one; empty otherwise.
	SeqRef string

	Note string

	// EditIDs are identifiers of the splice-variant edits that
	// produce this isoform from the canonical sequence.
	EditIDs []string
}

// evidenceItem is one entry-local (key, code) pair in declaration order.
type evidenceItem struct {
	key  string
	code string
}

// Raw is the mutable accumulator for one entry being parsed. It is
// owned exclusively by the parser and reset between entries with all
// buffer capacity retained.
type Raw struct {
	Accession    string
	EntryName    string
	GeneName     string
	ProteinName  string
	OrganismID   int32
	OrganismName string
	Existence    int8
	Sequence     string

	CrossRefs   []CrossRef
	Annotations []Annotation
	Locations   []Location
	Isoforms    []Isoform

	evidence []evidenceItem
}

// Reset clears all fields for the next entry, keeping slice capacity.
func (r *Raw) Reset() {
	r.Accession = ""
	r.EntryName = ""
	r.GeneName = ""
	r.ProteinName = ""
	r.OrganismID = 0
	r.OrganismName = ""
	r.Existence = 0
	r.Sequence = ""
	r.CrossRefs = r.CrossRefs[:0]
	r.Annotations = r.Annotations[:0]
	r.Locations = r.Locations[:0]
	r.Isoforms = r.Isoforms[:0]
	r.evidence = r.evidence[:0]
}

// AddEvidence records one entry-local evidence declaration. Duplicate
// keys keep the first declaration.
func (r *Raw) AddEvidence(key, code string) {
	for _, it := range r.evidence {
		if it.key == key {
			return
		}
	}
	r.evidence = append(r.evidence, evidenceItem{key: key, code: code})
}

// EvidenceCount returns the number of declared evidence items.
func (r *Raw) EvidenceCount() int {
	return len(r.evidence)
}

// ResolveEvidence joins the codes for the given keys with ";" in
// entry-declaration order. Unresolved keys are dropped; the second
// return value is the number of misses.
func (r *Raw) ResolveEvidence(keys []string) (string, int) {
	if len(keys) == 0 {
		return "", 0
	}

	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}

	var codes []string
	found := 0
	for _, it := range r.evidence {
		if want[it.key] {
			codes = append(codes, it.code)
			found++
		}
	}

	return strings.Join(codes, ";"), len(want) - found
}

// ResidueAt returns the canonical residue at a 0-based position.
func (r *Raw) ResidueAt(pos int) (byte, bool) {
	if pos < 0 || pos >= len(r.Sequence) {
		return 0, false
	}
	return r.Sequence[pos], true
}

// Edits extracts the coordinate-changing operations declared by this
// entry's splice-variant annotations. Annotations without an
// identifier or without a complete span cannot be scoped to an
// isoform and are skipped.
func (r *Raw) Edits() []Edit {
	var edits []Edit
	for i := range r.Annotations {
		ann := &r.Annotations[i]
		if !ann.IsEdit() || ann.ID == "" || ann.Span == nil {
			continue
		}
		if !ann.Span.Valid() {
			continue
		}
		edits = append(edits, Edit{
			ID:          ann.ID,
			Span:        *ann.Span,
			Replacement: editReplacement(ann),
		})
	}
	return edits
}

// IsEdit reports whether the annotation declares a sequence edit.
// "variant sequence" is the spelling used by some older exports.
func (a *Annotation) IsEdit() bool {
	return a.Category == "splice variant" || a.Category == "variant sequence"
}

// editReplacement normalizes the replacement residues of an edit.
// A "Missing" marker in the variation or description means the span
// is absent from the isoform, which is expressed as an empty
// replacement (see Edit.IsDeletion).
func editReplacement(a *Annotation) string {
	if containsMissing(a.Variation) || containsMissing(a.Description) {
		return ""
	}
	return cleanResidues(a.Variation)
}

func containsMissing(s string) bool {
	return strings.Contains(strings.ToLower(s), "missing")
}

// cleanResidues keeps only letters, dropping whitespace and
// punctuation that some exports embed in variation text.
func cleanResidues(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
