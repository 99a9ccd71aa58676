package entry

// Edit is one coordinate-changing operation in the canonical frame,
// identified and referenced by the isoforms it applies to.
type Edit struct {
	ID   string
	Span Span

	// Replacement holds the residues substituted for the span.
	// Empty means the span is removed from the isoform.
	Replacement string
}

// IsDeletion reports whether the edit removes its span outright.
//
// The rule "a span with no replacement residues implies deletion" is
// a property observed in the data, not a guarantee of the source
// grammar. It is kept behind this single predicate so it can be
// tightened without touching the mapping algorithm.
func (e Edit) IsDeletion() bool {
	return e.Replacement == ""
}

// NewLen returns the length of the span after the edit is applied.
func (e Edit) NewLen() int {
	return len(e.Replacement)
}

// Delta returns the length change the edit introduces downstream.
func (e Edit) Delta() int {
	return e.NewLen() - e.Span.Len()
}
