package entry

// MappedAnnotation is one annotation with its span already rewritten
// into the row's own coordinate frame. Start and End are 1-based
// inclusive, matching the source convention expected downstream.
// Free-text annotations carry Start == End == 0.
type MappedAnnotation struct {
	Category    string
	Start       int32
	End         int32
	Description string
	Evidence    string
}

// MappedLocation is a subcellular location carried through to output.
type MappedLocation struct {
	Name     string
	Evidence string
}

// Row is one fully transformed output record: entry-level scalars
// plus annotations expressed against this row's own sequence.
// For the canonical form ID == ParentID and IsoformID is empty.
type Row struct {
	ID       string
	ParentID string

	IsoformID   string
	IsoformNote string

	Sequence     string
	OrganismID   int32
	OrganismName string
	EntryName    string
	GeneName     string
	ProteinName  string
	Existence    int8

	Annotations []MappedAnnotation
	Locations   []MappedLocation
	CrossRefs   []CrossRef
}

// IsCanonical reports whether the row represents the entry's primary
// (non-variant) sequence.
func (r *Row) IsCanonical() bool {
	return r.IsoformID == ""
}
