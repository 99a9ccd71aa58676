package iosink

import "uniparq/pkg/entry"

// Feature is one annotation column group in the output schema.
type Feature struct {
	FeatureType  string `parquet:"feature_type"`
	Description  string `parquet:"description,optional"`
	Start        int32  `parquet:"start,optional"`
	End          int32  `parquet:"end,optional"`
	EvidenceCode string `parquet:"evidence_code,optional"`
}

// Location is one subcellular location column group.
type Location struct {
	Location     string `parquet:"location"`
	EvidenceCode string `parquet:"evidence_code,optional"`
}

// Structure is one structural cross-reference column group.
type Structure struct {
	DB string `parquet:"db"`
	ID string `parquet:"id"`
}

// Row is the flat output record, one per sequence form. The column
// names follow the established downstream schema; iofilter reads the
// same shape back.
type Row struct {
	ID           string `parquet:"id"`
	ParentID     string `parquet:"parent_id"`
	IsoformID    string `parquet:"isoform_id,optional"`
	IsoformNote  string `parquet:"isoform_note,optional"`
	Sequence     string `parquet:"sequence"`
	OrganismID   int32  `parquet:"organism_id,optional"`
	OrganismName string `parquet:"organism_name,optional"`
	EntryName    string `parquet:"entry_name,optional"`
	GeneName     string `parquet:"gene_name,optional"`
	ProteinName  string `parquet:"protein_name,optional"`
	Existence    int32  `parquet:"existence,optional"`

	Features   []Feature   `parquet:"features,list"`
	Locations  []Location  `parquet:"location,list"`
	Structures []Structure `parquet:"structures,list"`
}

// FromEntry converts a transformed row into its output shape.
func FromEntry(r *entry.Row) Row {
	out := Row{
		ID:           r.ID,
		ParentID:     r.ParentID,
		IsoformID:    r.IsoformID,
		IsoformNote:  r.IsoformNote,
		Sequence:     r.Sequence,
		OrganismID:   r.OrganismID,
		OrganismName: r.OrganismName,
		EntryName:    r.EntryName,
		GeneName:     r.GeneName,
		ProteinName:  r.ProteinName,
		Existence:    int32(r.Existence),
	}

	if len(r.Annotations) > 0 {
		out.Features = make([]Feature, len(r.Annotations))
		for i, a := range r.Annotations {
			out.Features[i] = Feature{
				FeatureType:  a.Category,
				Description:  a.Description,
				Start:        a.Start,
				End:          a.End,
				EvidenceCode: a.Evidence,
			}
		}
	}

	if len(r.Locations) > 0 {
		out.Locations = make([]Location, len(r.Locations))
		for i, l := range r.Locations {
			out.Locations[i] = Location{
				Location:     l.Name,
				EvidenceCode: l.Evidence,
			}
		}
	}

	if len(r.CrossRefs) > 0 {
		out.Structures = make([]Structure, len(r.CrossRefs))
		for i, c := range r.CrossRefs {
			out.Structures[i] = Structure{DB: c.Database, ID: c.ID}
		}
	}

	return out
}
