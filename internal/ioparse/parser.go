// Package ioparse streams raw entries out of a UniProtKB XML dump.
//
// The parser is a recursive-descent state machine over an
// encoding/xml token stream. Each element handler consumes its own
// subtree through the matching end token, so the dispatch loops never
// track depth. encoding/xml reports a self-closing tag as a start
// token followed by a synthetic end token, which makes the two tag
// spellings indistinguishable to every handler.
//
// One entry is in memory at a time. The accumulator is reused between
// entries with slice capacity retained.
package ioparse

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"uniparq/pkg/config"
	"uniparq/pkg/entry"
	"uniparq/pkg/metrics"
)

// Parser yields entries from an XML stream one Scan call at a time.
type Parser struct {
	dec     *xml.Decoder
	in      *input
	raw     *entry.Raw
	metrics *metrics.Metrics

	onMalformed string
	err         error
}

// New opens path and returns a parser over its entries.
func New(
	path string, cfg *config.Config, m *metrics.Metrics,
) (*Parser, error) {
	in, err := openInput(path, cfg.Performance.BufferSize)
	if err != nil {
		return nil, err
	}
	p := NewFromReader(in, cfg, m)
	p.in = in
	return p, nil
}

// NewFromReader returns a parser over an already-open XML stream.
func NewFromReader(
	r io.Reader, cfg *config.Config, m *metrics.Metrics,
) *Parser {
	return &Parser{
		dec:         xml.NewDecoder(r),
		raw:         &entry.Raw{},
		metrics:     m,
		onMalformed: cfg.Convert.OnMalformed,
	}
}

// Scan advances to the next entry. It returns false at end of input
// or on a fatal error; Err distinguishes the two.
func (p *Parser) Scan() bool {
	if p.err != nil {
		return false
	}

	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return false
		}
		if err != nil {
			p.err = XMLError(err)
			return false
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "entry" {
			continue
		}

		p.raw.Reset()
		if err := p.consumeEntry(); err != nil {
			p.err = err
			return false
		}

		if p.raw.Accession == "" {
			if p.onMalformed == config.OnMalformedAbort {
				p.err = MissingAccessionError(p.raw.EntryName)
				return false
			}
			p.metrics.IncSkipped()
			continue
		}

		p.finalize()
		p.metrics.IncEntries()
		return true
	}
}

// Entry returns the entry produced by the last successful Scan. The
// value is reused on the next Scan.
func (p *Parser) Entry() *entry.Raw {
	return p.raw
}

// Err returns the first fatal error, or nil on clean end of input.
func (p *Parser) Err() error {
	return p.err
}

// BytesRead returns compressed bytes consumed from the input file.
// It returns 0 when the parser was built from a plain reader.
func (p *Parser) BytesRead() uint64 {
	if p.in == nil {
		return 0
	}
	return p.in.BytesRead()
}

// Close releases the underlying file.
func (p *Parser) Close() error {
	if p.in == nil {
		return nil
	}
	if p.metrics != nil {
		p.metrics.AddBytesRead(p.in.BytesRead())
	}
	return p.in.Close()
}

// finalize resolves evidence references accumulated during the entry
// into joined ECO code strings.
func (p *Parser) finalize() {
	misses := 0
	for i := range p.raw.Annotations {
		ann := &p.raw.Annotations[i]
		var n int
		ann.Evidence, n = p.raw.ResolveEvidence(ann.EvidenceKeys)
		misses += n
	}
	for i := range p.raw.Locations {
		loc := &p.raw.Locations[i]
		var n int
		loc.Evidence, n = p.raw.ResolveEvidence(loc.EvidenceKeys)
		misses += n
	}
	if misses > 0 {
		p.metrics.AddEvidenceMisses(uint64(misses))
	}
}

func (p *Parser) consumeEntry() error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return XMLError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.dispatchEntryChild(t); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "entry" {
				return nil
			}
		}
	}
}

func (p *Parser) dispatchEntryChild(se xml.StartElement) error {
	switch se.Name.Local {
	case "accession":
		text, err := p.readText()
		if err != nil {
			return err
		}
		// Secondary accessions follow the primary one.
		if p.raw.Accession == "" {
			p.raw.Accession = text
		}
		return nil
	case "name":
		text, err := p.readText()
		if err != nil {
			return err
		}
		p.raw.EntryName = text
		return nil
	case "sequence":
		text, err := p.readText()
		if err != nil {
			return err
		}
		p.raw.Sequence = stripSpace(text)
		return nil
	case "organism":
		return p.consumeOrganism()
	case "gene":
		return p.consumeGene()
	case "protein":
		return p.consumeProtein()
	case "proteinExistence":
		p.raw.Existence = mapExistence(attr(se, "type"))
		return p.skip()
	case "dbReference":
		p.handleCrossRef(se)
		return p.skip()
	case "feature":
		return p.consumeFeature(se)
	case "comment":
		return p.consumeComment(se)
	case "evidence":
		if key := attr(se, "key"); key != "" {
			if code := attr(se, "type"); code != "" {
				p.raw.AddEvidence(key, code)
			}
		}
		return p.skip()
	default:
		return p.skip()
	}
}

func (p *Parser) consumeOrganism() error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "name":
				if attr(t, "type") == "scientific" {
					text, err := p.readText()
					if err != nil {
						return err
					}
					p.raw.OrganismName = text
				} else if err := p.skip(); err != nil {
					return err
				}
			case "dbReference":
				if attr(t, "type") == "NCBI Taxonomy" {
					if id, err := strconv.ParseInt(
						attr(t, "id"), 10, 32,
					); err == nil {
						p.raw.OrganismID = int32(id)
					}
				}
				if err := p.skip(); err != nil {
					return err
				}
			default:
				if err := p.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "organism" {
				return nil
			}
		}
	}
}

func (p *Parser) consumeGene() error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "name" && attr(t, "type") == "primary" {
				text, err := p.readText()
				if err != nil {
					return err
				}
				p.raw.GeneName = text
			} else if err := p.skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "gene" {
				return nil
			}
		}
	}
}

func (p *Parser) consumeProtein() error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "recommendedName":
				if err := p.consumeRecommendedName(); err != nil {
					return err
				}
			case "proteinExistence":
				// Some exports nest existence under protein.
				p.raw.Existence = mapExistence(attr(t, "type"))
				if err := p.skip(); err != nil {
					return err
				}
			default:
				if err := p.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "protein" {
				return nil
			}
		}
	}
}

func (p *Parser) consumeRecommendedName() error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "fullName" {
				text, err := p.readText()
				if err != nil {
					return err
				}
				p.raw.ProteinName = text
			} else if err := p.skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "recommendedName" {
				return nil
			}
		}
	}
}

func (p *Parser) handleCrossRef(se xml.StartElement) {
	db := attr(se, "type")
	if db != "PDB" && db != "AlphaFoldDB" {
		return
	}
	if id := attr(se, "id"); id != "" {
		p.raw.CrossRefs = append(p.raw.CrossRefs, entry.CrossRef{
			Database: db,
			ID:       id,
		})
	}
}

// featureSpan accumulates 1-based coordinates from location children.
type featureSpan struct {
	begin int
	end   int
}

func (f *featureSpan) span() *entry.Span {
	if f.begin <= 0 || f.end <= 0 || f.end < f.begin {
		return nil
	}
	return &entry.Span{Start: f.begin - 1, End: f.end}
}

func (p *Parser) consumeFeature(se xml.StartElement) error {
	ann := entry.Annotation{
		Category:    attr(se, "type"),
		ID:          attr(se, "id"),
		Description: attr(se, "description"),
	}
	if ev := attr(se, "evidence"); ev != "" {
		ann.EvidenceKeys = strings.Fields(ev)
	}

	var fs featureSpan
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "location":
				if err := p.consumeLocation(&fs); err != nil {
					return err
				}
			case "original":
				text, err := p.readText()
				if err != nil {
					return err
				}
				ann.Original = text
			case "variation":
				text, err := p.readText()
				if err != nil {
					return err
				}
				ann.Variation = text
			default:
				if err := p.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "feature" {
				ann.Span = fs.span()
				p.raw.Annotations = append(p.raw.Annotations, ann)
				return nil
			}
		}
	}
}

func (p *Parser) consumeLocation(fs *featureSpan) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			pos, _ := strconv.Atoi(attr(t, "position"))
			switch t.Name.Local {
			case "position":
				if pos > 0 {
					fs.begin = pos
					fs.end = pos
				}
			case "begin":
				if pos > 0 {
					fs.begin = pos
				}
			case "end":
				if pos > 0 {
					fs.end = pos
				}
			}
			if err := p.skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "location" {
				return nil
			}
		}
	}
}

func (p *Parser) consumeComment(se xml.StartElement) error {
	switch attr(se, "type") {
	case "subcellular location":
		return p.consumeSubcellularLocation()
	case "alternative products":
		return p.consumeAlternativeProducts()
	case "subunit":
		return p.consumeSubunit(se)
	default:
		return p.skip()
	}
}

func (p *Parser) consumeSubcellularLocation() error {
	// Locations nest under intermediate subcellularLocation elements;
	// track depth instead of skipping unknown children.
	depth := 1
	for depth > 0 {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "location" {
				loc := entry.Location{}
				if ev := attr(t, "evidence"); ev != "" {
					loc.EvidenceKeys = strings.Fields(ev)
				}
				text, err := p.readText()
				if err != nil {
					return err
				}
				loc.Name = text
				p.raw.Locations = append(p.raw.Locations, loc)
			} else {
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func (p *Parser) consumeAlternativeProducts() error {
	depth := 1
	for depth > 0 {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "isoform" {
				if err := p.consumeIsoform(); err != nil {
					return err
				}
			} else {
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func (p *Parser) consumeIsoform() error {
	iso := entry.Isoform{}
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "id":
				text, err := p.readText()
				if err != nil {
					return err
				}
				// The first id is the isoform accession; later ones
				// are aliases.
				if iso.ID == "" {
					iso.ID = text
				}
			case "sequence":
				p.captureIsoformSequence(t, &iso)
				if err := p.skip(); err != nil {
					return err
				}
			case "note":
				text, err := p.readText()
				if err != nil {
					return err
				}
				iso.Note = text
			default:
				if err := p.skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "isoform" {
				p.raw.Isoforms = append(p.raw.Isoforms, iso)
				return nil
			}
		}
	}
}

// captureIsoformSequence sorts a sequence declaration into edit
// references versus an external sequence key. A ref of type
// "described" or with a VSP_ prefix names an edit; anything else is
// the sidecar accession for a precomputed sequence.
func (p *Parser) captureIsoformSequence(
	se xml.StartElement, iso *entry.Isoform,
) {
	ref := attr(se, "ref")
	if ref == "" {
		return
	}
	if attr(se, "type") == "described" || strings.HasPrefix(ref, "VSP_") {
		iso.EditIDs = append(iso.EditIDs, strings.Fields(ref)...)
		return
	}
	if iso.SeqRef == "" || strings.HasPrefix(iso.SeqRef, "VSP_") {
		iso.SeqRef = ref
	}
}

func (p *Parser) consumeSubunit(se xml.StartElement) error {
	ann := entry.Annotation{Category: "subunit"}
	if ev := attr(se, "evidence"); ev != "" {
		ann.EvidenceKeys = strings.Fields(ev)
	}

	for {
		tok, err := p.dec.Token()
		if err != nil {
			return p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "text" {
				if ev := attr(t, "evidence"); ev != "" {
					ann.EvidenceKeys = strings.Fields(ev)
				}
				text, err := p.readText()
				if err != nil {
					return err
				}
				ann.Description = text
			} else if err := p.skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "comment" {
				if strings.TrimSpace(ann.Description) != "" {
					p.raw.Annotations = append(p.raw.Annotations, ann)
				}
				return nil
			}
		}
	}
}

// readText collects the character data of the element whose start
// token was just consumed, through its end token. Entity references
// arrive as separate character-data fragments and are concatenated.
func (p *Parser) readText() (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := p.dec.Token()
		if err != nil {
			return "", p.streamErr(err)
		}

		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return sb.String(), nil
}

// skip consumes the element whose start token was just consumed.
func (p *Parser) skip() error {
	if err := p.dec.Skip(); err != nil {
		return p.streamErr(err)
	}
	return nil
}

func (p *Parser) streamErr(err error) error {
	if err == io.EOF {
		return XMLError(io.ErrUnexpectedEOF)
	}
	return XMLError(err)
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func stripSpace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' {
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// mapExistence converts proteinExistence type strings to the numeric
// codes used in the output, 0 for anything unrecognized.
func mapExistence(t string) int8 {
	switch t {
	case "evidence at protein level":
		return 1
	case "evidence at transcript level":
		return 2
	case "inferred from homology":
		return 3
	case "predicted":
		return 4
	case "uncertain":
		return 5
	default:
		return 0
	}
}
