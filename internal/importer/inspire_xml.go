package importer

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/lrrindex/lrr-index/internal/paper"
)

// xmlDocument is an INSPIRE EndNote XML export: <xml><records><record>...
type xmlDocument struct {
	Records *struct {
		Record []xmlRecord `xml:"record"`
	} `xml:"records"`
}

// xmlText is element text that may be wrapped in EndNote <style> elements.
type xmlText struct {
	Text  string   `xml:",chardata"`
	Style []string `xml:"style"`
}

func (t *xmlText) String() string {
	if t == nil {
		return ""
	}
	return strings.TrimSpace(t.Text + strings.Join(t.Style, ""))
}

// xmlRecord is one <record> element.
type xmlRecord struct {
	Title    *xmlText  `xml:"titles>title"`
	DOIs     []xmlText `xml:"electronic-resource-num"`
	Year     *xmlText  `xml:"dates>year"`
	Volume   *xmlText  `xml:"volume"`
	Pages    *xmlText  `xml:"pages"`
	Abstract *xmlText  `xml:"abstract"`
	Authors  []xmlText `xml:"contributors>authors>author"`

	Inner []byte `xml:",innerxml"`
}

// xmlFields is the metadata view of a record that corrections apply to.
// Nil pointers and nil slices mean the element is absent.
type xmlFields struct {
	Title    *string  `yaml:"title"`
	DOIs     []string `yaml:"electronic-resource-num"`
	Year     *string  `yaml:"year"`
	Volume   *string  `yaml:"volume"`
	Pages    *string  `yaml:"pages"`
	Abstract *string  `yaml:"abstract"`
	Authors  []string `yaml:"authors"`
}

func (r xmlRecord) fields() xmlFields {
	f := xmlFields{
		Title:    textPtr(r.Title),
		Year:     textPtr(r.Year),
		Volume:   textPtr(r.Volume),
		Pages:    textPtr(r.Pages),
		Abstract: textPtr(r.Abstract),
	}
	for i := range r.DOIs {
		f.DOIs = append(f.DOIs, r.DOIs[i].String())
	}
	for i := range r.Authors {
		f.Authors = append(f.Authors, r.Authors[i].String())
	}
	return f
}

func (r xmlRecord) raw() []byte {
	var b bytes.Buffer
	b.WriteString("<record>")
	b.Write(r.Inner)
	b.WriteString("</record>")
	return b.Bytes()
}

func textPtr(t *xmlText) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

// mergeXMLFields returns a copy of base with every field present in patch
// overwritten. Neither argument is modified.
func mergeXMLFields(base, patch xmlFields) xmlFields {
	out := xmlFields{
		Title:    cloneString(base.Title),
		DOIs:     cloneStrings(base.DOIs),
		Year:     cloneString(base.Year),
		Volume:   cloneString(base.Volume),
		Pages:    cloneString(base.Pages),
		Abstract: cloneString(base.Abstract),
		Authors:  cloneStrings(base.Authors),
	}
	if patch.Title != nil {
		out.Title = cloneString(patch.Title)
	}
	if patch.DOIs != nil {
		out.DOIs = cloneStrings(patch.DOIs)
	}
	if patch.Year != nil {
		out.Year = cloneString(patch.Year)
	}
	if patch.Volume != nil {
		out.Volume = cloneString(patch.Volume)
	}
	if patch.Pages != nil {
		out.Pages = cloneString(patch.Pages)
	}
	if patch.Abstract != nil {
		out.Abstract = cloneString(patch.Abstract)
	}
	if patch.Authors != nil {
		out.Authors = cloneStrings(patch.Authors)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func optText(field string, s *string) Result[string] {
	if s == nil {
		return missing[string](field, "element absent")
	}
	return nonBlank(field, *s)
}

// xmlAdapter reads INSPIRE EndNote XML. Records carry no id, so the DOI is
// the record key for corrections and supersession.
type xmlAdapter struct{}

func (xmlAdapter) Name() string { return "xml" }

func (xmlAdapter) Normalize(raw []byte, corrections Corrections, opts Options, diag paper.Diagnostics) ([]paper.Paper, error) {
	if diag == nil {
		diag = paper.Discard
	}

	var doc xmlDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding XML: %v", ErrMalformedInput, err)
	}
	if doc.Records == nil {
		return nil, fmt.Errorf("%w: no <records> container", ErrMalformedInput)
	}

	papers := make([]paper.Paper, 0, len(doc.Records.Record))
	for i, rec := range doc.Records.Record {
		p, err := normalizeXMLRecord(i, rec, corrections, opts, diag)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func normalizeXMLRecord(i int, rec xmlRecord, corrections Corrections, opts Options, diag paper.Diagnostics) (paper.Paper, error) {
	view := rec.fields()
	ref := paper.RecordRef(i + 1)

	// Corrections are keyed by the DOI the record would resolve to on its own,
	// or by position when it has none.
	var own string
	if doi := selectDOI(view.DOIs, opts.DOIPrefixes); doi.OK() {
		own = doi.Value
	}
	if node, key, ok := corrections.lookup(own, ref); ok {
		var patch xmlFields
		if err := node.Decode(&patch); err != nil {
			return paper.Paper{}, fmt.Errorf("%w: %q: %v", ErrInvalidCorrection, key, err)
		}
		view = mergeXMLFields(view, patch)
	}

	doi := selectDOI(view.DOIs, opts.DOIPrefixes)
	key := doi.Value
	if !doi.OK() {
		key = ref
	}

	b := newRecordBuilder(key, diag)
	b.p.Position = i + 1
	b.setText(&b.p.DOI, doi)
	b.setText(&b.p.Title, optText("title", view.Title))
	b.setText(&b.p.Year, optText("year", view.Year))
	b.setText(&b.p.Volume, optText("volume", view.Volume))
	b.setText(&b.p.Number, optText("pages", view.Pages))
	b.setText(&b.p.Abstract, optText("abstract", view.Abstract))
	b.setAuthors(xmlAuthors(view.Authors), opts.MaxAuthors)

	return b.build(rec.raw()), nil
}

func xmlAuthors(names []string) Result[[]author] {
	var authors []author
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		authors = append(authors, author{Name: n, Surname: surnameOf(n)})
	}
	if len(authors) == 0 {
		return missing[[]author]("authors", "no author elements")
	}
	return found(authors)
}
