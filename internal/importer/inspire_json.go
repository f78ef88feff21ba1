package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lrrindex/lrr-index/internal/paper"
)

// FlexibleString can unmarshal from either string or number JSON values.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	// Handle null
	if string(data) == "null" {
		*f = ""
		return nil
	}

	// Try string first
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	// Try number
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// jsonDocument is an INSPIRE literature search response.
type jsonDocument struct {
	Hits *struct {
		Hits  []json.RawMessage `json:"hits"`
		Total int               `json:"total"`
	} `json:"hits"`
}

// jsonHit is one search hit. Metadata is kept as raw members so corrections
// can replace them and so each field decodes on its own.
type jsonHit struct {
	ID       FlexibleString             `json:"id"`
	Metadata map[string]json.RawMessage `json:"metadata"`
}

type jsonTitle struct {
	Title string `json:"title"`
}

type jsonValue struct {
	Value string `json:"value"`
}

type jsonAuthor struct {
	FullName string `json:"full_name"`
	LastName string `json:"last_name"`
}

type jsonPublicationInfo struct {
	JournalTitle  string         `json:"journal_title"`
	JournalVolume FlexibleString `json:"journal_volume"`
	Year          FlexibleString `json:"year"`
	PageStart     FlexibleString `json:"page_start"`
	ArtID         FlexibleString `json:"artid"`
}

// mergeMetadata returns a new metadata map with every member of patch
// overwriting the member of the same name in base.
func mergeMetadata(base, patch map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// decodeMember decodes one metadata member, reporting absence or a type
// mismatch as a missing field.
func decodeMember[T any](meta map[string]json.RawMessage, field, member string) Result[T] {
	raw, ok := meta[member]
	if !ok || string(raw) == "null" {
		return missing[T](field, member+" absent")
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return missing[T](field, "decoding "+member+": "+err.Error())
	}
	return found(v)
}

// jsonAdapter reads INSPIRE literature API responses. Records are keyed by
// their INSPIRE id.
type jsonAdapter struct{}

func (jsonAdapter) Name() string { return "json" }

func (jsonAdapter) Normalize(raw []byte, corrections Corrections, opts Options, diag paper.Diagnostics) ([]paper.Paper, error) {
	if diag == nil {
		diag = paper.Discard
	}

	var doc jsonDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding JSON: %v", ErrMalformedInput, err)
	}
	if doc.Hits == nil || doc.Hits.Hits == nil {
		return nil, fmt.Errorf("%w: no hits.hits container", ErrMalformedInput)
	}

	papers := make([]paper.Paper, 0, len(doc.Hits.Hits))
	for i, rawHit := range doc.Hits.Hits {
		p, err := normalizeJSONHit(i, rawHit, corrections, opts, diag)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func normalizeJSONHit(i int, rawHit json.RawMessage, corrections Corrections, opts Options, diag paper.Diagnostics) (paper.Paper, error) {
	var hit jsonHit
	if err := json.Unmarshal(rawHit, &hit); err != nil {
		diag.Warn("record undecodable", "record", paper.RecordRef(i+1), "error", err)
	}

	id := strings.TrimSpace(hit.ID.String())
	if id == "" {
		if cn := decodeMember[FlexibleString](hit.Metadata, "id", "control_number"); cn.OK() {
			id = cn.Value.String()
		}
	}

	ref := paper.RecordRef(i + 1)

	meta := hit.Metadata
	if node, key, ok := corrections.lookup(id, ref); ok {
		var fields map[string]any
		if err := node.Decode(&fields); err != nil {
			return paper.Paper{}, fmt.Errorf("%w: %q: %v", ErrInvalidCorrection, key, err)
		}
		patch := make(map[string]json.RawMessage, len(fields))
		for k, v := range fields {
			data, err := json.Marshal(v)
			if err != nil {
				return paper.Paper{}, fmt.Errorf("%w: %q: field %s: %v", ErrInvalidCorrection, key, k, err)
			}
			patch[k] = data
		}
		meta = mergeMetadata(meta, patch)
	}

	key := id
	if key == "" {
		key = ref
	}

	b := newRecordBuilder(key, diag)
	b.p.ID = id
	b.p.Position = i + 1
	b.setText(&b.p.Title, jsonTitleOf(meta))
	b.setText(&b.p.DOI, jsonDOIOf(meta, opts.DOIPrefixes))
	b.setText(&b.p.Abstract, jsonAbstractOf(meta))

	v := jsonVenueOf(meta, opts.JournalName, key, diag)
	if v.OK() {
		b.setText(&b.p.Year, nonBlank("year", v.Value.Year))
		b.setText(&b.p.Volume, nonBlank("volume", v.Value.Volume))
		b.setText(&b.p.Number, nonBlank("number", v.Value.Number))
	} else {
		b.setText(&b.p.Year, missing[string]("year", v.Err.Reason))
		b.setText(&b.p.Volume, missing[string]("volume", v.Err.Reason))
		b.setText(&b.p.Number, missing[string]("number", v.Err.Reason))
	}

	b.setAuthors(jsonAuthorsOf(meta), opts.MaxAuthors)

	return b.build(append([]byte(nil), rawHit...)), nil
}

func jsonTitleOf(meta map[string]json.RawMessage) Result[string] {
	titles := decodeMember[[]jsonTitle](meta, "title", "titles")
	if !titles.OK() {
		return Result[string]{Err: titles.Err}
	}
	for _, t := range titles.Value {
		if s := strings.TrimSpace(t.Title); s != "" {
			return found(s)
		}
	}
	return missing[string]("title", "titles empty")
}

func jsonDOIOf(meta map[string]json.RawMessage, prefixes []string) Result[string] {
	dois := decodeMember[[]jsonValue](meta, "doi", "dois")
	if !dois.OK() {
		return Result[string]{Err: dois.Err}
	}
	candidates := make([]string, len(dois.Value))
	for i, d := range dois.Value {
		candidates[i] = d.Value
	}
	return selectDOI(candidates, prefixes)
}

func jsonAbstractOf(meta map[string]json.RawMessage) Result[string] {
	abstracts := decodeMember[[]jsonValue](meta, "abstract", "abstracts")
	if !abstracts.OK() {
		return Result[string]{Err: abstracts.Err}
	}
	for _, a := range abstracts.Value {
		if s := strings.TrimSpace(a.Value); s != "" {
			return found(s)
		}
	}
	return missing[string]("abstract", "abstracts empty")
}

func jsonVenueOf(meta map[string]json.RawMessage, journal, key string, diag paper.Diagnostics) Result[venue] {
	infos := decodeMember[[]jsonPublicationInfo](meta, "publication_info", "publication_info")
	if !infos.OK() {
		return Result[venue]{Err: infos.Err}
	}

	entries := make([]venue, len(infos.Value))
	for i, pi := range infos.Value {
		number := pi.PageStart.String()
		if strings.TrimSpace(number) == "" {
			number = pi.ArtID.String()
		}
		entries[i] = venue{
			Journal: pi.JournalTitle,
			Volume:  pi.JournalVolume.String(),
			Year:    pi.Year.String(),
			Number:  number,
		}
	}

	v, skipped := selectVenue(entries, journal)
	for _, s := range skipped {
		diag.Warn("venue entry has non-numeric volume", "record", key, "volume", s.Volume)
	}
	return v
}

func jsonAuthorsOf(meta map[string]json.RawMessage) Result[[]author] {
	list := decodeMember[[]jsonAuthor](meta, "authors", "authors")
	if !list.OK() {
		return Result[[]author]{Err: list.Err}
	}

	var authors []author
	for _, a := range list.Value {
		name := strings.TrimSpace(a.FullName)
		surname := strings.TrimSpace(a.LastName)
		if name == "" {
			name = surname
		}
		if name == "" {
			continue
		}
		if surname == "" {
			surname = surnameOf(name)
		}
		authors = append(authors, author{Name: name, Surname: surname})
	}
	if len(authors) == 0 {
		return missing[[]author]("authors", "authors empty")
	}
	return found(authors)
}
