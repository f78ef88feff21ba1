// Package paper defines the normalized, format-independent record used by
// the index pipeline.
package paper

import "fmt"

// Placeholder is substituted for any field that could not be resolved.
const Placeholder = "missing"

// EtAl replaces the tail of a collapsed collaboration author list.
const EtAl = "et al."

// Paper is one bibliographic record after normalization.
type Paper struct {
	// Identity
	ID  string `json:"id,omitempty"` // Source-assigned id (JSON feeds); empty for XML feeds
	DOI string `json:"doi"`

	// Position is the 1-based place of the record in its feed.
	Position int `json:"position,omitempty"`

	// Metadata, kept as text since upstream values are not always numeric
	Title    string `json:"title"`
	Year     string `json:"year"`
	Volume   string `json:"volume"`
	Number   string `json:"number"` // Issue or page start
	Abstract string `json:"abstract"`

	Authors        []string `json:"authors"`         // Display names, source order
	AuthorSurnames []string `json:"author_surnames"` // Index keys, one per author unless collapsed

	// Quality tracking
	Incomplete bool     `json:"incomplete"`
	Missing    []string `json:"missing,omitempty"` // Names of fields that fell back to Placeholder

	// Raw is the record exactly as it appeared in the source feed.
	Raw []byte `json:"-"`
}

// Key returns the identifier used for supersession and correction lookup:
// the source id when present, otherwise the resolved DOI, otherwise the
// record's position in its feed. It is empty when none of these is known and
// never the Placeholder.
func (p Paper) Key() string {
	switch {
	case p.ID != "":
		return p.ID
	case p.DOI != "" && p.DOI != Placeholder:
		return p.DOI
	case p.Position > 0:
		return RecordRef(p.Position)
	}
	return ""
}

// RecordRef names the record at 1-based position n of a feed.
func RecordRef(n int) string {
	return fmt.Sprintf("record #%d", n)
}

// IsCollaboration reports whether the author list was collapsed.
func (p Paper) IsCollaboration() bool {
	return len(p.AuthorSurnames) == 1 && len(p.Authors) == 2 && p.Authors[1] == EtAl
}

// Incompletes returns the papers flagged incomplete, in input order.
func Incompletes(papers []Paper) []Paper {
	var out []Paper
	for _, p := range papers {
		if p.Incomplete {
			out = append(out, p)
		}
	}
	return out
}
