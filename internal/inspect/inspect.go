// Package inspect reads a rendered author index back into counts.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LetterStats is the content of one letter group.
type LetterStats struct {
	Letter  string `json:"letter"`
	Entries int    `json:"entries"`
}

// Stats summarizes a rendered index.
type Stats struct {
	Navigation []string      `json:"navigation"` // Letters linked from the navigation list
	Groups     []LetterStats `json:"groups"`
	Entries    int           `json:"entries"`
	Linked     int           `json:"linked"` // Entries carrying a DOI link

	// Dangling lists navigation letters with no matching group.
	Dangling []string `json:"dangling,omitempty"`
}

// Read parses an index fragment and counts its groups and entries.
func Read(r io.Reader) (*Stats, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing index HTML: %w", err)
	}

	st := &Stats{Navigation: []string{}, Groups: []LetterStats{}}

	doc.Find("nav.lrr-letters li a").Each(func(_ int, s *goquery.Selection) {
		st.Navigation = append(st.Navigation, strings.TrimSpace(s.Text()))
	})

	// Entries follow their heading as siblings until the next heading.
	doc.Find("h2.lrr-letter").Each(func(_ int, s *goquery.Selection) {
		entries := s.NextUntil("h2.lrr-letter").Filter("div.lrr-entry")
		st.Groups = append(st.Groups, LetterStats{
			Letter:  strings.TrimSpace(s.Text()),
			Entries: entries.Length(),
		})
	})

	entries := doc.Find("div.lrr-entry")
	st.Entries = entries.Length()
	st.Linked = entries.Has("a[href]").Length()

	groups := make(map[string]bool, len(st.Groups))
	for _, g := range st.Groups {
		groups[g.Letter] = true
	}
	for _, l := range st.Navigation {
		if !groups[l] {
			st.Dangling = append(st.Dangling, l)
		}
	}

	return st, nil
}
