package importer

import (
	"strconv"
	"strings"

	"github.com/lrrindex/lrr-index/internal/paper"
)

// DefaultMaxAuthors is the largest author list indexed in full. Longer lists
// are treated as collaboration papers.
const DefaultMaxAuthors = 8

// author is one contributor as read from a feed.
type author struct {
	Name    string // Display name, usually "Last, First"
	Surname string
}

// surnameOf returns the text before the first comma of a display name.
func surnameOf(name string) string {
	last, _, _ := strings.Cut(name, ",")
	if last = strings.TrimSpace(last); last == "" {
		return strings.TrimSpace(name)
	}
	return last
}

// collapseAuthors returns display names and surnames, reducing lists longer
// than maxAuthors to the first author plus "et al.".
func collapseAuthors(authors []author, maxAuthors int) ([]string, []string) {
	if maxAuthors <= 0 {
		maxAuthors = DefaultMaxAuthors
	}
	if len(authors) > maxAuthors {
		return []string{authors[0].Name, paper.EtAl}, []string{authors[0].Surname}
	}

	names := make([]string, len(authors))
	surnames := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.Name
		surnames[i] = a.Surname
	}
	return names, surnames
}

// selectDOI picks one DOI from the candidates on a record. A single candidate
// is taken as is. With several, only those carrying an allowed prefix are
// kept and the last one wins: upstream occasionally attaches one stray
// non-journal DOI to a record.
func selectDOI(candidates []string, prefixes []string) Result[string] {
	var nonEmpty []string
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}

	switch len(nonEmpty) {
	case 0:
		return missing[string]("doi", "no candidates")
	case 1:
		return found(nonEmpty[0])
	}

	var chosen string
	for _, c := range nonEmpty {
		if hasAnyPrefix(c, prefixes) {
			chosen = c
		}
	}
	if chosen == "" {
		return missing[string]("doi", "no candidate with an allowed prefix")
	}
	return found(chosen)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// venue is one publication-info entry.
type venue struct {
	Journal string
	Volume  string
	Year    string
	Number  string
}

// selectVenue filters entries to the expected journal and, when several
// remain, returns the one with the numerically largest volume. Entries whose
// volume is not an integer cannot take part in that comparison and are
// reported through skipped.
func selectVenue(entries []venue, journal string) (v Result[venue], skipped []venue) {
	var matching []venue
	for _, e := range entries {
		if journal == "" || strings.TrimSpace(e.Journal) == journal {
			matching = append(matching, e)
		}
	}

	switch len(matching) {
	case 0:
		if len(entries) == 0 {
			return missing[venue]("publication_info", "no entries"), nil
		}
		return missing[venue]("publication_info", "no entry for journal "+strconv.Quote(journal)), nil
	case 1:
		return found(matching[0]), nil
	}

	best := -1
	var bestVolume int
	for i, e := range matching {
		n, err := strconv.Atoi(strings.TrimSpace(e.Volume))
		if err != nil {
			skipped = append(skipped, e)
			continue
		}
		if best < 0 || n > bestVolume {
			best, bestVolume = i, n
		}
	}
	if best < 0 {
		return missing[venue]("publication_info", "no entry with a numeric volume"), skipped
	}
	return found(matching[best]), skipped
}

// nonBlank resolves a text field, treating blank text as missing.
func nonBlank(field, s string) Result[string] {
	if s = strings.TrimSpace(s); s == "" {
		return missing[string](field, "")
	}
	return found(s)
}
