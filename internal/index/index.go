// Package index assembles normalized papers into an author index:
// one entry per (surname, paper) pair, sorted by surname and grouped by
// initial letter.
package index

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lrrindex/lrr-index/internal/paper"
)

// KeySet reports whether a paper key is excluded from the index.
type KeySet interface {
	Contains(key string) bool
}

// Pair is one author of one paper.
type Pair struct {
	Surname string
	Paper   paper.Paper
}

// Entry is a Pair placed in the index. N is the zero-based emission order,
// unique across the whole index.
type Entry struct {
	N int
	Pair
}

// Group holds consecutive entries sharing an initial letter.
type Group struct {
	Letter  string
	Entries []Entry
}

// Index is the assembled author index.
type Index struct {
	// Letters are the distinct initials present, sorted ascending.
	Letters []string
	Groups  []Group

	Kept       []paper.Paper
	Superseded []paper.Paper
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	n := 0
	for _, g := range idx.Groups {
		n += len(g.Entries)
	}
	return n
}

// Entries returns every entry in emission order.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, 0, idx.Len())
	for _, g := range idx.Groups {
		out = append(out, g.Entries...)
	}
	return out
}

// Assemble filters superseded papers, explodes the rest into pairs, sorts
// them by surname and groups them by initial.
func Assemble(papers []paper.Paper, superseded KeySet, diag paper.Diagnostics) *Index {
	if diag == nil {
		diag = paper.Discard
	}

	kept, dropped := Filter(papers, superseded)
	diag.Info("supersession filter applied", "kept", len(kept), "superseded", len(dropped))

	pairs := Explode(kept)
	SortPairs(pairs)

	return &Index{
		Letters:    Letters(pairs),
		Groups:     GroupPairs(pairs),
		Kept:       kept,
		Superseded: dropped,
	}
}

// Filter splits papers into those kept and those whose key is superseded.
// Papers without a key are always kept. Input order is preserved in both.
func Filter(papers []paper.Paper, superseded KeySet) (kept, dropped []paper.Paper) {
	for _, p := range papers {
		if key := p.Key(); key != "" && superseded != nil && superseded.Contains(key) {
			dropped = append(dropped, p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, dropped
}

// Explode returns one pair per surname of every paper, in paper order.
func Explode(papers []paper.Paper) []Pair {
	var pairs []Pair
	for _, p := range papers {
		for _, s := range p.AuthorSurnames {
			pairs = append(pairs, Pair{Surname: s, Paper: p})
		}
	}
	return pairs
}

// SortKey lower-cases a surname and drops all whitespace, so "von Neumann",
// "VON NEUMANN" and "vonneumann" compare equal.
func SortKey(surname string) string {
	return strings.Join(strings.Fields(strings.ToLower(surname)), "")
}

// SortPairs orders pairs by SortKey, keeping input order among equal keys.
func SortPairs(pairs []Pair) {
	keys := make(map[string]string, len(pairs))
	key := func(s string) string {
		k, ok := keys[s]
		if !ok {
			k = SortKey(s)
			keys[s] = k
		}
		return k
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return key(pairs[i].Surname) < key(pairs[j].Surname)
	})
}

// Initial returns the upper-cased first character of a surname.
func Initial(surname string) string {
	r, size := utf8.DecodeRuneInString(surname)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r))
}

// Letters returns the sorted, de-duplicated initials of all pairs.
func Letters(pairs []Pair) []string {
	seen := make(map[string]bool)
	var letters []string
	for _, p := range pairs {
		l := Initial(p.Surname)
		if !seen[l] {
			seen[l] = true
			letters = append(letters, l)
		}
	}
	sort.Strings(letters)
	return letters
}

// GroupPairs starts a new group whenever the initial differs from the
// previous pair's and numbers entries in emission order.
func GroupPairs(pairs []Pair) []Group {
	var groups []Group
	for n, p := range pairs {
		l := Initial(p.Surname)
		if len(groups) == 0 || groups[len(groups)-1].Letter != l {
			groups = append(groups, Group{Letter: l})
		}
		g := &groups[len(groups)-1]
		g.Entries = append(g.Entries, Entry{N: n, Pair: p})
	}
	return groups
}
