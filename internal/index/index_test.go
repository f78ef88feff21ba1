package index

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/lrrindex/lrr-index/internal/diag"
	"github.com/lrrindex/lrr-index/internal/paper"
)

type keys map[string]bool

func (k keys) Contains(key string) bool { return k[key] }

func mkPaper(doi string, names ...string) paper.Paper {
	p := paper.Paper{DOI: doi, Title: "Paper " + doi}
	for _, n := range names {
		p.Authors = append(p.Authors, n)
		last, _, _ := strings.Cut(n, ",")
		p.AuthorSurnames = append(p.AuthorSurnames, last)
	}
	return p
}

func surnames(idx *Index) []string {
	var out []string
	for _, e := range idx.Entries() {
		out = append(out, e.Surname)
	}
	return out
}

func TestAssemble_SupersessionExample(t *testing.T) {
	p1 := mkPaper("10.1/aa", "Smith, A.", "Jones, B.")
	p2 := mkPaper("10.1/bb", "Adams, C.")

	var rec diag.Recorder
	idx := Assemble([]paper.Paper{p1, p2}, keys{"10.1/bb": true}, &rec)

	if got := surnames(idx); !reflect.DeepEqual(got, []string{"Jones", "Smith"}) {
		t.Errorf("entries = %v, want [Jones Smith]", got)
	}
	if !reflect.DeepEqual(idx.Letters, []string{"J", "S"}) {
		t.Errorf("Letters = %v, want [J S]", idx.Letters)
	}
	for _, e := range idx.Entries() {
		if e.Paper.DOI == "10.1/bb" {
			t.Error("superseded paper present in index")
		}
	}
	if len(idx.Superseded) != 1 || idx.Superseded[0].DOI != "10.1/bb" {
		t.Errorf("Superseded = %v", idx.Superseded)
	}

	entries := rec.Entries()
	if len(entries) != 1 {
		t.Fatalf("diagnostics = %+v, want only the supersession count", entries)
	}
	if entries[0].Attrs["kept"] != "1" || entries[0].Attrs["superseded"] != "1" {
		t.Errorf("supersession attrs = %v", entries[0].Attrs)
	}
	if len(rec.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %+v", rec.Warnings())
	}
}

func TestAssemble_OneEntryPerSurname(t *testing.T) {
	papers := []paper.Paper{
		mkPaper("10.1/a", "Zeta, Z.", "Alpha, A.", "Mu, M."),
		mkPaper("10.1/b", "Beta, B."),
		{DOI: "10.1/c", Authors: []string{"Big, B.", paper.EtAl}, AuthorSurnames: []string{"Big"}},
		mkPaper("10.1/d", "Gone, G."),
	}

	idx := Assemble(papers, keys{"10.1/d": true}, nil)

	count := make(map[string]int)
	for _, e := range idx.Entries() {
		count[e.Paper.DOI]++
	}
	want := map[string]int{"10.1/a": 3, "10.1/b": 1, "10.1/c": 1}
	if !reflect.DeepEqual(count, want) {
		t.Errorf("entries per paper = %v, want %v", count, want)
	}
}

func TestAssemble_KeyUsesIDWhenPresent(t *testing.T) {
	p := mkPaper("10.1/a", "Smith, A.")
	p.ID = "1600001"

	idx := Assemble([]paper.Paper{p}, keys{"10.1/a": true}, nil)
	if idx.Len() != 1 {
		t.Errorf("DOI should not match when the record has an id; Len() = %d", idx.Len())
	}

	idx = Assemble([]paper.Paper{p}, keys{"1600001": true}, nil)
	if idx.Len() != 0 {
		t.Errorf("id match should supersede; Len() = %d", idx.Len())
	}
}

func TestAssemble_PlaceholderDOINeverSuperseded(t *testing.T) {
	a := mkPaper(paper.Placeholder, "Smith, A.")
	b := mkPaper(paper.Placeholder, "Jones, B.")
	c := mkPaper(paper.Placeholder, "Adams, C.")
	c.Position = 3

	idx := Assemble([]paper.Paper{a, b, c}, keys{paper.Placeholder: true, "": true}, nil)
	if len(idx.Kept) != 3 || len(idx.Superseded) != 0 {
		t.Errorf("kept/superseded = %d/%d, want 3/0", len(idx.Kept), len(idx.Superseded))
	}

	idx = Assemble([]paper.Paper{a, b, c}, keys{"record #3": true}, nil)
	if len(idx.Superseded) != 1 || idx.Superseded[0].Position != 3 {
		t.Errorf("Superseded = %v, want only the third record", idx.Superseded)
	}
}

func TestSortKey(t *testing.T) {
	for _, s := range []string{"von Neumann", "VON NEUMANN", "vonneumann", " Von\tNeumann "} {
		if got := SortKey(s); got != "vonneumann" {
			t.Errorf("SortKey(%q) = %q, want vonneumann", s, got)
		}
	}
}

func TestSortPairs_CaseAndWhitespaceInsensitive(t *testing.T) {
	pairs := []Pair{
		{Surname: "Wald"},
		{Surname: "von Neumann", Paper: paper.Paper{DOI: "1"}},
		{Surname: "Adams"},
		{Surname: "VON NEUMANN", Paper: paper.Paper{DOI: "2"}},
		{Surname: "vonneumann", Paper: paper.Paper{DOI: "3"}},
		{Surname: "Voss"},
	}
	SortPairs(pairs)

	var got []string
	for _, p := range pairs {
		got = append(got, p.Surname+p.Paper.DOI)
	}
	// Equal keys keep input order; "vonneumann" sorts before "voss".
	want := []string{"Adams", "von Neumann1", "VON NEUMANN2", "vonneumann3", "Voss", "Wald"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted = %v, want %v", got, want)
	}
}

func TestLetters_MatchPairs(t *testing.T) {
	papers := []paper.Paper{
		mkPaper("1", "smith, a.", "Schutz, B."),
		mkPaper("2", "Ölçer, C.", "abbott, D."),
		mkPaper("3", "Jones, E."),
	}
	pairs := Explode(papers)
	SortPairs(pairs)
	letters := Letters(pairs)

	want := make(map[string]bool)
	for _, p := range pairs {
		want[Initial(p.Surname)] = true
	}
	var wantList []string
	for l := range want {
		wantList = append(wantList, l)
	}
	sort.Strings(wantList)

	if !reflect.DeepEqual(letters, wantList) {
		t.Errorf("Letters = %v, want %v", letters, wantList)
	}
	if !reflect.DeepEqual(letters, []string{"A", "J", "S", "Ö"}) {
		t.Errorf("Letters = %v, want [A J S Ö]", letters)
	}
}

func TestGroupPairs_Counter(t *testing.T) {
	pairs := []Pair{{Surname: "Abbott"}, {Surname: "adams"}, {Surname: "Baker"}, {Surname: "Cole"}, {Surname: "Cox"}}
	groups := GroupPairs(pairs)

	var letters []string
	var ns []int
	for _, g := range groups {
		letters = append(letters, g.Letter)
		for _, e := range g.Entries {
			ns = append(ns, e.N)
		}
	}
	if !reflect.DeepEqual(letters, []string{"A", "B", "C"}) {
		t.Errorf("group letters = %v", letters)
	}
	if !reflect.DeepEqual(ns, []int{0, 1, 2, 3, 4}) {
		t.Errorf("counters = %v, want 0..4", ns)
	}
}

func TestInitial(t *testing.T) {
	tests := map[string]string{"smith": "S", "Ölçer": "Ö", "'t Hooft": "'", "": ""}
	for in, want := range tests {
		if got := Initial(in); got != want {
			t.Errorf("Initial(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	var papers []paper.Paper
	for i := 0; i < 20; i++ {
		papers = append(papers, mkPaper(fmt.Sprintf("10.1/%d", i), fmt.Sprintf("Name%d, X.", 20-i), "Common, C."))
	}

	a := Assemble(papers, keys{"10.1/3": true}, nil)
	b := Assemble(papers, keys{"10.1/3": true}, nil)
	if !reflect.DeepEqual(a, b) {
		t.Error("Assemble() is not deterministic")
	}
}

func TestAssemble_Empty(t *testing.T) {
	idx := Assemble(nil, nil, nil)
	if idx.Len() != 0 || len(idx.Letters) != 0 || len(idx.Groups) != 0 {
		t.Errorf("empty input should give an empty index: %+v", idx)
	}
}
