package inspect

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lrrindex/lrr-index/internal/index"
	"github.com/lrrindex/lrr-index/internal/paper"
	"github.com/lrrindex/lrr-index/internal/render"
)

func TestRead_RenderedIndex(t *testing.T) {
	papers := []paper.Paper{
		{DOI: "10.1/a", Title: "A", Authors: []string{"Smith, A.", "Jones, B."}, AuthorSurnames: []string{"Smith", "Jones"}},
		{DOI: "10.1/b", Title: "B", Authors: []string{"Schutz, B."}, AuthorSurnames: []string{"Schutz"}},
		{DOI: paper.Placeholder, Title: "C", Authors: []string{"Adams, C."}, AuthorSurnames: []string{"Adams"}},
	}
	html, err := render.Document("<p>intro</p>", index.Assemble(papers, nil, nil), render.Options{Citation: "LRR"})
	if err != nil {
		t.Fatal(err)
	}

	st, err := Read(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if !reflect.DeepEqual(st.Navigation, []string{"A", "J", "S"}) {
		t.Errorf("Navigation = %v", st.Navigation)
	}
	want := []LetterStats{{"A", 1}, {"J", 1}, {"S", 2}}
	if !reflect.DeepEqual(st.Groups, want) {
		t.Errorf("Groups = %v, want %v", st.Groups, want)
	}
	if st.Entries != 4 {
		t.Errorf("Entries = %d, want 4", st.Entries)
	}
	if st.Linked != 3 {
		t.Errorf("Linked = %d, want 3", st.Linked)
	}
	if len(st.Dangling) != 0 {
		t.Errorf("Dangling = %v", st.Dangling)
	}
}

func TestRead_Dangling(t *testing.T) {
	html := `<nav class="lrr-letters"><ul><li><a href="#letter-A">A</a></li><li><a href="#letter-Z">Z</a></li></ul></nav>
<h2 class="lrr-letter" id="letter-A">A</h2>
<div class="lrr-entry">Adams, C., <span class="lrr-title">T</span></div>`

	st, err := Read(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !reflect.DeepEqual(st.Dangling, []string{"Z"}) {
		t.Errorf("Dangling = %v, want [Z]", st.Dangling)
	}
	if st.Linked != 0 || st.Entries != 1 {
		t.Errorf("Linked = %d, Entries = %d", st.Linked, st.Entries)
	}
}

func TestRead_NotAnIndex(t *testing.T) {
	st, err := Read(strings.NewReader("<p>hello</p>"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if st.Entries != 0 || len(st.Groups) != 0 || len(st.Navigation) != 0 {
		t.Errorf("Read() = %+v, want empty stats", st)
	}
}
