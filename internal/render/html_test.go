package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/lrrindex/lrr-index/internal/index"
	"github.com/lrrindex/lrr-index/internal/paper"
)

var testOptions = Options{Citation: "Living Rev. Relativ."}

func testIndex() *index.Index {
	papers := []paper.Paper{
		{
			DOI: "10.12942/lrr-2014-4", Title: "The Confrontation between General Relativity and Experiment",
			Year: "2014", Volume: "17", Number: "4", Abstract: "Tests of <GR> & more.",
			Authors: []string{"Will, Clifford M."}, AuthorSurnames: []string{"Will"},
		},
		{
			DOI: "10.12942/lrr-2006-3", Title: "Gravitational Radiation",
			Year: "2006", Volume: "9", Number: "3", Abstract: "Waves.",
			Authors: []string{"Abbott, B.", paper.EtAl}, AuthorSurnames: []string{"Abbott"},
		},
		{
			DOI: paper.Placeholder, Title: "Untitled", Year: "2001", Volume: "4", Number: "1",
			Abstract: paper.Placeholder, Incomplete: true,
			Authors: []string{"Ashtekar, A.", "Lewandowski, J."}, AuthorSurnames: []string{"Ashtekar", "Lewandowski"},
		},
	}
	return index.Assemble(papers, nil, nil)
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing rendered HTML: %v", err)
	}
	return doc
}

func TestDocument_Structure(t *testing.T) {
	out, err := Document("<p>Preamble</p>\n", testIndex(), testOptions)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}

	if !strings.HasPrefix(out, "<p>Preamble</p>\n<nav") {
		t.Errorf("output should start with preamble then navigation, got:\n%.80s", out)
	}

	doc := parse(t, out)

	var nav []string
	doc.Find("nav.lrr-letters li a").Each(func(_ int, s *goquery.Selection) {
		nav = append(nav, s.Text())
	})
	if strings.Join(nav, ",") != "A,L,W" {
		t.Errorf("navigation = %v, want [A L W]", nav)
	}

	var headings []string
	doc.Find("h2.lrr-letter").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		headings = append(headings, id)
	})
	if strings.Join(headings, ",") != "letter-A,letter-L,letter-W" {
		t.Errorf("headings = %v", headings)
	}

	if n := doc.Find("div.lrr-entry").Length(); n != 4 {
		t.Errorf("entries = %d, want 4", n)
	}
}

func TestDocument_EntryContent(t *testing.T) {
	out, err := Document("", testIndex(), testOptions)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	doc := parse(t, out)

	entries := doc.Find("div.lrr-entry")

	// Abbott (collaboration) sorts first.
	first := entries.Eq(0)
	link := first.Find("a").First()
	if href, _ := link.Attr("href"); href != "https://doi.org/10.12942/lrr-2006-3" {
		t.Errorf("href = %q", href)
	}
	if link.Text() != "Abbott, B./et al." {
		t.Errorf("author text = %q, want Abbott, B./et al.", link.Text())
	}
	if !strings.Contains(first.Text(), "Living Rev. Relativ. 9, 3 (2006)") {
		t.Errorf("citation missing from %q", first.Text())
	}

	// Placeholder DOI renders without a link; placeholder text is shown.
	ashtekar := entries.Eq(1)
	if ashtekar.Find("a").Length() != 0 {
		t.Error("entry without DOI should not link")
	}
	if got := ashtekar.Find("details").Text(); !strings.Contains(got, paper.Placeholder) {
		t.Errorf("abstract = %q, want placeholder", got)
	}

	// Abstract text is escaped, not interpreted.
	will := entries.Eq(3)
	if got := will.Find("details").Text(); got != "AbstractTests of <GR> & more." {
		t.Errorf("abstract text = %q", got)
	}
	if strings.Contains(out, "<GR>") {
		t.Error("abstract markup should be escaped")
	}
}

func TestDocument_UniqueToggleIDs(t *testing.T) {
	out, err := Document("", testIndex(), testOptions)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	doc := parse(t, out)

	seen := make(map[string]bool)
	doc.Find("details.lrr-abstract").Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if seen[id] {
			t.Errorf("duplicate toggle id %q", id)
		}
		seen[id] = true
	})
	for _, id := range []string{"lrr-abstract-0", "lrr-abstract-3"} {
		if !seen[id] {
			t.Errorf("missing toggle id %q", id)
		}
	}
}

func TestDocument_Deterministic(t *testing.T) {
	a, err := Document("pre", testIndex(), testOptions)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Document("pre", testIndex(), testOptions)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("rendering is not byte-identical across runs")
	}
}

func TestBody_DOIResolver(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Citation: testOptions.Citation, DOIResolver: "https://dx.doi.org/"}
	if err := Body(&buf, testIndex(), opts); err != nil {
		t.Fatalf("Body() error = %v", err)
	}
	doc := parse(t, buf.String())

	var hrefs []string
	doc.Find("div.lrr-entry a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	if len(hrefs) != 2 {
		t.Fatalf("links = %v, want 2", hrefs)
	}
	for _, h := range hrefs {
		if !strings.HasPrefix(h, "https://dx.doi.org/10.12942/") {
			t.Errorf("href = %q, want configured resolver", h)
		}
	}
}

func TestBody_NilIndex(t *testing.T) {
	if err := Body(&bytes.Buffer{}, nil, testOptions); err == nil {
		t.Error("Body(nil) should fail")
	}
}
