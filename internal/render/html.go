// Package render writes an assembled author index as an HTML fragment.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/lrrindex/lrr-index/internal/index"
	"github.com/lrrindex/lrr-index/internal/paper"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
		"authors":   func(names []string) string { return strings.Join(names, "/") },
		"entryData": newEntryView,
	}).Parse(indexTemplate))
}

// DefaultDOIResolver prefixes DOIs in entry links.
const DefaultDOIResolver = "https://doi.org/"

// Options configures rendering.
type Options struct {
	// Citation is the journal abbreviation printed before volume and number.
	Citation string

	// DOIResolver is prepended to DOIs in links (default DefaultDOIResolver).
	DOIResolver string
}

type templateData struct {
	Letters     []string
	Groups      []index.Group
	Citation    string
	DOIResolver string
}

// entryView is what the entry template sees.
type entryView struct {
	index.Entry
	Citation string
	Link     string // Empty when the DOI is unknown
}

func newEntryView(d templateData, e index.Entry) entryView {
	v := entryView{Entry: e, Citation: d.Citation}
	if doi := e.Paper.DOI; doi != "" && doi != paper.Placeholder {
		v.Link = d.DOIResolver + doi
	}
	return v
}

// Body renders the letter navigation followed by the grouped entries.
func Body(w io.Writer, idx *index.Index, opts Options) error {
	if idx == nil {
		return fmt.Errorf("index cannot be nil")
	}
	data := templateData{
		Letters:     idx.Letters,
		Groups:      idx.Groups,
		Citation:    opts.Citation,
		DOIResolver: opts.DOIResolver,
	}
	if data.DOIResolver == "" {
		data.DOIResolver = DefaultDOIResolver
	}
	return compiledTemplate.ExecuteTemplate(w, "body", data)
}

// Document returns preamble, navigation and entries concatenated. The
// preamble is copied verbatim.
func Document(preamble string, idx *index.Index, opts Options) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(preamble)
	if err := Body(&buf, idx, opts); err != nil {
		return "", fmt.Errorf("rendering index: %w", err)
	}
	return buf.String(), nil
}

const indexTemplate = `
{{- define "nav" -}}
<nav class="lrr-letters">
<ul>
{{- range .Letters}}
<li><a href="#letter-{{.}}">{{.}}</a></li>
{{- end}}
</ul>
</nav>
{{- end -}}

{{- define "entry" -}}
<div class="lrr-entry">
{{- if .Link}}<a href="{{.Link}}">{{authors .Paper.Authors}}</a>
{{- else}}{{authors .Paper.Authors}}{{end -}}
, <span class="lrr-title">{{.Paper.Title}}</span>,
{{- if .Citation}} {{.Citation}}{{end}} {{.Paper.Volume}}, {{.Paper.Number}} ({{.Paper.Year}})
<details class="lrr-abstract" id="lrr-abstract-{{.N}}"><summary>Abstract</summary>{{.Paper.Abstract}}</details>
</div>
{{- end -}}

{{- define "body" -}}
{{template "nav" .}}
{{range .Groups -}}
<h2 class="lrr-letter" id="letter-{{.Letter}}">{{.Letter}}</h2>
{{range .Entries -}}
{{template "entry" (entryData $ .)}}
{{end -}}
{{end -}}
{{end -}}
`
