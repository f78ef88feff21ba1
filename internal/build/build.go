// Package build runs the index pipeline from normalized papers to the
// rendered HTML fragment.
package build

import (
	"fmt"

	"github.com/lrrindex/lrr-index/internal/index"
	"github.com/lrrindex/lrr-index/internal/paper"
	"github.com/lrrindex/lrr-index/internal/render"
)

// Result is the outcome of one build.
type Result struct {
	// Text is preamble, navigation and entries, ready to publish.
	Text string

	// All is the complete pre-filter paper list, input order.
	All []paper.Paper

	Index *index.Index
}

// Incomplete returns every paper with at least one placeholder field,
// superseded papers included.
func (r *Result) Incomplete() []paper.Paper {
	return paper.Incompletes(r.All)
}

// Superseded returns the papers excluded by the supersession list.
func (r *Result) Superseded() []paper.Paper {
	if r.Index == nil {
		return nil
	}
	return r.Index.Superseded
}

// Assemble filters, sorts and groups papers, then renders the index after
// preamble. The input slice is not modified.
func Assemble(papers []paper.Paper, superseded index.KeySet, preamble string, opts render.Options, diag paper.Diagnostics) (*Result, error) {
	if diag == nil {
		diag = paper.Discard
	}

	idx := index.Assemble(papers, superseded, diag)

	text, err := render.Document(preamble, idx, opts)
	if err != nil {
		return nil, fmt.Errorf("assembling index: %w", err)
	}

	if n := len(paper.Incompletes(papers)); n > 0 {
		diag.Warn("incomplete records", "count", n)
	}

	return &Result{Text: text, All: papers, Index: idx}, nil
}
