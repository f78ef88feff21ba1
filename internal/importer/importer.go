// Package importer normalizes raw bibliographic feeds into papers.
//
// Each supported feed shape is an Adapter registered by name. Adapters share
// the field policies in this package (DOI selection, venue choice,
// collaboration collapse) so every format yields the same Paper shape.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/lrrindex/lrr-index/internal/paper"
)

var (
	// ErrMalformedInput indicates the feed does not have the expected
	// top-level shape. No records can be recovered from it.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnknownFormat indicates no adapter is registered under a name.
	ErrUnknownFormat = errors.New("unknown format")
)

// Options configures field resolution.
type Options struct {
	// JournalName selects publication-info entries in JSON feeds.
	// Empty accepts every entry.
	JournalName string

	// DOIPrefixes lists the publisher prefixes accepted when a record
	// carries several DOI candidates.
	DOIPrefixes []string

	// MaxAuthors is the longest author list kept in full (0 = DefaultMaxAuthors).
	MaxAuthors int
}

// Adapter turns one feed shape into papers.
type Adapter interface {
	// Name returns the format identifier ("xml", "json").
	Name() string

	// Normalize parses raw and returns one paper per record in input order.
	// Corrections are merged into each record before field extraction.
	Normalize(raw []byte, corrections Corrections, opts Options, diag paper.Diagnostics) ([]paper.Paper, error)
}

var adapters = map[string]Adapter{}

// Register makes an adapter available by name.
func Register(a Adapter) {
	adapters[a.Name()] = a
}

// Get returns the adapter registered under name.
func Get(name string) (Adapter, error) {
	a, ok := adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownFormat, name, Formats())
	}
	return a, nil
}

// Formats lists the registered adapter names, sorted.
func Formats() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize runs the named adapter over raw.
func Normalize(format string, raw []byte, corrections Corrections, opts Options, diag paper.Diagnostics) ([]paper.Paper, error) {
	a, err := Get(format)
	if err != nil {
		return nil, err
	}
	if diag == nil {
		diag = paper.Discard
	}
	return a.Normalize(raw, corrections, opts, diag)
}

// Detect guesses the feed format from its first non-space byte.
func Detect(peek []byte) (string, bool) {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return "", false
	}
	switch peek[0] {
	case '<':
		return "xml", true
	case '{':
		return "json", true
	}
	return "", false
}

func init() {
	Register(xmlAdapter{})
	Register(jsonAdapter{})
}
