package importer

import (
	"fmt"

	"github.com/lrrindex/lrr-index/internal/paper"
)

// FieldMissingError reports a field that could not be resolved on a record.
type FieldMissingError struct {
	Field  string
	Reason string
}

func (e *FieldMissingError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("field %s missing", e.Field)
	}
	return fmt.Sprintf("field %s missing: %s", e.Field, e.Reason)
}

// Result is the outcome of resolving one field: a value or a FieldMissingError.
type Result[T any] struct {
	Value T
	Err   *FieldMissingError
}

// OK reports whether the field resolved.
func (r Result[T]) OK() bool { return r.Err == nil }

func found[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func missing[T any](field, reason string) Result[T] {
	return Result[T]{Err: &FieldMissingError{Field: field, Reason: reason}}
}

// recordBuilder assembles a Paper from resolved fields, folding every
// missing field into the Incomplete flag.
type recordBuilder struct {
	p    paper.Paper
	key  string
	diag paper.Diagnostics
}

func newRecordBuilder(key string, diag paper.Diagnostics) *recordBuilder {
	if diag == nil {
		diag = paper.Discard
	}
	return &recordBuilder{key: key, diag: diag}
}

func (b *recordBuilder) setText(dst *string, r Result[string]) {
	if !r.OK() {
		*dst = paper.Placeholder
		b.fail(r.Err)
		return
	}
	*dst = r.Value
}

// setAuthors applies the collaboration collapse rule. A missing author list
// becomes a single placeholder author so the record still renders.
func (b *recordBuilder) setAuthors(r Result[[]author], maxAuthors int) {
	if !r.OK() {
		b.p.Authors = []string{paper.Placeholder}
		b.p.AuthorSurnames = []string{paper.Placeholder}
		b.fail(r.Err)
		return
	}
	b.p.Authors, b.p.AuthorSurnames = collapseAuthors(r.Value, maxAuthors)
}

func (b *recordBuilder) fail(err *FieldMissingError) {
	b.p.Incomplete = true
	b.p.Missing = append(b.p.Missing, err.Field)
	args := []any{"field", err.Field, "record", b.key}
	if err.Reason != "" {
		args = append(args, "reason", err.Reason)
	}
	b.diag.Warn("record field missing", args...)
}

func (b *recordBuilder) build(raw []byte) paper.Paper {
	b.p.Raw = raw
	return b.p
}
