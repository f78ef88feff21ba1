// Package export writes auxiliary outputs of a build: the incomplete and
// superseded records in their source feed shape, and a SQLite snapshot.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lrrindex/lrr-index/internal/importer"
	"github.com/lrrindex/lrr-index/internal/paper"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// WriteIncomplete writes the incomplete papers as a feed of the given format.
func WriteIncomplete(w io.Writer, format string, papers []paper.Paper) error {
	return WriteRaw(w, format, paper.Incompletes(papers))
}

// WriteSuperseded writes the superseded papers as a feed of the given format.
func WriteSuperseded(w io.Writer, format string, superseded []paper.Paper) error {
	return WriteRaw(w, format, superseded)
}

// WriteRaw wraps the papers' raw records in the container of format, so the
// output can be fed back to the importer. Papers without raw bytes are skipped.
func WriteRaw(w io.Writer, format string, papers []paper.Paper) error {
	var buf bytes.Buffer

	switch format {
	case "xml":
		buf.WriteString(xmlHeader)
		buf.WriteString("<xml><records>\n")
		for _, p := range papers {
			if len(p.Raw) == 0 {
				continue
			}
			buf.Write(p.Raw)
			buf.WriteByte('\n')
		}
		buf.WriteString("</records></xml>\n")

	case "json":
		buf.WriteString(`{"hits":{"hits":[`)
		n := 0
		for _, p := range papers {
			if len(p.Raw) == 0 {
				continue
			}
			if n > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString("\n")
			buf.Write(p.Raw)
			n++
		}
		fmt.Fprintf(&buf, "\n],\"total\":%d}}\n", n)

	default:
		return fmt.Errorf("%w: %q", importer.ErrUnknownFormat, format)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s records: %w", format, err)
	}
	return nil
}
