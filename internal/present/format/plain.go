package format

import (
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/gridspike/pkg/api"
)

func headerLine(cols []api.Column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.ID
	}
	return strings.Join(parts, "\t") + "\n"
}

func plainLine(cols []api.Column, r api.Row) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = esc(Cell(c, r.Fields[c.ID]))
	}
	return strings.Join(parts, "\t") + "\n"
}

// WritePlainRows writes rows as aligned columns, one row per line.
func WritePlainRows(w io.Writer, cols []api.Column, rows []api.Row, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine(cols))
	}
	for _, r := range rows {
		_, _ = io.WriteString(tw, plainLine(cols, r))
	}
	return tw.Flush()
}

// PlainStreamWriter incrementally writes rows in the plain format.
type PlainStreamWriter struct {
	tw          *tabwriter.Writer
	cols        []api.Column
	headers     bool
	wroteHeader bool
}

// NewPlainStreamWriter creates a streaming plain writer.
func NewPlainStreamWriter(w io.Writer, cols []api.Column, headers bool) *PlainStreamWriter {
	return &PlainStreamWriter{
		tw:      tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		cols:    cols,
		headers: headers,
	}
}

// WriteRows writes a batch of rows and flushes.
func (pw *PlainStreamWriter) WriteRows(rows []api.Row) error {
	if pw.headers && !pw.wroteHeader {
		_, _ = io.WriteString(pw.tw, headerLine(pw.cols))
		pw.wroteHeader = true
	}
	for _, r := range rows {
		_, _ = io.WriteString(pw.tw, plainLine(pw.cols, r))
	}
	return pw.tw.Flush()
}

// Close flushes remaining buffered output.
func (pw *PlainStreamWriter) Close() error {
	return pw.tw.Flush()
}
