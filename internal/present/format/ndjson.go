package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/gridspike/pkg/api"
)

// NDJSONStreamWriter writes rows as newline-delimited JSON records.
type NDJSONStreamWriter struct {
	enc  *json.Encoder
	cols []api.Column
}

// NewNDJSONStreamWriter creates a streaming NDJSON writer.
func NewNDJSONStreamWriter(w io.Writer, cols []api.Column) *NDJSONStreamWriter {
	return &NDJSONStreamWriter{enc: json.NewEncoder(w), cols: cols}
}

// WriteRows writes a batch of rows.
func (nw *NDJSONStreamWriter) WriteRows(rows []api.Row) error {
	for _, r := range rows {
		if err := nw.enc.Encode(ToRecord(nw.cols, r)); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for NDJSON output.
func (nw *NDJSONStreamWriter) Close() error { return nil }

// WriteNDJSONRows writes rows as one JSON record per line.
func WriteNDJSONRows(w io.Writer, cols []api.Column, rows []api.Row) error {
	return NewNDJSONStreamWriter(w, cols).WriteRows(rows)
}
