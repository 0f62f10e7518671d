package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/gridspike/pkg/api"
)

// Page is the JSON envelope of one computed page.
type Page struct {
	Dataset   string   `json:"dataset"`
	Rows      []Record `json:"rows"`
	Total     int      `json:"total"`
	Page      int      `json:"page"`
	PageSize  int      `json:"page_size"`
	PageCount int      `json:"page_count"`
	Label     string   `json:"label"`
	Sort      string   `json:"sort,omitempty"`
	Search    string   `json:"search,omitempty"`
	Filters   []string `json:"filters,omitempty"`
	Query     string   `json:"query,omitempty"`
}

// WriteJSON writes any value as one JSON document.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteJSONRows writes rows as a JSON array of records.
func WriteJSONRows(w io.Writer, cols []api.Column, rows []api.Row, indent bool) error {
	recs := make([]Record, len(rows))
	for i, r := range rows {
		recs[i] = ToRecord(cols, r)
	}
	return WriteJSON(w, recs, indent)
}

// JSONStreamWriter incrementally writes rows as a JSON array.
type JSONStreamWriter struct {
	w        io.Writer
	cols     []api.Column
	indent   bool
	wroteAny bool
}

// NewJSONStreamWriter creates a streaming JSON writer.
func NewJSONStreamWriter(w io.Writer, cols []api.Column, indent bool) *JSONStreamWriter {
	return &JSONStreamWriter{w: w, cols: cols, indent: indent}
}

// WriteRows writes a batch of rows.
func (jw *JSONStreamWriter) WriteRows(rows []api.Row) error {
	for _, r := range rows {
		var (
			b   []byte
			err error
		)
		rec := ToRecord(jw.cols, r)
		if jw.indent {
			b, err = json.MarshalIndent(rec, "  ", "  ")
		} else {
			b, err = json.Marshal(rec)
		}
		if err != nil {
			return err
		}
		sep := ","
		if !jw.wroteAny {
			sep = "["
		}
		if jw.indent {
			sep += "\n  "
		}
		if _, err := io.WriteString(jw.w, sep); err != nil {
			return err
		}
		if _, err := jw.w.Write(b); err != nil {
			return err
		}
		jw.wroteAny = true
	}
	return nil
}

// Close finishes the JSON array.
func (jw *JSONStreamWriter) Close() error {
	if !jw.wroteAny {
		_, err := io.WriteString(jw.w, "[]\n")
		return err
	}
	if jw.indent {
		_, err := io.WriteString(jw.w, "\n]\n")
		return err
	}
	_, err := io.WriteString(jw.w, "]\n")
	return err
}
