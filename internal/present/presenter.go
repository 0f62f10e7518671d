package present

import (
	"fmt"
	"io"

	"github.com/mithrel/gridspike/internal/grid"
	"github.com/mithrel/gridspike/internal/params"
	"github.com/mithrel/gridspike/internal/present/format"
	"github.com/mithrel/gridspike/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Title      string
	Query      string
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModeTUI, false
	}
}

// RowWriter streams rows in batches. Close finishes the document.
type RowWriter interface {
	WriteRows(rows []api.Row) error
	Close() error
}

// NewRowWriter returns a streaming writer for exports that span pages.
func NewRowWriter(w io.Writer, cols []api.Column, opts Options) (RowWriter, error) {
	switch opts.Mode {
	case ModeJSON:
		return format.NewJSONStreamWriter(w, cols, opts.JSONIndent), nil
	case ModeNDJSON:
		return format.NewNDJSONStreamWriter(w, cols), nil
	case ModePlain:
		return format.NewPlainStreamWriter(w, cols, opts.Headers), nil
	}
	return nil, fmt.Errorf("output mode does not support streaming export")
}

// PageOf converts a computed page into its JSON envelope.
func PageOf(cols []api.Column, res grid.Result, opts Options) format.Page {
	recs := make([]format.Record, len(res.Rows))
	for i, r := range res.Rows {
		recs[i] = format.ToRecord(cols, r)
	}
	sortBy, _ := encodeSort(res)
	return format.Page{
		Dataset:   opts.Title,
		Rows:      recs,
		Total:     res.Total,
		Page:      res.Page,
		PageSize:  res.PageSize,
		PageCount: res.PageCount,
		Label:     res.Label,
		Sort:      sortBy,
		Search:    res.Search,
		Filters:   res.Filters,
		Query:     opts.Query,
	}
}

// RenderPage renders one computed page according to options. The TUI is
// driven separately because it needs the live view.
func RenderPage(w io.Writer, cols []api.Column, res grid.Result, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, PageOf(cols, res, opts), opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONRows(w, cols, res.Rows)
	case ModePretty:
		return format.WritePrettyPage(w, opts.Title, cols, res.Rows, summary(res))
	case ModeTUI:
		return fmt.Errorf("tui output needs an interactive terminal")
	default:
		return format.WritePlainRows(w, cols, res.Rows, opts.Headers)
	}
}

func summary(res grid.Result) string {
	s := res.Label
	if res.PageCount > 1 {
		s += fmt.Sprintf(" · page %d of %d", res.Page, res.PageCount)
	}
	if sortBy, ok := encodeSort(res); ok {
		s += " · sorted by " + sortBy
	}
	if res.Search != "" {
		s += fmt.Sprintf(" · search %q", res.Search)
	}
	return s
}

func encodeSort(res grid.Result) (string, bool) {
	return params.EncodeSort(res.Sort)
}
