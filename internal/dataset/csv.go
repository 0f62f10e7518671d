// Package dataset reads tabular data into typed rows.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mithrel/gridspike/internal/util"
	"github.com/mithrel/gridspike/pkg/api"
)

// ErrNoHeader is returned for input without a header row.
var ErrNoHeader = errors.New("dataset: missing header row")

// LoadFile reads a CSV file. The schema is the builtin named name when one
// exists; otherwise it is inferred from the data.
func LoadFile(path, name string) (*api.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Parse(b, name)
	if err != nil {
		return nil, err
	}
	ds.Source = path
	return ds, nil
}

// Read consumes r fully and parses it as CSV.
func Read(r io.Reader, name string) (*api.Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(b, name)
}

// Parse decodes CSV bytes with a header row. Blank lines are skipped; cells
// are typed by the column kind.
func Parse(b []byte, name string) (*api.Dataset, error) {
	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	body := records[1:]

	schema, ok := Builtin(name)
	if !ok {
		schema = Infer(name, header, body)
	}

	ds := &api.Dataset{Schema: schema, Checksum: api.Checksum(b)}
	seen := map[string]int{}
	for _, rec := range body {
		if blank(rec) {
			continue
		}
		fields := make(map[string]any, len(header))
		explicitID := ""
		for i, h := range header {
			if i >= len(rec) {
				break
			}
			if h == "id" {
				explicitID = strings.TrimSpace(rec[i])
			}
			col, ok := schema.Column(h)
			if !ok {
				continue
			}
			if v, ok := Cell(col.Kind, rec[i]); ok {
				fields[h] = v
			}
		}
		row := api.Row{ID: explicitID, Fields: fields}
		if row.ID == "" {
			row.ID = row.Hash()
		}
		if n := seen[row.ID]; n > 0 {
			seen[row.ID] = n + 1
			row.ID = fmt.Sprintf("%s-%d", row.ID, n)
		} else {
			seen[row.ID] = 1
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// Cell converts raw text to the Go type of a column kind. Empty or
// unparseable cells are reported as absent.
func Cell(kind api.Kind, raw string) (any, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}
	switch kind {
	case api.KindNumber:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case api.KindBool:
		return parseBool(s)
	case api.KindDate:
		t, err := util.ParseDate(s)
		if err != nil {
			return nil, false
		}
		return t.UnixMilli(), true
	}
	return s, true
}

// Coerce restores field types after a generic decode (JSON turns every
// number into float64).
func Coerce(schema api.Schema, row api.Row) api.Row {
	for _, c := range schema.Columns {
		v, ok := row.Fields[c.ID]
		if !ok {
			continue
		}
		if c.Kind == api.KindDate {
			if f, ok := v.(float64); ok {
				row.Fields[c.ID] = int64(f)
			}
		}
	}
	return row
}

// Infer derives a schema from the header and data: a column is a number,
// bool or date when every non-empty cell parses as one.
func Infer(name string, header []string, body [][]string) api.Schema {
	s := api.Schema{Name: name}
	for i, h := range header {
		if h == "" || h == "id" {
			continue
		}
		kind := inferKind(i, body)
		s.Columns = append(s.Columns, api.Column{
			ID:                 h,
			Header:             h,
			Kind:               kind,
			EnableSorting:      true,
			EnableHiding:       i > 0,
			EnableGlobalFilter: kind == api.KindString || kind == api.KindNumber,
		})
	}
	return s
}

func inferKind(col int, body [][]string) api.Kind {
	candidates := []api.Kind{api.KindNumber, api.KindBool, api.KindDate}
	ok := map[api.Kind]bool{api.KindNumber: true, api.KindBool: true, api.KindDate: true}
	present := false
	for _, rec := range body {
		if col >= len(rec) || strings.TrimSpace(rec[col]) == "" {
			continue
		}
		present = true
		for _, k := range candidates {
			if ok[k] {
				_, parsed := Cell(k, rec[col])
				ok[k] = parsed
			}
		}
	}
	if !present {
		return api.KindString
	}
	for _, k := range candidates {
		if ok[k] {
			return k
		}
	}
	return api.KindString
}

func parseBool(s string) (any, bool) {
	switch strings.ToLower(s) {
	case "yes", "true":
		return true, true
	case "no", "false":
		return false, true
	}
	return nil, false
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
