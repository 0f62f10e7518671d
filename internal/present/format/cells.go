package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/mithrel/gridspike/pkg/api"
)

// Cell renders one field for display.
func Cell(col api.Column, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	case int64:
		if col.Kind == api.KindDate {
			return time.UnixMilli(x).UTC().Format("2006-01-02")
		}
		return strconv.FormatInt(x, 10)
	case float64:
		if col.Kind == api.KindDate {
			return time.UnixMilli(int64(x)).UTC().Format("2006-01-02")
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

// Record is the JSON shape of one row: the id plus display-independent
// field values keyed by column.
type Record map[string]any

// ToRecord flattens a row for JSON output; dates become YYYY-MM-DD.
func ToRecord(cols []api.Column, r api.Row) Record {
	rec := Record{"id": r.ID}
	for _, c := range cols {
		v, ok := r.Fields[c.ID]
		if !ok {
			continue
		}
		if c.Kind == api.KindDate {
			rec[c.ID] = Cell(c, v)
			continue
		}
		rec[c.ID] = v
	}
	return rec
}
