package api

// Kind is the value type carried by a column.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindDate   Kind = "date" // epoch milliseconds, UTC
	KindBool   Kind = "bool"
)

// PinSide is where a column is pinned. The zero value means unpinned.
type PinSide string

const (
	PinNone  PinSide = ""
	PinLeft  PinSide = "left"
	PinRight PinSide = "right"
)

// Column describes one field of a dataset and how the grid treats it.
type Column struct {
	ID                 string  `json:"id"`
	Header             string  `json:"header"`
	Kind               Kind    `json:"kind"`
	Width              int     `json:"width,omitempty"`
	Group              string  `json:"group,omitempty"`
	EnableSorting      bool    `json:"enable_sorting"`
	EnableGlobalFilter bool    `json:"enable_global_filter"`
	EnableHiding       bool    `json:"enable_hiding"`
	DefaultPinned      PinSide `json:"default_pinned,omitempty"`
	DefaultHidden      bool    `json:"default_hidden,omitempty"`
}

// Schema is the ordered column set of a dataset.
type Schema struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Column returns the column with the given id.
func (s Schema) Column(id string) (Column, bool) {
	for _, c := range s.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// Has reports whether the schema defines a column id.
func (s Schema) Has(id string) bool {
	_, ok := s.Column(id)
	return ok
}

// Row is one flat record. Fields hold string, float64, int64 (dates), or bool.
type Row struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Value returns a field by column id.
func (r Row) Value(id string) (any, bool) {
	v, ok := r.Fields[id]
	return v, ok
}

// Dataset is a named, typed collection of rows.
type Dataset struct {
	Schema   Schema `json:"schema"`
	Rows     []Row  `json:"rows"`
	Source   string `json:"source,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

// DatasetInfo summarizes a stored dataset.
type DatasetInfo struct {
	Name       string `json:"name"`
	Source     string `json:"source"`
	Checksum   string `json:"checksum"`
	RowCount   int    `json:"row_count"`
	ImportedAt int64  `json:"imported_at"`
}
