// Package columns tracks which grid columns are shown, where they are pinned,
// and the sticky offsets that follow from that.
package columns

import "github.com/mithrel/gridspike/pkg/api"

// DefaultWidth is used for columns that declare none.
const DefaultWidth = 12

// State is a column arrangement seeded from schema metadata.
type State struct {
	schema api.Schema
	hidden map[string]bool
	pinned map[string]api.PinSide
}

// Placement is one visible column with its sticky offset.
type Placement struct {
	Column api.Column  `json:"column"`
	Width  int         `json:"width"`
	Pin    api.PinSide `json:"pin,omitempty"`
	// Offset is the distance from the left edge for left-pinned columns and
	// from the right edge for right-pinned ones.
	Offset     int  `json:"offset"`
	LastLeft   bool `json:"last_left,omitempty"`
	FirstRight bool `json:"first_right,omitempty"`
}

func New(schema api.Schema) *State {
	s := &State{schema: schema, hidden: map[string]bool{}, pinned: map[string]api.PinSide{}}
	for _, c := range schema.Columns {
		if c.DefaultHidden && c.EnableHiding {
			s.hidden[c.ID] = true
		}
		if c.DefaultPinned != api.PinNone {
			s.pinned[c.ID] = c.DefaultPinned
		}
	}
	return s
}

// Visible reports whether a column is shown.
func (s *State) Visible(id string) bool { return s.schema.Has(id) && !s.hidden[id] }

// Toggle flips visibility. Columns that cannot hide stay visible; the
// return value is the resulting visibility.
func (s *State) Toggle(id string) bool {
	c, ok := s.schema.Column(id)
	if !ok {
		return false
	}
	if !c.EnableHiding {
		return true
	}
	s.hidden[id] = !s.hidden[id]
	if !s.hidden[id] {
		delete(s.hidden, id)
	}
	return !s.hidden[id]
}

// SetVisible shows exactly the given columns, plus any that cannot hide.
// An empty list shows everything.
func (s *State) SetVisible(ids []string) {
	s.hidden = map[string]bool{}
	if len(ids) == 0 {
		return
	}
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	for _, c := range s.schema.Columns {
		if c.EnableHiding && !want[c.ID] {
			s.hidden[c.ID] = true
		}
	}
}

// Pin moves a column to a side; PinNone unpins it.
func (s *State) Pin(id string, side api.PinSide) {
	if !s.schema.Has(id) {
		return
	}
	if side == api.PinNone {
		delete(s.pinned, id)
		return
	}
	s.pinned[id] = side
}

func (s *State) PinSide(id string) api.PinSide { return s.pinned[id] }

// Ordered returns visible columns: left-pinned, unpinned, right-pinned, each
// group in schema order.
func (s *State) Ordered() []api.Column {
	var left, mid, right []api.Column
	for _, c := range s.schema.Columns {
		if s.hidden[c.ID] {
			continue
		}
		switch s.pinned[c.ID] {
		case api.PinLeft:
			left = append(left, c)
		case api.PinRight:
			right = append(right, c)
		default:
			mid = append(mid, c)
		}
	}
	out := append(left, mid...)
	return append(out, right...)
}

// Offsets lays out Ordered with sticky offsets. Left-pinned columns offset
// by the widths before them; right-pinned columns by the widths after them.
func (s *State) Offsets() []Placement {
	cols := s.Ordered()
	out := make([]Placement, len(cols))
	lastLeft, firstRight := -1, -1
	left := 0
	for i, c := range cols {
		w := c.Width
		if w <= 0 {
			w = DefaultWidth
		}
		out[i] = Placement{Column: c, Width: w, Pin: s.pinned[c.ID]}
		if out[i].Pin == api.PinLeft {
			out[i].Offset = left
			left += w
			lastLeft = i
		}
		if out[i].Pin == api.PinRight && firstRight < 0 {
			firstRight = i
		}
	}
	right := 0
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Pin != api.PinRight {
			continue
		}
		out[i].Offset = right
		right += out[i].Width
	}
	if lastLeft >= 0 {
		out[lastLeft].LastLeft = true
	}
	if firstRight >= 0 {
		out[firstRight].FirstRight = true
	}
	return out
}

// IDs returns the ids of the visible columns in display order.
func (s *State) IDs() []string {
	cols := s.Ordered()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.ID
	}
	return out
}
