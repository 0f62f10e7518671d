package grid

import (
	"sort"

	"github.com/mithrel/gridspike/pkg/api"
)

// Selection is the set of selected row ids.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection() *Selection { return &Selection{ids: map[string]struct{}{}} }

// FromKeys builds a selection from persisted ids.
func FromKeys(keys []string) *Selection {
	s := NewSelection()
	for _, k := range keys {
		if k != "" {
			s.ids[k] = struct{}{}
		}
	}
	return s
}

// Toggle flips one row and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Selected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// TogglePage selects every row of a page, or clears them all when they are
// already selected.
func (s *Selection) TogglePage(rows []api.Row) {
	all := len(rows) > 0
	for _, r := range rows {
		if !s.Selected(r.ID) {
			all = false
			break
		}
	}
	for _, r := range rows {
		if all {
			delete(s.ids, r.ID)
		} else {
			s.ids[r.ID] = struct{}{}
		}
	}
}

func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) Clear() { s.ids = map[string]struct{}{} }

// Keys returns the selected ids in sorted order.
func (s *Selection) Keys() []string {
	out := make([]string, 0, len(s.ids))
	for k := range s.ids {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
