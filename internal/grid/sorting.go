package grid

import "github.com/mithrel/gridspike/internal/params"

// ToggleSort cycles a column through ascending, descending and unsorted.
// Without multi the column replaces the whole order; with multi it is added
// to or updated within the existing order, evicting the oldest key when the
// order is full. It returns false for columns that cannot be sorted.
func (v *View) ToggleSort(column string, multi bool) bool {
	col, ok := v.Schema.Column(column)
	if !ok || !col.EnableSorting {
		return false
	}
	cur := v.Controller.Sort()
	idx := -1
	for i, k := range cur {
		if k.Field == column {
			idx = i
			break
		}
	}

	var next params.SortSpec
	switch {
	case !multi:
		switch {
		case idx < 0:
			next = params.SortSpec{{Field: column}}
		case !cur[idx].Desc:
			next = params.SortSpec{{Field: column, Desc: true}}
		}
	case idx < 0:
		next = append(append(params.SortSpec{}, cur...), params.SortKey{Field: column})
		if limit := v.Controller.MaxSortKeys(); len(next) > limit {
			next = next[len(next)-limit:]
		}
	case !cur[idx].Desc:
		next = append(params.SortSpec{}, cur...)
		next[idx].Desc = true
	default:
		next = append(append(params.SortSpec{}, cur[:idx]...), cur[idx+1:]...)
	}
	v.Controller.ReplaceSort(next)
	return true
}

// SortDirection returns the position and direction of a column in the
// current order; pos is -1 when the column is unsorted.
func (v *View) SortDirection(column string) (pos int, desc bool) {
	for i, k := range v.Controller.Sort() {
		if k.Field == column {
			return i, k.Desc
		}
	}
	return -1, false
}
