// Package grid turns a dataset and its filter state into one rendered page:
// column filters, then global search, then sort, then pagination.
package grid

import (
	"sort"

	"github.com/mithrel/gridspike/internal/filter"
	"github.com/mithrel/gridspike/internal/filterstate"
	"github.com/mithrel/gridspike/internal/paging"
	"github.com/mithrel/gridspike/internal/params"
	"github.com/mithrel/gridspike/pkg/api"
)

// View wires the pieces that shape a page of rows.
type View struct {
	Schema     api.Schema
	Controller *filterstate.Controller
	Pager      *paging.Pager
	Selection  *Selection
	// Extra holds filter values that are not backed by a control, such as
	// per-column fuzzy queries. They combine with the controls using AND.
	Extra filter.Set
}

// Result is one computed page.
type Result struct {
	Rows      []api.Row       `json:"rows"`
	Total     int             `json:"total"`
	Page      int             `json:"page"`
	PageSize  int             `json:"page_size"`
	PageCount int             `json:"page_count"`
	Pages     []paging.Item   `json:"pages,omitempty"`
	Label     string          `json:"label"`
	Sort      params.SortSpec `json:"sort"`
	Search    string          `json:"search,omitempty"`
	Filters   []string        `json:"filters,omitempty"`
}

// New returns a view with a fresh pager and selection.
func New(schema api.Schema, ctl *filterstate.Controller, pageSize int) *View {
	return &View{
		Schema:     schema,
		Controller: ctl,
		Pager:      paging.New(pageSize, 0),
		Selection:  NewSelection(),
	}
}

// Filters returns the effective filter set.
func (v *View) Filters() filter.Set {
	set := v.Controller.ActiveFilters()
	for k, val := range v.Extra {
		set[k] = val
	}
	return set
}

// Filtered applies column filters and the settled global search. The
// returned ranks are indexed like the returned rows.
func (v *View) Filtered(rows []api.Row) ([]api.Row, []filter.Rank) {
	pred := v.Filters().Predicate(v.Schema)
	query := v.Controller.DebouncedSearch()
	out := make([]api.Row, 0, len(rows))
	ranks := make([]filter.Rank, 0, len(rows))
	for _, r := range rows {
		if !pred(r) {
			continue
		}
		rank, ok := filter.GlobalMatch(r, v.Schema, query)
		if !ok {
			continue
		}
		out = append(out, r)
		ranks = append(ranks, rank)
	}
	return out, ranks
}

// EffectiveSort drops keys naming unknown or unsortable columns.
func (v *View) EffectiveSort() params.SortSpec {
	var out params.SortSpec
	for _, k := range v.Controller.Sort() {
		col, ok := v.Schema.Column(k.Field)
		if !ok || !col.EnableSorting {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Compute filters, sorts and paginates rows. The pager's total follows the
// filtered count, so its page is clamped to what exists.
func (v *View) Compute(rows []api.Row) Result {
	filtered, ranks := v.Filtered(rows)
	spec := v.EffectiveSort()
	v.sortRows(filtered, ranks, spec)

	v.Pager.SetTotal(len(filtered))
	start, end := v.Pager.Bounds()
	page := make([]api.Row, end-start)
	copy(page, filtered[start:end])

	return Result{
		Rows:      page,
		Total:     len(filtered),
		Page:      v.Pager.Page(),
		PageSize:  v.Pager.PageSize(),
		PageCount: v.Pager.PageCount(),
		Pages:     v.Pager.Pages(),
		Label:     v.Pager.WindowLabel(),
		Sort:      spec,
		Search:    v.Controller.DebouncedSearch(),
		Filters:   v.Filters().Keys(),
	}
}

func (v *View) sortRows(rows []api.Row, globalRanks []filter.Rank, spec params.SortSpec) {
	query := v.Controller.DebouncedSearch()
	set := v.Filters()

	type keyed struct {
		row   api.Row
		ranks []filter.Rank // per sort key; nil when the key has no fuzzy query
		glob  filter.Rank
	}
	items := make([]keyed, len(rows))
	kinds := make([]api.Kind, len(spec))
	for i, k := range spec {
		col, _ := v.Schema.Column(k.Field)
		kinds[i] = col.Kind
	}
	for i, r := range rows {
		it := keyed{row: r, glob: globalRanks[i], ranks: make([]filter.Rank, len(spec))}
		for j, k := range spec {
			switch {
			case isFuzzy(set[k.Field]):
				it.ranks[j] = filter.RankString(filter.Stringify(r.Fields[k.Field]), set[k.Field].(filter.Fuzzy).Query)
			case j == 0 && query != "":
				it.ranks[j] = filter.RankString(filter.Stringify(r.Fields[k.Field]), query)
			}
		}
		items[i] = it
	}
	ranked := make([]bool, len(spec))
	for j, k := range spec {
		ranked[j] = isFuzzy(set[k.Field]) || (j == 0 && query != "")
	}

	sort.SliceStable(items, func(a, b int) bool {
		x, y := items[a], items[b]
		for j, k := range spec {
			var c int
			if ranked[j] {
				c = filter.CompareRanks(x.ranks[j], y.ranks[j])
				if c == 0 {
					c = filter.CompareAlphanumeric(filter.Stringify(x.row.Fields[k.Field]), filter.Stringify(y.row.Fields[k.Field]))
				}
			} else {
				c = compareValues(kinds[j], x.row.Fields[k.Field], y.row.Fields[k.Field])
			}
			if c == 0 {
				continue
			}
			if k.Desc && !missingOrdered(ranked[j], x.row.Fields[k.Field], y.row.Fields[k.Field]) {
				c = -c
			}
			return c < 0
		}
		// with no explicit order, a global search ranks best matches first
		if len(spec) == 0 && query != "" {
			return filter.CompareRanks(x.glob, y.glob) < 0
		}
		return false
	})
	for i := range items {
		rows[i] = items[i].row
	}
}

func isFuzzy(v filter.Value) bool {
	_, ok := v.(filter.Fuzzy)
	return ok
}
