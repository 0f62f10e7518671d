// Package filterstate owns the user-facing filter state of one grid: control
// values, search text with its debounced counterpart, and sort order. The
// state lives in a params.Store, either one supplied by the caller
// (controlled) or a private one (local).
package filterstate

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mithrel/gridspike/internal/debounce"
	"github.com/mithrel/gridspike/internal/filter"
	"github.com/mithrel/gridspike/internal/params"
	"github.com/mithrel/gridspike/pkg/api"
)

// Options tune a Controller. The zero value uses the wall clock and the
// default search delay.
type Options struct {
	Scheduler   debounce.Scheduler
	SearchDelay time.Duration
	MaxSortKeys int
}

// Controller is safe for concurrent use. The debounce callback runs on the
// scheduler's goroutine and serializes through the same lock.
type Controller struct {
	mu         sync.Mutex
	// searchMu orders settled-search writes against ClearAll and Close, so a
	// value that passed its generation check reaches the store before a reset.
	searchMu   sync.Mutex
	store      params.Store
	controlled bool
	controls   []Control
	byKey      map[string]Control
	deb        *debounce.Debouncer
	maxSort    int

	raw       string
	settled   string
	searchGen uint64
	closed    bool
	onSettled func(string)
}

// NewControlled binds a controller to an external store. The search box
// starts from the store's globalFilter.
func NewControlled(store params.Store, controls []Control, opts Options) *Controller {
	c := newController(store, controls, opts)
	c.controlled = true
	c.settled = store.Snapshot().Get(params.KeyGlobalFilter, "")
	c.raw = c.settled
	return c
}

// NewLocal returns a controller over a private store seeded with initial.
func NewLocal(controls []Control, initial params.Snapshot, opts Options) *Controller {
	return newController(params.NewMemoryStore(initial), controls, opts)
}

func newController(store params.Store, controls []Control, opts Options) *Controller {
	c := &Controller{
		store:    store,
		controls: controls,
		byKey:    make(map[string]Control, len(controls)),
		deb:      debounce.New(opts.Scheduler, opts.SearchDelay),
		maxSort:  opts.MaxSortKeys,
	}
	if c.maxSort <= 0 || c.maxSort > params.MaxSortKeys {
		c.maxSort = params.MaxSortKeys
	}
	for _, ctl := range controls {
		c.byKey[ctl.Key] = ctl
	}
	return c
}

func (c *Controller) Controls() []Control { return c.controls }
func (c *Controller) Store() params.Store { return c.store }
func (c *Controller) Controlled() bool { return c.controlled }

// Snapshot returns the persisted state.
func (c *Controller) Snapshot() params.Snapshot { return c.store.Snapshot() }

// OnSettled registers a listener for debounced search values. It runs on the
// scheduler goroutine, outside the controller lock.
func (c *Controller) OnSettled(fn func(string)) {
	c.mu.Lock()
	c.onSettled = fn
	c.mu.Unlock()
}

// Value returns a control's current value, or its default when unset.
func (c *Controller) Value(key string) string {
	def := ""
	if ctl, ok := c.byKey[key]; ok {
		def = ctl.Default
	}
	return c.store.Snapshot().Get(key, def)
}

// Set writes one key through the normalizer; "" and "all" remove it. A filter
// change returns the grid to its first page.
func (c *Controller) Set(key string, value any) {
	p := params.Params{key: value}
	if key != params.KeyPage && key != params.KeyPageSize {
		p[params.KeyPage] = nil
	}
	c.store.Set(p)
}

// SetPaging writes page and page size params.
func (c *Controller) SetPaging(p params.Params) { c.store.Set(p) }

// Search returns the raw search text as typed.
func (c *Controller) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raw
}

// DebouncedSearch returns the search text as of the last quiet period.
func (c *Controller) DebouncedSearch() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

// SearchPending reports whether a typed value has not settled yet.
func (c *Controller) SearchPending() bool { return c.deb.Pending() }

// SetSearch records a keystroke and restarts the quiet-period timer.
func (c *Controller) SetSearch(raw string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.raw = raw
	c.searchGen++
	gen := c.searchGen
	c.mu.Unlock()

	c.deb.Trigger(func() { c.settle(gen, raw) })
}

func (c *Controller) settle(gen uint64, value string) {
	c.searchMu.Lock()
	c.mu.Lock()
	if c.closed || gen != c.searchGen {
		c.mu.Unlock()
		c.searchMu.Unlock()
		return
	}
	changed := c.settled != value
	c.settled = value
	fn := c.onSettled
	c.mu.Unlock()

	if changed && c.controlled {
		c.store.Set(params.Params{params.KeyGlobalFilter: value, params.KeyPage: nil})
	}
	c.searchMu.Unlock()

	if changed && fn != nil {
		fn(value)
	}
}

// ActiveFilters translates every non-default control into a filter value,
// keyed by column. Range and date pairs on one column merge into a single
// value; a pair with no usable bound yields nothing.
func (c *Controller) ActiveFilters() filter.Set {
	snap := c.store.Snapshot()
	set := filter.Set{}
	ranges := map[string]filter.Range{}
	dates := map[string]filter.DateRange{}

	for _, ctl := range c.controls {
		v, ok := snap[ctl.Key]
		if !ok || v == ctl.Default {
			continue
		}
		switch ctl.Kind {
		case KindSelect:
			if v != "" && v != params.All {
				set[ctl.Column] = filter.Exact{Value: v}
			}
		case KindThreshold:
			r := ranges[ctl.Column]
			r.Min = filter.ParseBound(v)
			ranges[ctl.Column] = r
		case KindRangeMin:
			r := ranges[ctl.Column]
			r.Min = filter.ParseBound(v)
			ranges[ctl.Column] = r
		case KindRangeMax:
			r := ranges[ctl.Column]
			r.Max = filter.ParseBound(v)
			ranges[ctl.Column] = r
		case KindDateFrom:
			d := dates[ctl.Column]
			d.From = filter.ParseDateBound(v)
			dates[ctl.Column] = d
		case KindDateTo:
			d := dates[ctl.Column]
			d.To = filter.ParseDateBound(v)
			dates[ctl.Column] = d
		}
	}
	for col, r := range ranges {
		if !r.IsZero() {
			set[col] = r
		}
	}
	for col, d := range dates {
		if !d.IsZero() {
			set[col] = d
		}
	}
	return set
}

// HasActiveFilters reports whether any filter or settled search applies.
func (c *Controller) HasActiveFilters() bool {
	return len(c.ActiveFilters()) > 0 || c.DebouncedSearch() != ""
}

// ClearAll drops pending search input and resets every persisted key.
func (c *Controller) ClearAll() {
	c.deb.Cancel()
	c.searchMu.Lock()
	defer c.searchMu.Unlock()
	c.mu.Lock()
	c.searchGen++
	c.raw, c.settled = "", ""
	c.mu.Unlock()
	c.store.Reset()
}

// MaxSortKeys is the configured limit on sort keys.
func (c *Controller) MaxSortKeys() int { return c.maxSort }

// Sort decodes the persisted sort order.
func (c *Controller) Sort() params.SortSpec {
	spec := params.DecodeSort(c.store.Snapshot().Get(params.KeySortBy, ""))
	if len(spec) > c.maxSort {
		spec = spec[:c.maxSort]
	}
	return spec
}

// ReplaceSort persists a new sort order wholesale and returns to the first
// page.
func (c *Controller) ReplaceSort(spec params.SortSpec) {
	if len(spec) > c.maxSort {
		spec = spec[:c.maxSort]
	}
	c.store.Set(params.Params{params.KeySortBy: params.SortParam(spec), params.KeyPage: nil})
}

// Close invalidates pending search propagation. Later calls to SetSearch
// are ignored.
func (c *Controller) Close() {
	c.deb.Stop()
	c.searchMu.Lock()
	defer c.searchMu.Unlock()
	c.mu.Lock()
	c.closed = true
	c.searchGen++
	c.mu.Unlock()
}

// Unique returns the distinct values of a column, numbers ascending and
// strings in lexical order. Empty values are skipped.
func Unique(rows []api.Row, column string) []string {
	seen := map[string]struct{}{}
	numeric := true
	var nums []float64
	var strs []string
	for _, r := range rows {
		v, ok := r.Fields[column]
		if !ok || v == nil {
			continue
		}
		s := filter.Stringify(v)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		strs = append(strs, s)
		if n, ok := v.(float64); ok {
			nums = append(nums, n)
		} else {
			numeric = false
		}
	}
	if numeric && len(nums) == len(strs) {
		sort.Float64s(nums)
		out := make([]string, len(nums))
		for i, n := range nums {
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		}
		return out
	}
	sort.Strings(strs)
	return strs
}
