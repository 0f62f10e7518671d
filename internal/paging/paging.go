// Package paging holds page index, page size and total count, and derives
// everything a pagination control shows from them.
package paging

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mithrel/gridspike/internal/params"
)

// DefaultSizeOptions are the page sizes offered to the user.
var DefaultSizeOptions = []int{10, 20, 50, 100}

// DefaultPageSize is used when no size is configured.
const DefaultPageSize = 10

// windowedAbove is the page count past which the page strip elides.
const windowedAbove = 7

// Item is one slot of the page-number strip.
type Item struct {
	Page     int  `json:"page,omitempty"` // 1-based; zero for an ellipsis
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

func (it Item) String() string {
	if it.Ellipsis {
		return "…"
	}
	return strconv.Itoa(it.Page)
}

// Pager is the pagination state. Out-of-range requests clamp; nothing
// panics or errors. The zero value is not usable; call New.
type Pager struct {
	index       int
	size        int
	total       int
	sizeOptions []int
	onChange    func(page, size int)
}

// New returns a pager on page 1. A non-positive size uses DefaultPageSize.
func New(size, total int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	p := &Pager{size: size, sizeOptions: DefaultSizeOptions}
	p.SetTotal(total)
	return p
}

// OnChange registers a listener fired when page or size changes.
func (p *Pager) OnChange(fn func(page, size int)) { p.onChange = fn }

// SetSizeOptions replaces the offered page sizes. Non-positive entries are
// dropped; an empty result keeps the current options.
func (p *Pager) SetSizeOptions(opts []int) {
	var out []int
	for _, o := range opts {
		if o > 0 {
			out = append(out, o)
		}
	}
	if len(out) > 0 {
		p.sizeOptions = out
	}
}

func (p *Pager) SizeOptions() []int { return append([]int(nil), p.sizeOptions...) }

func (p *Pager) Page() int { return p.index + 1 }
func (p *Pager) PageIndex() int { return p.index }
func (p *Pager) PageSize() int { return p.size }
func (p *Pager) Total() int { return p.total }

// PageCount is ceil(total/size); zero when there are no rows.
func (p *Pager) PageCount() int {
	n := p.total / p.size
	if p.total%p.size != 0 {
		n++
	}
	return n
}

// Visible is false when there is nothing to paginate.
func (p *Pager) Visible() bool { return p.PageCount() > 0 }

// SetPage moves to a 1-based page, clamped to [1, PageCount].
func (p *Pager) SetPage(n int) {
	p.setIndex(n - 1)
}

// SetPageSize changes the size and keeps the current page number when it
// still exists, otherwise moves to the new last page.
func (p *Pager) SetPageSize(s int) {
	if s <= 0 || s == p.size {
		return
	}
	cur := p.Page()
	p.size = s
	if c := p.PageCount(); cur > c {
		cur = c
	}
	p.index = max(cur-1, 0)
	p.notify()
}

// SetTotal updates the row count and re-clamps the page.
func (p *Pager) SetTotal(n int) {
	if n < 0 {
		n = 0
	}
	p.total = n
	p.setIndex(p.index)
}

// JumpTo parses a 1-based page number. Invalid or out-of-range input leaves
// the pager untouched and returns false.
func (p *Pager) JumpTo(raw string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > p.PageCount() {
		return false
	}
	p.SetPage(n)
	return true
}

func (p *Pager) CanPrev() bool { return p.index > 0 }
func (p *Pager) CanNext() bool { return p.index < p.PageCount()-1 }

func (p *Pager) Next() {
	if p.CanNext() {
		p.setIndex(p.index + 1)
	}
}

func (p *Pager) Prev() {
	if p.CanPrev() {
		p.setIndex(p.index - 1)
	}
}

// Bounds returns slice indices [start, end) of the visible rows.
func (p *Pager) Bounds() (int, int) {
	start := p.total
	if p.index < p.PageCount() {
		start = p.index * p.size
	}
	return start, start + min(p.size, p.total-start)
}

// WindowLabel renders "start-end of total" with 1-based row numbers.
func (p *Pager) WindowLabel() string {
	start, end := p.Bounds()
	if p.total == 0 {
		return "0-0 of 0"
	}
	return fmt.Sprintf("%d-%d of %d", start+1, end, p.total)
}

// Pages is the page-number strip. Up to seven pages are listed in full;
// past that the strip keeps the first, the last and the neighbours of the
// current page, with an ellipsis for each gap of two or more.
func (p *Pager) Pages() []Item {
	count, cur := p.PageCount(), p.Page()
	if count == 0 {
		return nil
	}
	var items []Item
	add := func(n int) { items = append(items, Item{Page: n, Current: n == cur}) }
	if count <= windowedAbove {
		for n := 1; n <= count; n++ {
			add(n)
		}
		return items
	}
	add(1)
	if cur > 3 {
		items = append(items, Item{Ellipsis: true})
	}
	for n := max(2, cur-1); n <= min(count-1, cur+1); n++ {
		add(n)
	}
	if cur < count-2 {
		items = append(items, Item{Ellipsis: true})
	}
	add(count)
	return items
}

// Params renders page and size for the URL snapshot. Defaults are written
// as nil so the normalizer drops them.
func (p *Pager) Params(defaultSize int) params.Params {
	out := params.Params{params.KeyPage: nil, params.KeyPageSize: nil}
	if p.Page() != 1 {
		out[params.KeyPage] = strconv.Itoa(p.Page())
	}
	if p.size != defaultSize {
		out[params.KeyPageSize] = strconv.Itoa(p.size)
	}
	return out
}

// Restore reads page and size back from a snapshot. Malformed values fall
// back to the defaults.
func (p *Pager) Restore(snap params.Snapshot, defaultSize int) {
	size := defaultSize
	if n, err := strconv.Atoi(snap.Get(params.KeyPageSize, "")); err == nil && n > 0 {
		size = n
	}
	if size > 0 {
		p.size = size
	}
	page := 1
	if n, err := strconv.Atoi(snap.Get(params.KeyPage, "")); err == nil {
		page = n
	}
	p.setIndex(page - 1)
}

func (p *Pager) setIndex(i int) {
	last := max(p.PageCount()-1, 0)
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	if i == p.index {
		return
	}
	p.index = i
	p.notify()
}

func (p *Pager) notify() {
	if p.onChange != nil {
		p.onChange(p.Page(), p.size)
	}
}
