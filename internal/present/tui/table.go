package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/gridspike/internal/grid"
	"github.com/mithrel/gridspike/internal/present/format"
	"github.com/mithrel/gridspike/pkg/api"
)

const markWidth = 2

// tableColumns renders headers with the focus marker and sort indicators.
// The first column holds the selection mark.
func (m *model) tableColumns() []table.Column {
	out := make([]table.Column, 0, len(m.placed)+1)
	out = append(out, table.Column{Title: "", Width: markWidth})
	for i, p := range m.placed {
		title := ""
		if m.opts.Headers {
			title = p.Column.Header
			if title == "" {
				title = p.Column.ID
			}
			if pos, desc := m.view.SortDirection(p.Column.ID); pos >= 0 {
				arrow := "▲"
				if desc {
					arrow = "▼"
				}
				if len(m.result.Sort) > 1 {
					title += fmt.Sprintf(" %s%d", arrow, pos+1)
				} else {
					title += " " + arrow
				}
			}
			if p.Pin != api.PinNone {
				title = "⊢" + title
			}
			if i == m.colIdx {
				title = "[" + title + "]"
			}
		}
		out = append(out, table.Column{Title: title, Width: p.Width})
	}
	return out
}

func (m *model) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.result.Rows))
	for _, r := range m.result.Rows {
		cells := make(table.Row, 0, len(m.placed)+1)
		mark := ""
		if m.view.Selection.Selected(r.ID) {
			mark = "●"
		}
		cells = append(cells, mark)
		for _, p := range m.placed {
			cells = append(cells, format.Cell(p.Column, r.Fields[p.Column.ID]))
		}
		rows = append(rows, cells)
	}
	return rows
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	// header line, footer line, table header
	h := max(3, m.height-4)
	m.table.SetHeight(h)
	m.table.SetWidth(m.width)
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.opts.Headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

func sortLabel(res grid.Result) string {
	if len(res.Sort) == 0 {
		return "cleared"
	}
	parts := make([]string, len(res.Sort))
	for i, k := range res.Sort {
		dir := "asc"
		if k.Desc {
			dir = "desc"
		}
		parts[i] = k.Field + " " + dir
	}
	return strings.Join(parts, ", ")
}

func pageStrip(res grid.Result) string {
	if len(res.Pages) == 0 {
		return ""
	}
	parts := make([]string, len(res.Pages))
	for i, it := range res.Pages {
		s := it.String()
		if it.Current {
			s = lipgloss.NewStyle().Bold(true).Underline(true).Render(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

// nextSize steps through the page size options, wrapping at either end.
func nextSize(opts []int, cur int, up bool) int {
	if len(opts) == 0 {
		return cur
	}
	idx := -1
	for i, o := range opts {
		if o == cur {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		return opts[0]
	case up:
		return opts[(idx+1)%len(opts)]
	default:
		return opts[(idx-1+len(opts))%len(opts)]
	}
}
