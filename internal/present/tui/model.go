package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/gridspike/internal/columns"
	"github.com/mithrel/gridspike/internal/grid"
	"github.com/mithrel/gridspike/pkg/api"
)

// Options configure an interactive session.
type Options struct {
	Headers     bool
	DefaultSize int
}

// settledMsg arrives when the search box has been quiet long enough.
type settledMsg struct{ query string }

type inputMode int

const (
	modeTable inputMode = iota
	modeSearch
	modeJump
)

// Run opens an interactive grid over ds. The view must be built on a
// scheduler whose callbacks may run on another goroutine; settled searches
// are forwarded into the program as messages. It returns the selected row
// ids when the user quits.
func Run(ctx context.Context, ds *api.Dataset, view *grid.View, opts Options) ([]string, error) {
	m := newModel(ctx, ds, view, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	view.Controller.OnSettled(func(q string) { p.Send(settledMsg{query: q}) })
	defer view.Controller.OnSettled(nil)

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if fm, ok := final.(model); ok {
		return fm.view.Selection.Keys(), nil
	}
	return nil, nil
}

type model struct {
	ctx     context.Context
	ds      *api.Dataset
	view    *grid.View
	cols    *columns.State
	opts    Options
	table   table.Model
	search  textinput.Model
	jump    textinput.Model
	mode    inputMode
	result  grid.Result
	placed  []columns.Placement
	colIdx  int
	width   int
	height  int
	status  string
	filters *filterModal
	colsDlg *columnsModal
	detail  *rowModal
}

func newModel(ctx context.Context, ds *api.Dataset, view *grid.View, opts Options) model {
	if opts.DefaultSize <= 0 {
		opts.DefaultSize = view.Pager.PageSize()
	}
	view.Persist(opts.DefaultSize)

	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "type to filter every searchable column"
	search.SetValue(view.Controller.Search())

	jump := textinput.New()
	jump.Prompt = "go to page: "
	jump.CharLimit = 6

	m := model{
		ctx:    ctx,
		ds:     ds,
		view:   view,
		cols:   columns.New(ds.Schema),
		opts:   opts,
		search: search,
		jump:   jump,
	}
	m.table = table.New(table.WithFocused(true))
	m.applyStyles()
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd { return nil }

// refresh recomputes the page and rebuilds the table.
func (m *model) refresh() {
	m.result = m.view.Compute(m.ds.Rows)
	m.placed = m.cols.Offsets()
	if m.colIdx >= len(m.placed) {
		m.colIdx = max(len(m.placed)-1, 0)
	}
	cur := m.table.Cursor()
	m.table.SetRows(nil)
	m.table.SetColumns(m.tableColumns())
	m.table.SetRows(m.tableRows())
	if cur >= len(m.result.Rows) {
		cur = len(m.result.Rows) - 1
	}
	m.table.SetCursor(max(cur, 0))
	m.applyLayout()
}

// filtersChanged follows a filter edit: the persisted page was cleared, so
// the pager goes back to it before recomputing.
func (m *model) filtersChanged() {
	m.view.Sync(m.opts.DefaultSize)
	m.refresh()
}

func (m *model) currentRow() (api.Row, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.result.Rows) {
		return api.Row{}, false
	}
	return m.result.Rows[idx], true
}

func (m *model) currentColumn() (api.Column, bool) {
	if m.colIdx < 0 || m.colIdx >= len(m.placed) {
		return api.Column{}, false
	}
	return m.placed[m.colIdx].Column, true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.applyLayout()
		if m.filters != nil {
			m.filters.resizeForTerm(m.width, m.height)
		}
		if m.colsDlg != nil {
			m.colsDlg.resizeForTerm(m.width, m.height)
		}
		if m.detail != nil {
			m.detail.resizeForTerm(m.width, m.height)
		}
		return m, nil
	case settledMsg:
		m.filtersChanged()
		if msg.query != "" {
			m.status = fmt.Sprintf("search %q: %d rows", msg.query, m.result.Total)
		} else {
			m.status = ""
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.filters != nil:
			return m.updateFilters(msg)
		case m.colsDlg != nil:
			return m.updateColumns(msg)
		case m.detail != nil:
			return m.updateDetail(msg)
		case m.mode == modeSearch:
			return m.updateSearch(msg)
		case m.mode == modeJump:
			return m.updateJump(msg)
		}
		return m.updateTable(msg)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+q":
		return m, tea.Quit
	case "/":
		m.mode = modeSearch
		return m, m.search.Focus()
	case "g":
		m.mode = modeJump
		m.jump.SetValue("")
		return m, m.jump.Focus()
	case "f":
		m.filters = newFilterModal(m.view.Controller, m.ds.Rows, m.width, m.height)
		return m, nil
	case "c":
		m.colsDlg = newColumnsModal(m.ds.Schema, m.cols, m.width, m.height)
		return m, nil
	case "enter":
		if row, ok := m.currentRow(); ok {
			m.detail = newRowModal(m.ds.Schema, row, m.width, m.height)
		}
		return m, nil
	case "left", "h":
		if m.colIdx > 0 {
			m.colIdx--
			m.table.SetColumns(m.tableColumns())
		}
		return m, nil
	case "right", "l":
		if m.colIdx < len(m.placed)-1 {
			m.colIdx++
			m.table.SetColumns(m.tableColumns())
		}
		return m, nil
	case "s", "S":
		if col, ok := m.currentColumn(); ok {
			if m.view.ToggleSort(col.ID, msg.String() == "S") {
				m.filtersChanged()
				m.status = "sort " + sortLabel(m.result)
			} else {
				m.status = col.Header + " is not sortable"
			}
		}
		return m, nil
	case " ":
		if row, ok := m.currentRow(); ok {
			m.view.Selection.Toggle(row.ID)
			m.table.SetRows(m.tableRows())
		}
		return m, nil
	case "a":
		m.view.Selection.TogglePage(m.result.Rows)
		m.table.SetRows(m.tableRows())
		return m, nil
	case "n", "pgdown":
		m.view.Pager.Next()
		m.refresh()
		return m, nil
	case "p", "pgup":
		m.view.Pager.Prev()
		m.refresh()
		return m, nil
	case "home":
		m.view.Pager.SetPage(1)
		m.refresh()
		return m, nil
	case "end":
		m.view.Pager.SetPage(m.view.Pager.PageCount())
		m.refresh()
		return m, nil
	case "+", "-":
		m.view.Pager.SetPageSize(nextSize(m.view.Pager.SizeOptions(), m.view.Pager.PageSize(), msg.String() == "+"))
		m.refresh()
		return m, nil
	case "x":
		m.view.Controller.ClearAll()
		m.search.SetValue("")
		m.filtersChanged()
		m.status = "filters cleared"
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "tab":
		m.mode = modeTable
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.view.Controller.SetSearch(v)
	}
	return m, cmd
}

func (m model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeTable
		m.jump.Blur()
		return m, nil
	case "enter":
		m.mode = modeTable
		m.jump.Blur()
		if m.view.Pager.JumpTo(m.jump.Value()) {
			m.refresh()
			m.status = ""
		} else {
			m.status = fmt.Sprintf("no page %q", strings.TrimSpace(m.jump.Value()))
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m model) updateFilters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+q":
		m.filters = nil
		return m, nil
	case "ctrl+x":
		m.filters.clear()
		return m, nil
	case "enter":
		m.filters.apply(m.view.Controller)
		m.filters = nil
		m.filtersChanged()
		m.status = fmt.Sprintf("%d rows match", m.result.Total)
		return m, nil
	}
	var cmd tea.Cmd
	m.filters, cmd = m.filters.update(msg)
	return m, cmd
}

func (m model) updateColumns(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "c", "enter":
		m.colsDlg = nil
		return m, nil
	}
	if m.colsDlg.update(msg) {
		m.refresh()
	}
	return m, nil
}

func (m model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.detail = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.detail.vp, cmd = m.detail.vp.Update(msg)
	return m, cmd
}

func (m model) renderHeader() string {
	var line string
	switch m.mode {
	case modeSearch:
		line = m.search.View()
	case modeJump:
		line = m.jump.View()
	default:
		q := m.view.Controller.Search()
		if q == "" {
			q = lipgloss.NewStyle().Faint(true).Render("/ to search")
		}
		line = "search: " + q
	}
	if m.view.Controller.SearchPending() {
		line += lipgloss.NewStyle().Faint(true).Render(" …")
	}
	title := lipgloss.NewStyle().Bold(true).Render(m.ds.Schema.Name)
	return title + "  " + line
}

func (m model) renderFooter() string {
	left := "↑/↓ rows • ←/→ column • s/S sort • f filters • c columns • n/p page • g goto • space select • q quit"

	var right []string
	if m.status != "" {
		right = append(right, m.status)
	}
	if n := m.view.Selection.Len(); n > 0 {
		right = append(right, fmt.Sprintf("%d selected", n))
	}
	right = append(right, pageStrip(m.result), m.result.Label)
	r := strings.Join(right, " • ") + " "

	width := m.table.Width()
	if width <= 0 {
		width = m.width
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(r)
	if space < 1 {
		return left + "\n" + r
	}
	return left + strings.Repeat(" ", space) + r
}

func (m model) View() string {
	var body string
	if len(m.result.Rows) == 0 {
		body = "(no rows match)\n"
	} else {
		body = m.table.View() + "\n"
	}
	base := m.renderHeader() + "\n" + body + m.renderFooter() + "\n"

	switch {
	case m.filters != nil:
		return m.renderOverlay(base, m.filters.View(), m.filters.width+2, m.filters.height+2)
	case m.colsDlg != nil:
		return m.renderOverlay(base, m.colsDlg.View(), m.colsDlg.width+2, m.colsDlg.height+2)
	case m.detail != nil:
		return m.renderOverlay(base, m.detail.View(), m.detail.width+2, m.detail.height+2)
	}
	return base
}
