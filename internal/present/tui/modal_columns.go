package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/gridspike/internal/columns"
	"github.com/mithrel/gridspike/pkg/api"
)

// columnsModal toggles visibility and pinning per column.
type columnsModal struct {
	schema api.Schema
	state  *columns.State
	cursor int
	width  int
	height int
	box    lipglossv2.Style
}

func newColumnsModal(schema api.Schema, state *columns.State, termW, termH int) *columnsModal {
	m := &columnsModal{schema: schema, state: state}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *columnsModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := min(60, max(40, termW-4))
	h := min(len(m.schema.Columns)+5, max(8, termH-2))
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(1, 2).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))
}

// update handles a key and reports whether the arrangement changed.
func (m *columnsModal) update(msg tea.KeyMsg) bool {
	n := len(m.schema.Columns)
	if n == 0 {
		return false
	}
	col := m.schema.Columns[m.cursor]
	switch msg.String() {
	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % n
	case "up", "k", "shift+tab":
		m.cursor = (m.cursor + n - 1) % n
	case " ", "x":
		before := m.state.Visible(col.ID)
		return m.state.Toggle(col.ID) != before
	case "p":
		m.state.Pin(col.ID, nextPin(m.state.PinSide(col.ID)))
		return true
	}
	return false
}

func nextPin(cur api.PinSide) api.PinSide {
	switch cur {
	case api.PinNone:
		return api.PinLeft
	case api.PinLeft:
		return api.PinRight
	}
	return api.PinNone
}

func (m *columnsModal) View() string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render("Columns"), ""}
	group := ""
	for i, c := range m.schema.Columns {
		if c.Group != "" && c.Group != group {
			group = c.Group
			lines = append(lines, lipgloss.NewStyle().Faint(true).Render(group))
		}
		check := "[ ]"
		if m.state.Visible(c.ID) {
			check = "[x]"
		}
		if !c.EnableHiding {
			check = "[-]"
		}
		line := fmt.Sprintf("%s %s", check, c.Header)
		if pin := m.state.PinSide(c.ID); pin != api.PinNone {
			line += fmt.Sprintf(" (pinned %s)", pin)
		}
		if i == m.cursor {
			line = lipgloss.NewStyle().Reverse(true).Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", lipgloss.NewStyle().Faint(true).Render("space=show/hide • p=pin • esc=close"))
	return m.box.Render(strings.Join(lines, "\n"))
}
