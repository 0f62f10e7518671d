package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/gridspike/internal/filterstate"
	"github.com/mithrel/gridspike/internal/params"
	"github.com/mithrel/gridspike/pkg/api"
)

const maxHintOptions = 6

// filterModal is a foreground modal with one input per filter control.
type filterModal struct {
	controls []filterstate.Control
	inputs   []textinput.Model
	width    int
	height   int
	padX     int
	padY     int
	box      lipglossv2.Style
	focus    int
}

func newFilterModal(ctl *filterstate.Controller, rows []api.Row, termW, termH int) *filterModal {
	m := &filterModal{
		controls: ctl.Controls(),
		padX:     2,
		padY:     1,
	}
	labelW := 0
	for _, c := range m.controls {
		labelW = max(labelW, lipgloss.Width(c.Label))
	}
	for _, c := range m.controls {
		prompt := fmt.Sprintf("%-*s : ", labelW, c.Label)
		value := ctl.Value(c.Key)
		if value == params.All {
			value = ""
		}
		m.inputs = append(m.inputs, newFilterInput(prompt, placeholderFor(c, rows), value))
	}
	m.setFocus(0)
	m.resizeForTerm(termW, termH)
	return m
}

func newFilterInput(prompt, placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.SetValue(value)
	return ti
}

func placeholderFor(c filterstate.Control, rows []api.Row) string {
	switch c.Kind {
	case filterstate.KindDateFrom, filterstate.KindDateTo:
		return "2017-01-31 | 30d"
	case filterstate.KindRangeMin, filterstate.KindRangeMax:
		return "number"
	}
	opts := c.Options
	if len(opts) == 0 {
		opts = filterstate.Unique(rows, c.Column)
	}
	if len(opts) > maxHintOptions {
		opts = append(opts[:maxHintOptions:maxHintOptions], "…")
	}
	return strings.Join(opts, " | ")
}

func (m *filterModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	if w < 46 {
		w = max(42, termW-2)
	}
	if w > 90 {
		w = 90
	}
	h := len(m.inputs) + 6
	if h > termH-2 {
		h = max(8, termH-2)
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := w - 2 - m.padX*2
	minW := 12
	for i := range m.inputs {
		m.inputs[i].Width = max(minW, innerW-lipgloss.Width(m.inputs[i].Prompt))
	}
}

func (m *filterModal) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// values maps control keys to the typed text.
func (m *filterModal) values() map[string]string {
	out := make(map[string]string, len(m.inputs))
	for i, c := range m.controls {
		out[c.Key] = strings.TrimSpace(m.inputs[i].Value())
	}
	return out
}

func (m *filterModal) clear() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
}

// apply writes every changed control back. Blank inputs reset to default.
func (m *filterModal) apply(ctl *filterstate.Controller) {
	for key, v := range m.values() {
		cur := ctl.Value(key)
		if cur == params.All {
			cur = ""
		}
		if v == cur {
			continue
		}
		ctl.Set(key, v)
	}
}

func (m *filterModal) update(msg tea.Msg) (*filterModal, tea.Cmd) {
	n := len(m.inputs)
	if n == 0 {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % n)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + n - 1) % n)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *filterModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Filters")
	help := lipgloss.NewStyle().Faint(true).Render("enter=apply • esc=cancel • tab=next • ctrl+x=clear")
	lines := []string{header, ""}
	if len(m.inputs) == 0 {
		lines = append(lines, "no filters for this dataset")
	}
	for _, in := range m.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "", help)
	return m.box.Render(strings.Join(lines, "\n"))
}
