package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/gridspike/internal/present/format"
	"github.com/mithrel/gridspike/pkg/api"
)

// rowModal shows every field of one row, rendered with Glamour inside a
// scrollable viewport.
type rowModal struct {
	schema api.Schema
	row    api.Row
	vp     viewport.Model
	width  int
	height int
	padX   int
	padY   int
	box    lipglossv2.Style
}

func newRowModal(schema api.Schema, row api.Row, termW, termH int) *rowModal {
	m := &rowModal{schema: schema, row: row, padX: 2, padY: 1}
	m.resizeForTerm(termW, termH)
	return m
}

func (m *rowModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	if w < 40 {
		w = max(32, termW-2)
	}
	h := int(float64(termH) * 0.7)
	if termH < 20 {
		h = termH - 2
	}
	if h < 10 {
		h = max(8, termH-1)
	}
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(10, w-2-m.padX*2)
	innerH := max(3, h-2-m.padY*2)
	m.vp = viewport.New(innerW, innerH)
	m.vp.SetContent(m.render(innerW))
}

func (m *rowModal) markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", m.row.ID)
	b.WriteString("| Field | Value |\n| --- | --- |\n")
	for _, c := range m.schema.Columns {
		v := format.Cell(c, m.row.Fields[c.ID])
		if v == "" {
			v = "—"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", c.Header, strings.ReplaceAll(v, "|", "\\|"))
	}
	return b.String()
}

func (m *rowModal) render(width int) string {
	md := m.markdown()
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m *rowModal) View() string {
	return m.box.Render(m.vp.View())
}
