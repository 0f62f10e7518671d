package tui

import (
	"github.com/charmbracelet/lipgloss/v2"
)

// renderOverlay places a modal over the dimmed base view, centered and
// clamped to the terminal.
func (m model) renderOverlay(base, fg string, overlayW, overlayH int) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	overlayW = min(overlayW, termW)
	overlayH = min(overlayH, termH)
	x := max((termW-overlayW)/2, 0)
	y := max((termH-overlayH)/2, 0)

	dimBase := lipgloss.NewStyle().Faint(true).Render(base)
	baseLayer := lipgloss.NewLayer(dimBase).
		Width(termW).
		Height(termH)
	fgLayer := lipgloss.NewLayer(fg).
		Width(overlayW).
		Height(overlayH).
		X(x).
		Y(y)

	return lipgloss.NewCanvas(baseLayer, fgLayer).Render()
}
