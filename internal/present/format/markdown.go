package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mithrel/gridspike/pkg/api"
)

// MarkdownPage renders a page as a markdown table with a summary line.
func MarkdownPage(title string, cols []api.Column, rows []api.Row, summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if summary != "" {
		fmt.Fprintf(&b, "> %s\n\n", summary)
	}
	if len(rows) == 0 {
		b.WriteString("_No results._\n")
		return b.String()
	}
	head := make([]string, len(cols))
	rule := make([]string, len(cols))
	for i, c := range cols {
		h := c.Header
		if h == "" {
			h = c.ID
		}
		head[i] = mdEscape(h)
		rule[i] = "---"
		if c.Kind == api.KindNumber {
			rule[i] = "---:"
		}
	}
	b.WriteString("| " + strings.Join(head, " | ") + " |\n")
	b.WriteString("| " + strings.Join(rule, " | ") + " |\n")
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = mdEscape(Cell(c, r.Fields[c.ID]))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// WritePrettyPage renders a page with markdown formatting using glamour.
func WritePrettyPage(w io.Writer, title string, cols []api.Column, rows []api.Row, summary string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(MarkdownPage(title, cols, rows, summary))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
