package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"foreman-cli/internal/model"
	"foreman-cli/internal/store"
)

// renderNotesMarkdown renders a project's notes as a markdown bullet list so
// inline formatting in note text (links, emphasis) displays properly.
func renderNotesMarkdown(theme string, notes []model.Note, width int) string {
	if len(notes) == 0 {
		return "No notes for this project yet."
	}

	var b strings.Builder
	for _, n := range notes {
		b.WriteString("- ")
		b.WriteString(strings.ReplaceAll(n.Text, "\n", " "))
		b.WriteString("\n")
	}

	style := "dark"
	if theme == store.ThemeLight {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return b.String()
	}
	out, err := r.Render(b.String())
	if err != nil {
		return b.String()
	}
	return strings.TrimRight(out, "\n")
}
