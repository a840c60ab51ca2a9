package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderModalBox draws a bordered, titled overlay box centered in the window.
func renderModalBox(pal palette, winW, winH int, title, content string) string {
	boxW := winW - 10
	if boxW > 72 {
		boxW = 72
	}
	if boxW < 30 {
		boxW = 30
	}

	titleBar := lipgloss.NewStyle().
		Bold(true).
		Foreground(pal.title).
		Render(title)

	body := lipgloss.NewStyle().Width(boxW - 4).Render(content)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.accent).
		Padding(1, 2).
		Width(boxW).
		Render(titleBar + "\n\n" + body)

	return lipgloss.Place(winW, winH, lipgloss.Center, lipgloss.Center, box)
}
