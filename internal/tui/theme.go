package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"foreman-cli/internal/model"
	"foreman-cli/internal/store"
)

// Theme/palette helpers.
//
// The theme is an explicit two-value preference (dark/light) persisted by the
// store, not terminal background detection: toggling must survive restarts
// regardless of what the terminal reports.

type palette struct {
	title    lipgloss.Color
	muted    lipgloss.Color
	text     lipgloss.Color
	accent   lipgloss.Color
	selected lipgloss.Color
	surface  lipgloss.Color
	danger   lipgloss.Color
	success  lipgloss.Color
	warning  lipgloss.Color
}

func paletteFor(theme string) palette {
	if theme == store.ThemeLight {
		return palette{
			title:    lipgloss.Color("18"),
			muted:    lipgloss.Color("245"),
			text:     lipgloss.Color("235"),
			accent:   lipgloss.Color("27"),
			selected: lipgloss.Color("254"),
			surface:  lipgloss.Color("255"),
			danger:   lipgloss.Color("124"),
			success:  lipgloss.Color("28"),
			warning:  lipgloss.Color("130"),
		}
	}
	return palette{
		title:    lipgloss.Color("81"),
		muted:    lipgloss.Color("243"),
		text:     lipgloss.Color("252"),
		accent:   lipgloss.Color("62"),
		selected: lipgloss.Color("236"),
		surface:  lipgloss.Color("235"),
		danger:   lipgloss.Color("160"),
		success:  lipgloss.Color("40"),
		warning:  lipgloss.Color("214"),
	}
}

// statusColor maps a project status to its badge color.
func (p palette) statusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusLead:
		return p.accent
	case model.StatusDPInProgress, model.StatusBPInProgress:
		return p.warning
	case model.StatusComplete:
		return p.success
	case model.StatusLost:
		return p.danger
	default:
		return p.muted
	}
}

// priorityColor maps a task priority to its marker color.
func (p palette) priorityColor(pr model.Priority) lipgloss.Color {
	switch pr {
	case model.PriorityHigh:
		return p.danger
	case model.PriorityMedium:
		return p.warning
	default:
		return p.muted
	}
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which can
// accidentally disable colors in a TUI; honor NO_COLOR and otherwise follow
// the terminal's capabilities.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	}
	lipgloss.SetColorProfile(profile)
}
