package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"foreman-cli/internal/model"
	"foreman-cli/internal/store"
)

// Run starts the interactive TUI over an already-loaded store.
func Run(st *store.Store, sess *model.Session) error {
	applyColorProfilePreference()
	m := newAppModel(st, sess)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
