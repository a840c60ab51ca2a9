package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

type confirmKind int

const (
	confirmDeleteTask confirmKind = iota
	confirmDeleteNote
)

// confirmAction is the pending mutation behind a confirmation dialog. It
// carries the target identifiers only; the dialog must not close over the
// model, which bubbletea copies on every Update.
type confirmAction struct {
	kind      confirmKind
	taskID    int64
	projectID int64
	noteID    string
}

// confirmState is the armed confirmation dialog. At most one action is armed
// at a time; it is discarded after invocation or cancellation.
type confirmState struct {
	title   string
	message string
	action  confirmAction
	focus   confirmModalFocus
}

func (m *appModel) openConfirm(title, message string, action confirmAction) {
	m.confirm = &confirmState{title: title, message: message, action: action, focus: confirmFocusCancel}
}

// closeConfirm runs the armed action on the receiver, so refreshes and status
// updates land on the model instance being returned to bubbletea.
func (m *appModel) closeConfirm(run bool) {
	c := m.confirm
	m.confirm = nil
	if run && c != nil {
		m.runConfirmed(c.action)
	}
}

func renderConfirmModal(pal palette, winW, winH int, c *confirmState) string {
	// No nested borders: some terminals show background artifacts when
	// bordered components nest inside a colored modal.
	btnBase := lipgloss.NewStyle().Padding(0, 1).Foreground(pal.text)
	btnActive := btnBase.Background(pal.selected).Bold(true)

	confirm := btnBase.Render("Confirm")
	cancel := btnBase.Render("Cancel")
	if c.focus == confirmFocusConfirm {
		confirm = btnActive.Render("Confirm")
	} else {
		cancel = btnActive.Render("Cancel")
	}

	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
	help := lipgloss.NewStyle().Foreground(pal.muted).Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{c.message, "", controls, "", help}, "\n")
	return renderModalBox(pal, winW, winH, c.title, content)
}
