package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// fitLine pads or truncates a rendered line to the given cell width.
func fitLine(line string, w int) string {
	lw := xansi.StringWidth(line)
	if lw < w {
		return line + strings.Repeat(" ", w-lw)
	}
	if lw > w {
		return xansi.Cut(line, 0, w)
	}
	return line
}

// projectDelegate renders project cards as two rows: name + status badge,
// then client and task count.
type projectDelegate struct {
	pal palette
}

func (d projectDelegate) Height() int                             { return 2 }
func (d projectDelegate) Spacing() int                            { return 1 }
func (d projectDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(projectItem)
	if !ok {
		return
	}
	contentW := m.Width() - 2
	if contentW < 10 {
		return
	}

	cursor := "  "
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(d.pal.text)
	metaStyle := lipgloss.NewStyle().Foreground(d.pal.muted)
	if index == m.Index() {
		cursor = "> "
		nameStyle = nameStyle.Foreground(d.pal.title)
		metaStyle = metaStyle.Foreground(d.pal.text)
	}

	badge := lipgloss.NewStyle().
		Foreground(d.pal.statusColor(it.project.Status)).
		Bold(true).
		Render(it.project.Status.Label())

	name := nameStyle.Render(it.project.Name)
	top := fmt.Sprintf("%s%s  %s", cursor, name, badge)

	meta := it.clientLine()
	if it.taskCount == 1 {
		meta += "  ·  1 task"
	} else if it.taskCount > 1 {
		meta += fmt.Sprintf("  ·  %d tasks", it.taskCount)
	}
	bottom := "  " + metaStyle.Render(meta)

	fmt.Fprint(w, fitLine(top, contentW)+"\n"+fitLine(bottom, contentW))
}

// taskDelegate renders one task per row: completion glyph, priority marker,
// title, then project/due metadata. Overdue tasks get the danger color.
type taskDelegate struct {
	pal palette
}

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	contentW := m.Width() - 2
	if contentW < 10 {
		return
	}

	glyph := "[ ]"
	titleStyle := lipgloss.NewStyle().Foreground(d.pal.text)
	if it.task.Completed {
		glyph = "[x]"
		titleStyle = lipgloss.NewStyle().Foreground(d.pal.muted).Strikethrough(true)
	}

	marker := lipgloss.NewStyle().
		Foreground(d.pal.priorityColor(it.task.Priority)).
		Render("▍")

	metaStyle := lipgloss.NewStyle().Foreground(d.pal.muted)
	if it.overdue {
		metaStyle = lipgloss.NewStyle().Foreground(d.pal.danger)
	}

	line := fmt.Sprintf("%s %s %s  %s",
		marker, glyph, titleStyle.Render(it.task.Title), metaStyle.Render(it.metaLine()))

	line = fitLine(line, contentW)
	if index == m.Index() {
		line = lipgloss.NewStyle().Background(d.pal.selected).Render(line)
	}
	fmt.Fprint(w, line)
}

// noteDelegate renders one note per row.
type noteDelegate struct {
	pal palette
}

func (d noteDelegate) Height() int                             { return 1 }
func (d noteDelegate) Spacing() int                            { return 0 }
func (d noteDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(noteItem)
	if !ok {
		return
	}
	contentW := m.Width() - 2
	if contentW < 10 {
		return
	}
	text := strings.ReplaceAll(it.note.Text, "\n", " ")
	line := "• " + lipgloss.NewStyle().Foreground(d.pal.text).Render(text)
	line = fitLine(line, contentW)
	if index == m.Index() {
		line = lipgloss.NewStyle().Background(d.pal.selected).Render(line)
	}
	fmt.Fprint(w, line)
}
