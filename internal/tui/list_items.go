package tui

import (
	"fmt"
	"strings"
	"time"

	"foreman-cli/internal/model"
)

type projectItem struct {
	project   model.Project
	taskCount int
}

func (i projectItem) FilterValue() string { return i.project.Name }

func (i projectItem) clientLine() string {
	c := strings.TrimSpace(i.project.ClientName)
	if c == "" {
		return "No client specified"
	}
	return c
}

type taskItem struct {
	task        model.Task
	projectName string // empty when the task has no (or a dangling) project ref
	overdue     bool
}

func (i taskItem) FilterValue() string { return i.task.Title }

func (i taskItem) metaLine() string {
	var parts []string
	if i.projectName != "" {
		parts = append(parts, i.projectName)
	}
	if i.task.DueDate != "" {
		due := "Due " + formatDueDate(i.task.DueDate)
		if i.task.DueTime != "" {
			due += " " + formatDueTime(i.task.DueTime)
		}
		parts = append(parts, due)
	}
	parts = append(parts, i.task.Priority.Label())
	return strings.Join(parts, "  ·  ")
}

type noteItem struct {
	note model.Note
}

func (i noteItem) FilterValue() string { return i.note.Text }

func formatDueDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}

func formatDueTime(s string) string {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return s
	}
	return t.Format("3:04 PM")
}

func formatValue(v float64) string {
	if v == 0 {
		return "$0"
	}
	// Insert thousands separators into the integer part.
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
