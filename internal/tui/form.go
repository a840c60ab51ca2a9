package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"foreman-cli/internal/model"
)

type formKind int

const (
	formNone formKind = iota
	formAddProject
	formEditProject
	formAddTask
	formEditTask
	formAddNote
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldChoice
)

// formField is either a free-text input or a left/right-cycled choice.
type formField struct {
	label     string
	kind      fieldKind
	input     textinput.Model
	options   []string // display labels, parallel to values
	values    []string
	optionIdx int
}

func textField(label, placeholder, value string) formField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CharLimit = 200
	return formField{label: label, kind: fieldText, input: ti}
}

func choiceField(label string, options, values []string, current string) formField {
	idx := 0
	for i, v := range values {
		if v == current {
			idx = i
			break
		}
	}
	return formField{label: label, kind: fieldChoice, options: options, values: values, optionIdx: idx}
}

func (f *formField) value() string {
	if f.kind == fieldChoice {
		return f.values[f.optionIdx]
	}
	return strings.TrimSpace(f.input.Value())
}

func (f *formField) cycle(delta int) {
	n := len(f.options)
	if n == 0 {
		return
	}
	f.optionIdx = ((f.optionIdx+delta)%n + n) % n
}

// formState is a modal add/edit form. editID is zero for add forms.
type formState struct {
	kind   formKind
	title  string
	fields []formField
	focus  int
	editID int64
}

func (fs *formState) focusField(i int) {
	for j := range fs.fields {
		fs.fields[j].input.Blur()
	}
	fs.focus = i
	if fs.fields[i].kind == fieldText {
		fs.fields[i].input.Focus()
	}
}

func (fs *formState) moveFocus(delta int) {
	n := len(fs.fields)
	fs.focusField(((fs.focus+delta)%n + n) % n)
}

func (fs *formState) updateFocused(msg tea.Msg) tea.Cmd {
	if fs.fields[fs.focus].kind != fieldText {
		return nil
	}
	var cmd tea.Cmd
	fs.fields[fs.focus].input, cmd = fs.fields[fs.focus].input.Update(msg)
	return cmd
}

// field lookup by label; forms are small enough that linear scan is fine.
func (fs *formState) get(label string) string {
	for i := range fs.fields {
		if fs.fields[i].label == label {
			return fs.fields[i].value()
		}
	}
	return ""
}

// Form builders. Field labels double as keys for get().

func newProjectForm(kind formKind, p *model.Project) *formState {
	statusLabels := make([]string, len(model.Statuses))
	statusValues := make([]string, len(model.Statuses))
	for i, s := range model.Statuses {
		statusLabels[i] = s.Label()
		statusValues[i] = string(s)
	}

	title := "Add Project"
	var cur model.Project
	var editID int64
	if kind == formEditProject && p != nil {
		title = "Edit Project"
		cur = *p
		editID = p.ID
	}

	value := ""
	if cur.Value != 0 {
		value = strconv.FormatFloat(cur.Value, 'f', -1, 64)
	}

	fs := &formState{
		kind:   kind,
		title:  title,
		editID: editID,
		fields: []formField{
			textField("Name", "Project name", cur.Name),
			textField("Client", "Client name", cur.ClientName),
			textField("Address", "Site address", cur.Address),
			choiceField("Status", statusLabels, statusValues, string(cur.Status)),
			textField("Value", "0", value),
			textField("Phone", "Client phone", cur.ClientPhone),
			textField("Email", "Client email", cur.ClientEmail),
		},
	}
	if kind == formAddProject {
		fs.fields = append(fs.fields, textField("Note", "Optional first note", ""))
	}
	fs.focusField(0)
	return fs
}

func newTaskForm(kind formKind, projects []model.Project, t *model.Task) *formState {
	projLabels := []string{"No Project"}
	projValues := []string{""}
	for _, p := range projects {
		projLabels = append(projLabels, p.Name)
		projValues = append(projValues, strconv.FormatInt(p.ID, 10))
	}

	prioLabels := []string{"High", "Medium", "Low"}
	prioValues := []string{"1", "2", "3"}

	title := "Add Task"
	var cur model.Task
	var editID int64
	curProj := ""
	if kind == formEditTask && t != nil {
		title = "Edit Task"
		cur = *t
		editID = t.ID
		if t.ProjectID != nil {
			curProj = strconv.FormatInt(*t.ProjectID, 10)
		}
	}
	curPrio := strconv.Itoa(int(cur.Priority))
	if cur.Priority == 0 {
		curPrio = "2"
	}

	fs := &formState{
		kind:   kind,
		title:  title,
		editID: editID,
		fields: []formField{
			textField("Title", "Task title", cur.Title),
			choiceField("Project", projLabels, projValues, curProj),
			textField("Due date", "YYYY-MM-DD", cur.DueDate),
			textField("Due time", "HH:MM", cur.DueTime),
			choiceField("Priority", prioLabels, prioValues, curPrio),
		},
	}
	fs.focusField(0)
	return fs
}

func newNoteForm() *formState {
	fs := &formState{
		kind:  formAddNote,
		title: "Add Note",
		fields: []formField{
			textField("Note", "Note text", ""),
		},
	}
	fs.focusField(0)
	return fs
}

func renderForm(pal palette, winW, winH int, fs *formState) string {
	labelStyle := lipgloss.NewStyle().Foreground(pal.muted).Width(10)
	focusedLabel := labelStyle.Foreground(pal.title).Bold(true)

	var rows []string
	for i := range fs.fields {
		f := &fs.fields[i]
		ls := labelStyle
		if i == fs.focus {
			ls = focusedLabel
		}
		var val string
		switch f.kind {
		case fieldChoice:
			choice := f.options[f.optionIdx]
			if i == fs.focus {
				choice = "◀ " + choice + " ▶"
			}
			val = lipgloss.NewStyle().Foreground(pal.text).Render(choice)
		default:
			val = f.input.View()
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, ls.Render(f.label), " ", val))
	}

	help := lipgloss.NewStyle().Foreground(pal.muted).
		Render("tab: next field   ←/→: change choice   enter: save   esc: cancel")
	content := strings.Join(append(rows, "", help), "\n")
	return renderModalBox(pal, winW, winH, fs.title, content)
}
