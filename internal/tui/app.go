package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"foreman-cli/internal/model"
	"foreman-cli/internal/store"
)

type view int

const (
	viewProjects view = iota
	viewTasks
	viewProjectDetail
)

// dateRanges is the cycle order for the due-date filters.
var dateRanges = []model.DateRange{
	model.RangeAll, model.RangeToday, model.RangeTomorrow, model.RangeThisWeek, model.RangeOverdue,
}

type appModel struct {
	st   *store.Store
	sess *model.Session

	width  int
	height int

	view view

	projectsList    list.Model
	tasksList       list.Model
	detailTasksList list.Model
	notesList       list.Model

	// manageNotes switches the detail notes pane from markdown preview to the
	// selectable list used for deletion.
	manageNotes bool

	form    *formState
	confirm *confirmState

	status string
	pal    palette
}

func newAppModel(st *store.Store, sess *model.Session) appModel {
	m := appModel{
		st:   st,
		sess: sess,
		view: viewProjects,
		pal:  paletteFor(st.Theme),
	}

	m.projectsList = newList("Projects", projectDelegate{pal: m.pal})
	m.tasksList = newList("Tasks", taskDelegate{pal: m.pal})
	m.detailTasksList = newList("Tasks", taskDelegate{pal: m.pal})
	m.notesList = newList("Notes", noteDelegate{pal: m.pal})

	m.refreshProjects()
	m.refreshTasks()
	return m
}

func newList(title string, delegate list.ItemDelegate) list.Model {
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	return l
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right":
		if m.confirm.focus == confirmFocusConfirm {
			m.confirm.focus = confirmFocusCancel
		} else {
			m.confirm.focus = confirmFocusConfirm
		}
	case "enter":
		m.closeConfirm(m.confirm.focus == confirmFocusConfirm)
	case "y":
		m.closeConfirm(true)
	case "n", "esc", "ctrl+g":
		m.closeConfirm(false)
	}
	return m, nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+g":
		m.form = nil
		return m, nil
	case "enter":
		m.submitForm()
		return m, nil
	case "tab", "down":
		m.form.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.form.moveFocus(-1)
		return m, nil
	case "left":
		if m.form.fields[m.form.focus].kind == fieldChoice {
			m.form.fields[m.form.focus].cycle(-1)
			return m, nil
		}
	case "right":
		if m.form.fields[m.form.focus].kind == fieldChoice {
			m.form.fields[m.form.focus].cycle(1)
			return m, nil
		}
	}
	cmd := m.form.updateFocused(msg)
	return m, cmd
}

func (m appModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "t":
		m.applyTheme(m.st.ToggleTheme())
		return m, nil
	case "r":
		m.st.LoadData(context.Background())
		m.refreshAll()
		return m, nil
	}

	switch m.view {
	case viewProjects:
		return m.updateProjectsView(msg)
	case viewTasks:
		return m.updateTasksView(msg)
	case viewProjectDetail:
		return m.updateDetailView(msg)
	}
	return m, nil
}

func (m appModel) updateProjectsView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "2":
		m.switchView(viewTasks, 0)
		return m, nil
	case "enter":
		if it, ok := m.projectsList.SelectedItem().(projectItem); ok {
			m.switchView(viewProjectDetail, it.project.ID)
		}
		return m, nil
	case "a":
		m.form = newProjectForm(formAddProject, nil)
		return m, nil
	case "e":
		if it, ok := m.projectsList.SelectedItem().(projectItem); ok {
			p := it.project
			m.form = newProjectForm(formEditProject, &p)
		}
		return m, nil
	case "s":
		m.st.ProjectFilters.Status = cycleStatusFilter(m.st.ProjectFilters.Status)
		m.refreshProjects()
		return m, nil
	case "d":
		m.st.ProjectFilters.TasksDue = cycleDateRange(m.st.ProjectFilters.TasksDue)
		m.refreshProjects()
		return m, nil
	case "c":
		m.st.ProjectFilters = model.DefaultProjectFilters()
		m.refreshProjects()
		return m, nil
	}
	var cmd tea.Cmd
	m.projectsList, cmd = m.projectsList.Update(msg)
	return m, cmd
}

func (m appModel) updateTasksView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "1":
		m.switchView(viewProjects, 0)
		return m, nil
	case "a":
		m.form = newTaskForm(formAddTask, m.st.Projects, nil)
		return m, nil
	case "e":
		if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
			t := it.task
			m.form = newTaskForm(formEditTask, m.st.Projects, &t)
		}
		return m, nil
	case " ", "x":
		if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
			m.toggleTask(it.task)
		}
		return m, nil
	case "D":
		if it, ok := m.tasksList.SelectedItem().(taskItem); ok {
			m.armDeleteTask(it.task.ID)
		}
		return m, nil
	case "p":
		m.st.TaskFilters.Project = m.cycleProjectFilter(m.st.TaskFilters.Project)
		m.refreshTasks()
		return m, nil
	case "!":
		m.st.TaskFilters.Priority = cyclePriorityFilter(m.st.TaskFilters.Priority)
		m.refreshTasks()
		return m, nil
	case "d":
		m.st.TaskFilters.DateRange = cycleDateRange(m.st.TaskFilters.DateRange)
		m.refreshTasks()
		return m, nil
	case "c":
		m.st.TaskFilters = model.DefaultTaskFilters()
		m.refreshTasks()
		return m, nil
	}
	var cmd tea.Cmd
	m.tasksList, cmd = m.tasksList.Update(msg)
	return m, cmd
}

func (m appModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.switchView(viewProjects, 0)
		return m, nil
	case "tab":
		m.manageNotes = !m.manageNotes
		return m, nil
	case "n":
		m.form = newNoteForm()
		return m, nil
	case "e":
		if m.manageNotes {
			return m, nil
		}
		if it, ok := m.detailTasksList.SelectedItem().(taskItem); ok {
			t := it.task
			m.form = newTaskForm(formEditTask, m.st.Projects, &t)
		}
		return m, nil
	case " ", "x":
		if m.manageNotes {
			return m, nil
		}
		if it, ok := m.detailTasksList.SelectedItem().(taskItem); ok {
			m.toggleTask(it.task)
		}
		return m, nil
	case "D":
		if m.manageNotes {
			if it, ok := m.notesList.SelectedItem().(noteItem); ok {
				m.armDeleteNote(it.note.ID)
			}
			return m, nil
		}
		if it, ok := m.detailTasksList.SelectedItem().(taskItem); ok {
			m.armDeleteTask(it.task.ID)
		}
		return m, nil
	}
	var cmd tea.Cmd
	if m.manageNotes {
		m.notesList, cmd = m.notesList.Update(msg)
	} else {
		m.detailTasksList, cmd = m.detailTasksList.Update(msg)
	}
	return m, cmd
}

// switchView changes the main view. Entering the detail view sets the store's
// current-project pointer; leaving does not clear it (it is overwritten on the
// next entry).
func (m *appModel) switchView(v view, projectID int64) {
	m.view = v
	switch v {
	case viewProjects:
		m.refreshProjects()
	case viewTasks:
		m.refreshTasks()
	case viewProjectDetail:
		m.st.CurrentProjectID = projectID
		m.manageNotes = false
		m.refreshDetail()
	}
}

func (m *appModel) applyTheme(theme string) {
	m.pal = paletteFor(theme)
	m.projectsList.SetDelegate(projectDelegate{pal: m.pal})
	m.tasksList.SetDelegate(taskDelegate{pal: m.pal})
	m.detailTasksList.SetDelegate(taskDelegate{pal: m.pal})
	m.notesList.SetDelegate(noteDelegate{pal: m.pal})
}

// Mutations. Every store call below is confirmed: the gateway call happens
// first, and lists re-render only from the acknowledged in-memory state.

func (m *appModel) toggleTask(t model.Task) {
	patch := (&store.TaskPatch{}).Completed(!t.Completed)
	if _, err := m.st.UpdateTask(context.Background(), t.ID, patch); err != nil {
		m.status = "update failed: " + err.Error()
		return
	}
	m.refreshTasks()
	m.refreshDetail()
}

func (m *appModel) armDeleteTask(id int64) {
	m.openConfirm("Delete Task?", "Are you sure you want to delete this task?",
		confirmAction{kind: confirmDeleteTask, taskID: id})
}

func (m *appModel) armDeleteNote(noteID string) {
	m.openConfirm("Delete Note?", "Are you sure you want to delete this note?",
		confirmAction{kind: confirmDeleteNote, projectID: m.st.CurrentProjectID, noteID: noteID})
}

func (m *appModel) runConfirmed(a confirmAction) {
	switch a.kind {
	case confirmDeleteTask:
		if !m.st.DeleteTask(context.Background(), a.taskID) {
			m.status = "delete failed"
			return
		}
		m.refreshAll()
	case confirmDeleteNote:
		if !m.st.DeleteNote(context.Background(), a.projectID, a.noteID) {
			m.status = "delete failed"
			return
		}
		m.refreshDetail()
	}
}

func (m *appModel) submitForm() {
	fs := m.form
	ctx := context.Background()
	switch fs.kind {
	case formAddProject, formEditProject:
		value, _ := strconv.ParseFloat(fs.get("Value"), 64)
		p := model.Project{
			ID:          fs.editID,
			Name:        fs.get("Name"),
			ClientName:  fs.get("Client"),
			Address:     fs.get("Address"),
			Status:      model.Status(fs.get("Status")),
			Value:       value,
			ClientPhone: fs.get("Phone"),
			ClientEmail: fs.get("Email"),
		}
		if fs.kind == formAddProject {
			created, err := m.st.AddProject(ctx, p)
			if err != nil {
				m.status = "add failed: " + err.Error()
				break
			}
			if note := fs.get("Note"); note != "" {
				if _, err := m.st.AddNote(ctx, created.ID, note); err != nil {
					m.status = "note failed: " + err.Error()
				}
			}
		} else {
			if existing := m.st.Project(fs.editID); existing != nil {
				p.Notes = existing.Notes
			}
			if _, err := m.st.UpdateProject(ctx, p); err != nil {
				m.status = "update failed: " + err.Error()
				break
			}
		}
		m.refreshAll()

	case formAddTask, formEditTask:
		t := model.Task{
			Title:    fs.get("Title"),
			DueDate:  fs.get("Due date"),
			DueTime:  fs.get("Due time"),
			Priority: parsePriority(fs.get("Priority")),
		}
		if v := fs.get("Project"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				t.ProjectID = &id
			}
		}
		if fs.kind == formAddTask {
			if _, err := m.st.AddTask(ctx, t); err != nil {
				m.status = "add failed: " + err.Error()
				break
			}
		} else {
			patch := (&store.TaskPatch{}).
				Title(t.Title).
				Project(t.ProjectID).
				DueDate(t.DueDate).
				DueTime(t.DueTime).
				Priority(t.Priority)
			if _, err := m.st.UpdateTask(ctx, fs.editID, patch); err != nil {
				m.status = "update failed: " + err.Error()
				break
			}
		}
		m.refreshAll()

	case formAddNote:
		text := fs.get("Note")
		if text == "" {
			break
		}
		if _, err := m.st.AddNote(ctx, m.st.CurrentProjectID, text); err != nil {
			m.status = "note failed: " + err.Error()
			break
		}
		m.refreshDetail()
	}
	m.form = nil
}

func parsePriority(s string) model.Priority {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 3 {
		return model.PriorityMedium
	}
	return model.Priority(n)
}

// Filter cycling.

func cycleDateRange(cur model.DateRange) model.DateRange {
	for i, r := range dateRanges {
		if r == cur {
			return dateRanges[(i+1)%len(dateRanges)]
		}
	}
	return model.RangeAll
}

func cycleStatusFilter(cur string) string {
	options := []string{"all"}
	for _, s := range model.Statuses {
		options = append(options, string(s))
	}
	for i, o := range options {
		if o == cur {
			return options[(i+1)%len(options)]
		}
	}
	return "all"
}

func cyclePriorityFilter(cur string) string {
	options := []string{"all", "1", "2", "3"}
	for i, o := range options {
		if o == cur {
			return options[(i+1)%len(options)]
		}
	}
	return "all"
}

func (m *appModel) cycleProjectFilter(cur string) string {
	options := []string{"all"}
	for _, p := range m.st.Projects {
		options = append(options, strconv.FormatInt(p.ID, 10))
	}
	for i, o := range options {
		if o == cur {
			return options[(i+1)%len(options)]
		}
	}
	return "all"
}

// List refresh from the store's acknowledged state.

func (m *appModel) refreshAll() {
	m.refreshProjects()
	m.refreshTasks()
	m.refreshDetail()
}

func (m *appModel) refreshProjects() {
	keep := selectedProjectID(m.projectsList)
	var items []list.Item
	for _, p := range m.st.FilteredProjects(time.Now()) {
		items = append(items, projectItem{project: p, taskCount: len(m.st.TasksForProject(p.ID))})
	}
	m.projectsList.SetItems(items)
	if keep != 0 {
		for i, it := range items {
			if pi, ok := it.(projectItem); ok && pi.project.ID == keep {
				m.projectsList.Select(i)
				break
			}
		}
	}
}

func selectedProjectID(l list.Model) int64 {
	if it, ok := l.SelectedItem().(projectItem); ok {
		return it.project.ID
	}
	return 0
}

func (m *appModel) taskListItems(tasks []model.Task) []list.Item {
	today := time.Now()
	var items []list.Item
	for _, t := range store.SortTasks(tasks) {
		name := ""
		if t.ProjectID != nil {
			// A dangling project reference displays as "no project".
			if p := m.st.Project(*t.ProjectID); p != nil {
				name = p.Name
			}
		}
		items = append(items, taskItem{task: t, projectName: name, overdue: taskOverdue(t, today)})
	}
	return items
}

func taskOverdue(t model.Task, now time.Time) bool {
	if t.Completed || t.DueDate == "" {
		return false
	}
	due, err := time.ParseInLocation("2006-01-02", t.DueDate, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

func (m *appModel) refreshTasks() {
	m.tasksList.SetItems(m.taskListItems(m.st.FilteredTasks(time.Now())))
}

func (m *appModel) refreshDetail() {
	if m.st.CurrentProjectID == 0 {
		return
	}
	m.detailTasksList.SetItems(m.taskListItems(m.st.TasksForProject(m.st.CurrentProjectID)))
	var notes []list.Item
	if p := m.st.Project(m.st.CurrentProjectID); p != nil {
		for _, n := range p.Notes {
			notes = append(notes, noteItem{note: n})
		}
	}
	m.notesList.SetItems(notes)
}

func (m *appModel) resizeLists() {
	h := m.height - 7
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.projectsList.SetSize(w, h)
	m.tasksList.SetSize(w, h)

	detailH := (m.height - 14) / 2
	if detailH < 5 {
		detailH = 5
	}
	m.detailTasksList.SetSize(w, detailH)
	m.notesList.SetSize(w, detailH)
}

// View rendering.

func (m appModel) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.confirm != nil {
		return renderConfirmModal(m.pal, m.width, m.height, m.confirm)
	}
	if m.form != nil {
		return renderForm(m.pal, m.width, m.height, m.form)
	}

	header := m.renderHeader()
	var body string
	switch m.view {
	case viewProjects:
		body = m.renderListOrEmpty(m.projectsList, "No projects found. Press a to add one.")
	case viewTasks:
		body = m.renderListOrEmpty(m.tasksList, "No tasks found. Press a to add one.")
	case viewProjectDetail:
		body = m.renderDetail()
	}
	footer := m.renderFooter()
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m appModel) renderListOrEmpty(l list.Model, empty string) string {
	if len(l.Items()) == 0 {
		return lipgloss.NewStyle().
			Foreground(m.pal.muted).
			Padding(1, 2).
			Height(l.Height()).
			Render(empty)
	}
	return l.View()
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(m.pal.title).Render("Foreman")
	user := lipgloss.NewStyle().Foreground(m.pal.muted).Render(m.sess.User.Email)

	tabStyle := lipgloss.NewStyle().Foreground(m.pal.muted).Padding(0, 1)
	activeTab := tabStyle.Foreground(m.pal.text).Bold(true).Underline(true)

	projects, tasks := tabStyle.Render("Projects"), tabStyle.Render("Tasks")
	if m.view == viewTasks {
		tasks = activeTab.Render("Tasks")
	} else {
		projects = activeTab.Render("Projects")
	}

	filters := m.renderFilterBar()
	line := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", projects, tasks, "  ", user)
	return line + "\n" + filters
}

func (m appModel) renderFilterBar() string {
	style := lipgloss.NewStyle().Foreground(m.pal.muted)
	switch m.view {
	case viewProjects:
		f := m.st.ProjectFilters
		return style.Render(fmt.Sprintf("filters  status:%s  tasks-due:%s", f.Status, f.TasksDue))
	case viewTasks:
		f := m.st.TaskFilters
		project := f.Project
		if project != "all" {
			if id, err := strconv.ParseInt(project, 10, 64); err == nil {
				if p := m.st.Project(id); p != nil {
					project = p.Name
				}
			}
		}
		return style.Render(fmt.Sprintf("filters  project:%s  priority:%s  due:%s", project, f.Priority, f.DateRange))
	default:
		return ""
	}
}

func (m appModel) renderDetail() string {
	p := m.st.Project(m.st.CurrentProjectID)
	if p == nil {
		return lipgloss.NewStyle().Foreground(m.pal.muted).Render("Project not found.")
	}

	name := lipgloss.NewStyle().Bold(true).Foreground(m.pal.title).Render(p.Name)
	badge := lipgloss.NewStyle().Bold(true).Foreground(m.pal.statusColor(p.Status)).Render(p.Status.Label())
	muted := lipgloss.NewStyle().Foreground(m.pal.muted)

	var info []string
	info = append(info, name+"  "+badge)
	if p.ClientName != "" {
		info = append(info, muted.Render(p.ClientName))
	}
	info = append(info, muted.Render(fmt.Sprintf("Address: %s   Value: %s", orNA(p.Address), formatValue(p.Value))))
	info = append(info, muted.Render(fmt.Sprintf("Email: %s   Phone: %s", orNA(p.ClientEmail), orNA(p.ClientPhone))))

	section := lipgloss.NewStyle().Bold(true).Foreground(m.pal.text)
	tasksHdr := section.Render("Tasks")
	tasksBody := m.renderListOrEmpty(m.detailTasksList, "No tasks for this project yet.")

	notesHdr := section.Render("Notes")
	if m.manageNotes {
		notesHdr += muted.Render("  (manage: D deletes, tab to leave)")
	}
	var notesBody string
	if m.manageNotes {
		notesBody = m.renderListOrEmpty(m.notesList, "No notes for this project yet.")
	} else {
		notesBody = renderNotesMarkdown(m.st.Theme, p.Notes, m.width-4)
	}

	return strings.Join([]string{
		strings.Join(info, "\n"),
		"",
		tasksHdr,
		tasksBody,
		notesHdr,
		notesBody,
	}, "\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func (m appModel) renderFooter() string {
	var help string
	switch m.view {
	case viewProjects:
		help = "enter: open  a: add  e: edit  s/d: filters  c: clear  tab: tasks  t: theme  r: reload  q: quit"
	case viewTasks:
		help = "space: toggle  a: add  e: edit  D: delete  p/!/d: filters  c: clear  tab: projects  t: theme  q: quit"
	case viewProjectDetail:
		help = "space: toggle  e: edit task  D: delete  n: add note  tab: notes  esc: back  q: quit"
	}
	line := lipgloss.NewStyle().Foreground(m.pal.muted).Render(help)
	if m.status != "" {
		line += "\n" + lipgloss.NewStyle().Foreground(m.pal.danger).Render(m.status)
	}
	return line
}
