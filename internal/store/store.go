// Package store holds the signed-in user's projects and tasks in memory and
// mediates every read/write against the remote gateway. The in-memory
// collections are the last gateway-acknowledged state: a failed remote write
// leaves them untouched, and callers update UI only after a call returns
// success (confirmed updates, uniformly — no optimistic pre-commit).
package store

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"

	"foreman-cli/internal/gateway"
	"foreman-cli/internal/model"
)

const (
	tableProjects = "projects"
	tableTasks    = "tasks"
)

// Store is constructed explicitly and passed by reference; there is no ambient
// global. The zero value is not usable; construct with New.
type Store struct {
	gw     *gateway.Client
	dir    string // config dir for theme persistence
	userID string

	Projects []model.Project
	Tasks    []model.Task

	TaskFilters    model.TaskFilters
	ProjectFilters model.ProjectFilters

	Theme            string
	CurrentProjectID int64
}

// New returns a store for the given user with empty collections and cleared
// filters. dir is the config directory used for theme persistence.
func New(gw *gateway.Client, dir, userID string) *Store {
	return &Store{
		gw:             gw,
		dir:            dir,
		userID:         userID,
		TaskFilters:    model.DefaultTaskFilters(),
		ProjectFilters: model.DefaultProjectFilters(),
		Theme:          ThemeDark,
	}
}

// LoadData replaces both collections wholesale with the gateway's rows for the
// current user. A failed fetch is logged and leaves that collection empty —
// the other collection still loads. The theme preference is always read from
// local storage (default dark).
func (s *Store) LoadData(ctx context.Context) {
	s.Projects = nil
	s.Tasks = nil

	var projects []model.Project
	if err := s.gw.Select(ctx, tableProjects, s.userFilter(), &projects); err != nil {
		log.WithError(err).Error("fetch projects")
	} else {
		s.Projects = projects
	}

	var tasks []model.Task
	if err := s.gw.Select(ctx, tableTasks, s.userFilter(), &tasks); err != nil {
		log.WithError(err).Error("fetch tasks")
	} else {
		s.Tasks = tasks
	}

	s.Theme = LoadTheme(s.dir)
}

// Project returns the in-memory project with the given id, or nil.
func (s *Store) Project(id int64) *model.Project {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i]
		}
	}
	return nil
}

// Task returns the in-memory task with the given id, or nil.
func (s *Store) Task(id int64) *model.Task {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return &s.Tasks[i]
		}
	}
	return nil
}

// TasksForProject returns the tasks whose project reference matches id.
func (s *Store) TasksForProject(id int64) []model.Task {
	var out []model.Task
	for _, t := range s.Tasks {
		if t.ProjectID != nil && *t.ProjectID == id {
			out = append(out, t)
		}
	}
	return out
}

// AddProject inserts the project tagged with the current user and, on success,
// appends the gateway's canonical record (with its server-assigned id).
func (s *Store) AddProject(ctx context.Context, p model.Project) (*model.Project, error) {
	p.UserID = s.userID
	if p.Notes == nil {
		p.Notes = []model.Note{}
	}
	var rows []model.Project
	if err := s.gw.Insert(ctx, tableProjects, p, &rows); err != nil {
		log.WithError(err).Error("add project")
		return nil, err
	}
	if len(rows) == 0 {
		log.Error("add project: gateway returned no record")
		return nil, errEmptyResponse
	}
	s.Projects = append(s.Projects, rows[0])
	return &rows[0], nil
}

// projectPatch is the full-field replace body for project updates. Mutable
// columns carry no omitempty so cleared fields (empty strings, zero value)
// still reach the gateway; id and user_id travel in the filter instead.
type projectPatch struct {
	Name        string       `json:"name"`
	ClientName  string       `json:"client_name"`
	Address     string       `json:"address"`
	Status      model.Status `json:"status"`
	Value       float64      `json:"value"`
	ClientPhone string       `json:"client_phone"`
	ClientEmail string       `json:"client_email"`
	Notes       []model.Note `json:"notes"`
}

// UpdateProject sends a full-field replace keyed by p.ID and, on success,
// swaps the matching in-memory record for the canonical one. If the id is not
// present locally the collection is left unchanged (no duplicate insert).
func (s *Store) UpdateProject(ctx context.Context, p model.Project) (*model.Project, error) {
	id := p.ID
	patch := projectPatch{
		Name:        p.Name,
		ClientName:  p.ClientName,
		Address:     p.Address,
		Status:      p.Status,
		Value:       p.Value,
		ClientPhone: p.ClientPhone,
		ClientEmail: p.ClientEmail,
		Notes:       p.Notes,
	}
	if patch.Notes == nil {
		patch.Notes = []model.Note{}
	}
	var rows []model.Project
	if err := s.gw.Update(ctx, tableProjects, patch, idFilter(id), &rows); err != nil {
		log.WithError(err).Error("update project")
		return nil, err
	}
	if len(rows) == 0 {
		log.Error("update project: gateway returned no record")
		return nil, errEmptyResponse
	}
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			s.Projects[i] = rows[0]
			break
		}
	}
	return &rows[0], nil
}

// AddTask inserts the task tagged with the current user and, on success,
// appends the canonical record.
func (s *Store) AddTask(ctx context.Context, t model.Task) (*model.Task, error) {
	t.UserID = s.userID
	var rows []model.Task
	if err := s.gw.Insert(ctx, tableTasks, t, &rows); err != nil {
		log.WithError(err).Error("add task")
		return nil, err
	}
	if len(rows) == 0 {
		log.Error("add task: gateway returned no record")
		return nil, errEmptyResponse
	}
	s.Tasks = append(s.Tasks, rows[0])
	return &rows[0], nil
}

// taskPatch is a partial-field task update. Nil fields are omitted.
type taskPatch struct {
	Title     *string         `json:"title,omitempty"`
	ProjectID **int64         `json:"project_id,omitempty"`
	DueDate   *string         `json:"due_date,omitempty"`
	DueTime   *string         `json:"due_time,omitempty"`
	Priority  *model.Priority `json:"priority,omitempty"`
	Completed *bool           `json:"completed,omitempty"`
}

// TaskPatch builds partial task updates for UpdateTask.
type TaskPatch struct{ p taskPatch }

func (tp *TaskPatch) Title(v string) *TaskPatch          { tp.p.Title = &v; return tp }
func (tp *TaskPatch) Project(v *int64) *TaskPatch        { tp.p.ProjectID = &v; return tp }
func (tp *TaskPatch) DueDate(v string) *TaskPatch        { tp.p.DueDate = &v; return tp }
func (tp *TaskPatch) DueTime(v string) *TaskPatch        { tp.p.DueTime = &v; return tp }
func (tp *TaskPatch) Priority(v model.Priority) *TaskPatch { tp.p.Priority = &v; return tp }
func (tp *TaskPatch) Completed(v bool) *TaskPatch        { tp.p.Completed = &v; return tp }

// UpdateTask sends a partial patch keyed by id and, on success, replaces the
// matching in-memory record with the canonical one. A missing local index
// leaves the collection unchanged.
func (s *Store) UpdateTask(ctx context.Context, id int64, patch *TaskPatch) (*model.Task, error) {
	var rows []model.Task
	if err := s.gw.Update(ctx, tableTasks, patch.p, idFilter(id), &rows); err != nil {
		log.WithError(err).Error("update task")
		return nil, err
	}
	if len(rows) == 0 {
		log.Error("update task: gateway returned no record")
		return nil, errEmptyResponse
	}
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			s.Tasks[i] = rows[0]
			break
		}
	}
	return &rows[0], nil
}

// DeleteTask deletes remotely, then removes the record from the in-memory
// collection. Returns false (collection untouched) on failure.
func (s *Store) DeleteTask(ctx context.Context, id int64) bool {
	if err := s.gw.Delete(ctx, tableTasks, idFilter(id)); err != nil {
		log.WithError(err).Error("delete task")
		return false
	}
	kept := s.Tasks[:0]
	for _, t := range s.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.Tasks = kept
	return true
}

// AddNote appends a note to the project's sequence via a whole-sequence
// project update. The in-memory sequence changes only after the remote ack.
func (s *Store) AddNote(ctx context.Context, projectID int64, text string) (*model.Note, error) {
	project := s.Project(projectID)
	if project == nil {
		return nil, errNotFound("project", projectID)
	}
	note := model.Note{ID: newNoteID(), Text: text}
	updated := append(append([]model.Note{}, project.Notes...), note)

	patch := map[string][]model.Note{"notes": updated}
	if err := s.gw.Update(ctx, tableProjects, patch, idFilter(projectID), nil); err != nil {
		log.WithError(err).Error("add note")
		return nil, err
	}
	project.Notes = updated
	return &note, nil
}

// DeleteNote removes a note from the project's sequence, preserving the order
// of the remaining notes. Returns false on failure or missing project.
func (s *Store) DeleteNote(ctx context.Context, projectID int64, noteID string) bool {
	project := s.Project(projectID)
	if project == nil || len(project.Notes) == 0 {
		return false
	}
	updated := make([]model.Note, 0, len(project.Notes))
	for _, n := range project.Notes {
		if n.ID != noteID {
			updated = append(updated, n)
		}
	}

	patch := map[string][]model.Note{"notes": updated}
	if err := s.gw.Update(ctx, tableProjects, patch, idFilter(projectID), nil); err != nil {
		log.WithError(err).Error("delete note")
		return false
	}
	project.Notes = updated
	return true
}

// ToggleTheme flips the two-value theme, persists it, and returns the new
// value. Pure local state — no gateway interaction.
func (s *Store) ToggleTheme() string {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}
	if err := SaveTheme(s.dir, s.Theme); err != nil {
		log.WithError(err).Error("save theme")
	}
	return s.Theme
}

func (s *Store) userFilter() []gateway.Eq {
	return []gateway.Eq{{Column: "user_id", Value: s.userID}}
}

func idFilter(id int64) []gateway.Eq {
	return []gateway.Eq{{Column: "id", Value: strconv.FormatInt(id, 10)}}
}
