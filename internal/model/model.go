package model

// Status is a project's pipeline stage.
type Status string

const (
	StatusLead         Status = "lead"
	StatusDPInProgress Status = "dp-in-progress"
	StatusBPInProgress Status = "bp-in-progress"
	StatusComplete     Status = "complete"
	StatusLost         Status = "lost"
)

// Statuses lists every stage in pipeline order (used by pickers and filters).
var Statuses = []Status{StatusLead, StatusDPInProgress, StatusBPInProgress, StatusComplete, StatusLost}

// Label returns the human-readable form shown in views.
func (s Status) Label() string {
	switch s {
	case StatusLead:
		return "Lead"
	case StatusDPInProgress:
		return "DP In Progress"
	case StatusBPInProgress:
		return "BP In Progress"
	case StatusComplete:
		return "Complete"
	case StatusLost:
		return "Lost"
	default:
		return "N/A"
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusLead, StatusDPInProgress, StatusBPInProgress, StatusComplete, StatusLost:
		return true
	}
	return false
}

// Priority orders tasks by urgency; lower value = more urgent.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "N/A"
	}
}

// Note is embedded in a project's note sequence; it has no independent
// existence and is created/removed only via whole-project updates.
type Note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Project mirrors a row of the backend "projects" table. JSON tags follow the
// backend's snake_case columns.
type Project struct {
	ID          int64   `json:"id,omitempty"`
	UserID      string  `json:"user_id,omitempty"`
	Name        string  `json:"name"`
	ClientName  string  `json:"client_name,omitempty"`
	Address     string  `json:"address,omitempty"`
	Status      Status  `json:"status"`
	Value       float64 `json:"value,omitempty"`
	ClientPhone string  `json:"client_phone,omitempty"`
	ClientEmail string  `json:"client_email,omitempty"`
	Notes       []Note  `json:"notes"`
}

// Task mirrors a row of the backend "tasks" table.
//
// DueDate is "YYYY-MM-DD" and DueTime "HH:MM"; both may be empty. ProjectID is
// nil for tasks that belong to no project.
type Task struct {
	ID        int64    `json:"id,omitempty"`
	UserID    string   `json:"user_id,omitempty"`
	Title     string   `json:"title"`
	ProjectID *int64   `json:"project_id"`
	DueDate   string   `json:"due_date,omitempty"`
	DueTime   string   `json:"due_time,omitempty"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
}

// User is the subset of the auth user record the client cares about.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the gateway's auth session payload, cached locally between runs.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"` // unix seconds
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// DateRange buckets a due date against the current calendar day.
type DateRange string

const (
	RangeAll      DateRange = "all"
	RangeToday    DateRange = "today"
	RangeTomorrow DateRange = "tomorrow"
	RangeThisWeek DateRange = "this-week"
	RangeOverdue  DateRange = "overdue"
)

// TaskFilters selects the displayed subset of tasks. "all" disables a filter.
// Project and Priority hold a stringified id/value or "all".
type TaskFilters struct {
	Project   string
	Priority  string
	DateRange DateRange
}

// ProjectFilters selects the displayed subset of projects.
type ProjectFilters struct {
	Status   string
	TasksDue DateRange
}

// DefaultTaskFilters returns the cleared ("all") task filter state.
func DefaultTaskFilters() TaskFilters {
	return TaskFilters{Project: "all", Priority: "all", DateRange: RangeAll}
}

// DefaultProjectFilters returns the cleared ("all") project filter state.
func DefaultProjectFilters() ProjectFilters {
	return ProjectFilters{Status: "all", TasksDue: RangeAll}
}
