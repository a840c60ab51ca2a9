package store

import (
	"sort"
	"strconv"
	"time"

	"foreman-cli/internal/model"
)

// Filter/sort engine: pure derivations of the displayed subset and order from
// the store's current filter settings. Nothing here mutates the store and
// nothing is persisted — the result is recomputed on every render.

const dueDateLayout = "2006-01-02"

// FilteredProjects applies the status and tasks-due filters to the full
// project collection, preserving original relative order. now anchors the
// date buckets (time-of-day is ignored).
func (s *Store) FilteredProjects(now time.Time) []model.Project {
	f := s.ProjectFilters
	var out []model.Project
	for _, p := range s.Projects {
		if f.Status != "all" && string(p.Status) != f.Status {
			continue
		}
		if f.TasksDue != model.RangeAll {
			tasks := s.TasksForProject(p.ID)
			if len(tasks) == 0 {
				continue
			}
			match := false
			for _, t := range tasks {
				if dueDateInRange(t, f.TasksDue, now) {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// FilteredTasks applies the project, priority, and date-range filters to the
// full task collection, preserving original relative order.
func (s *Store) FilteredTasks(now time.Time) []model.Task {
	f := s.TaskFilters
	var out []model.Task
	for _, t := range s.Tasks {
		if f.Project != "all" {
			if t.ProjectID == nil || strconv.FormatInt(*t.ProjectID, 10) != f.Project {
				continue
			}
		}
		if f.Priority != "all" && strconv.Itoa(int(t.Priority)) != f.Priority {
			continue
		}
		if f.DateRange != model.RangeAll && !dueDateInRange(t, f.DateRange, now) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// dueDateInRange reports whether the task's due date falls in the bucket,
// computed against now's calendar day with time zeroed out. Tasks without a
// parseable due date never match. "this-week" spans Sunday through Saturday
// of the current week; "overdue" additionally requires the task incomplete.
func dueDateInRange(t model.Task, r model.DateRange, now time.Time) bool {
	if r == model.RangeAll {
		return true
	}
	due, err := time.ParseInLocation(dueDateLayout, t.DueDate, now.Location())
	if err != nil {
		return false
	}
	today := midnight(now)
	switch r {
	case model.RangeToday:
		return due.Equal(today)
	case model.RangeTomorrow:
		return due.Equal(today.AddDate(0, 0, 1))
	case model.RangeThisWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		end := start.AddDate(0, 0, 6)
		return !due.Before(start) && !due.After(end)
	case model.RangeOverdue:
		return due.Before(today) && !t.Completed
	default:
		return false
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SortTasks orders a rendered task list: incomplete before completed, then
// ascending due date (missing due dates last), then ascending priority value.
// The sort is stable, so equal tasks keep their relative order.
func SortTasks(tasks []model.Task) []model.Task {
	out := append([]model.Task{}, tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return lessTask(out[i], out[j])
	})
	return out
}

func lessTask(a, b model.Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}
	ad, aok := parseDue(a.DueDate)
	bd, bok := parseDue(b.DueDate)
	switch {
	case aok && bok:
		if !ad.Equal(bd) {
			return ad.Before(bd)
		}
	case aok != bok:
		return aok // dated tasks sort before undated ones
	}
	return a.Priority < b.Priority
}

func parseDue(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dueDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
