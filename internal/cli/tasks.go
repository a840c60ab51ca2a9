package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"foreman-cli/internal/format"
	"foreman-cli/internal/model"
	"foreman-cli/internal/store"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and manage tasks",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var project, priority, due string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order (optionally filtered)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dr, err := parseDateRange(due)
			if err != nil {
				return err
			}
			if project != "all" {
				if _, err := parseID(project); err != nil {
					return err
				}
			}
			switch priority {
			case "all", "1", "2", "3":
			default:
				return fmt.Errorf("invalid priority %q (want 1|2|3|all)", priority)
			}
			st, _, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			st.LoadData(cmd.Context())
			st.TaskFilters = model.TaskFilters{
				Project:   project,
				Priority:  priority,
				DateRange: dr,
			}
			tasks := store.SortTasks(st.FilteredTasks(time.Now()))
			if tasks == nil {
				tasks = []model.Task{}
			}
			return format.WriteJSON(cmd.OutOrStdout(), tasks, app.PrettyJSON)
		},
	}
	cmd.Flags().StringVar(&project, "project", "all", "Filter by project id")
	cmd.Flags().StringVar(&priority, "priority", "all", "Filter by priority (1|2|3)")
	cmd.Flags().StringVar(&due, "due", "all", "Filter by due date (today|tomorrow|this-week|overdue|all)")
	return cmd
}

func parseDateRange(s string) (model.DateRange, error) {
	switch r := model.DateRange(s); r {
	case model.RangeAll, model.RangeToday, model.RangeTomorrow, model.RangeThisWeek, model.RangeOverdue:
		return r, nil
	}
	return "", fmt.Errorf("invalid date range %q (want today|tomorrow|this-week|overdue|all)", s)
}

func parseDueDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", s)
	}
	return s, nil
}

func parseDueTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return "", fmt.Errorf("invalid due time %q (want HH:MM)", s)
	}
	return s, nil
}

func newTasksAddCmd(app *App) *cobra.Command {
	var projectID int64
	var dueDate, dueTime string
	var priority int
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dd, err := parseDueDate(dueDate)
			if err != nil {
				return err
			}
			dt, err := parseDueTime(dueTime)
			if err != nil {
				return err
			}
			st, _, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			t := model.Task{
				Title:    strings.TrimSpace(args[0]),
				DueDate:  dd,
				DueTime:  dt,
				Priority: model.Priority(priority),
			}
			if cmd.Flags().Changed("project") {
				t.ProjectID = &projectID
			}
			created, err := st.AddTask(cmd.Context(), t)
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), created, app.PrettyJSON)
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "Owning project id (omit for no project)")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dueTime, "due-time", "", "Due time (HH:MM)")
	cmd.Flags().IntVar(&priority, "priority", int(model.PriorityMedium), "Priority (1 high, 2 medium, 3 low)")
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var title, dueDate, dueTime string
	var projectID int64
	var priority int
	var noProject bool
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Patch a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, _, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			st.LoadData(cmd.Context())
			patch := &store.TaskPatch{}
			if cmd.Flags().Changed("title") {
				patch.Title(strings.TrimSpace(title))
			}
			if noProject {
				patch.Project(nil)
			} else if cmd.Flags().Changed("project") {
				patch.Project(&projectID)
			}
			if cmd.Flags().Changed("due-date") {
				dd, err := parseDueDate(dueDate)
				if err != nil {
					return err
				}
				patch.DueDate(dd)
			}
			if cmd.Flags().Changed("due-time") {
				dt, err := parseDueTime(dueTime)
				if err != nil {
					return err
				}
				patch.DueTime(dt)
			}
			if cmd.Flags().Changed("priority") {
				patch.Priority(model.Priority(priority))
			}
			updated, err := st.UpdateTask(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), updated, app.PrettyJSON)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().Int64Var(&projectID, "project", 0, "Owning project id")
	cmd.Flags().BoolVar(&noProject, "no-project", false, "Detach from any project")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&dueTime, "due-time", "", "Due time (HH:MM)")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority (1 high, 2 medium, 3 low)")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	var undone bool
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed (or not, with --undone)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, _, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			st.LoadData(cmd.Context())
			patch := (&store.TaskPatch{}).Completed(!undone)
			updated, err := st.UpdateTask(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), updated, app.PrettyJSON)
		},
	}
	cmd.Flags().BoolVar(&undone, "undone", false, "Mark the task not completed")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, _, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			st.LoadData(cmd.Context())
			if !st.DeleteTask(cmd.Context(), id) {
				return fmt.Errorf("task not deleted")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}
