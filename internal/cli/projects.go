package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"foreman-cli/internal/format"
	"foreman-cli/internal/model"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and manage projects",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsShowCmd(app))
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsUpdateCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	var status, tasksDue string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects (optionally filtered)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "all" && !model.Status(status).Valid() {
				return fmt.Errorf("invalid status: %s", status)
			}
			due, err := parseDateRange(tasksDue)
			if err != nil {
				return err
			}
			st, _, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			st.LoadData(cmd.Context())
			st.ProjectFilters = model.ProjectFilters{
				Status:   status,
				TasksDue: due,
			}
			projects := st.FilteredProjects(time.Now())
			if projects == nil {
				projects = []model.Project{}
			}
			return format.WriteJSON(cmd.OutOrStdout(), projects, app.PrettyJSON)
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "Filter by status (lead|dp-in-progress|bp-in-progress|complete|lost|all)")
	cmd.Flags().StringVar(&tasksDue, "tasks-due", "all", "Filter by tasks due (today|tomorrow|this-week|overdue|all)")
	return cmd
}

func newProjectsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project with its tasks",
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
			p := st.Project(id)
			if p == nil {
				return fmt.Errorf("project not found: %d", id)
			}
			out := struct {
				Project model.Project `json:"project"`
				Tasks   []model.Task  `json:"tasks"`
			}{Project: *p, Tasks: st.TasksForProject(id)}
			if out.Tasks == nil {
				out.Tasks = []model.Task{}
			}
			return format.WriteJSON(cmd.OutOrStdout(), out, app.PrettyJSON)
		},
	}
}

type projectFlags struct {
	name, clientName, address, status, clientPhone, clientEmail string
	value                                                       float64
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Project name")
	cmd.Flags().StringVar(&f.clientName, "client-name", "", "Client name")
	cmd.Flags().StringVar(&f.address, "address", "", "Site address")
	cmd.Flags().StringVar(&f.status, "status", string(model.StatusLead), "Status (lead|dp-in-progress|bp-in-progress|complete|lost)")
	cmd.Flags().Float64Var(&f.value, "value", 0, "Monetary value")
	cmd.Flags().StringVar(&f.clientPhone, "client-phone", "", "Client phone")
	cmd.Flags().StringVar(&f.clientEmail, "client-email", "", "Client email")
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var f projectFlags
	var note string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := model.Status(f.status)
			if !status.Valid() {
				return fmt.Errorf("invalid status: %s", f.status)
			}
			st, _, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			p := model.Project{
				Name:        strings.TrimSpace(f.name),
				ClientName:  strings.TrimSpace(f.clientName),
				Address:     strings.TrimSpace(f.address),
				Status:      status,
				Value:       f.value,
				ClientPhone: strings.TrimSpace(f.clientPhone),
				ClientEmail: strings.TrimSpace(f.clientEmail),
			}
			created, err := st.AddProject(cmd.Context(), p)
			if err != nil {
				return err
			}
			if strings.TrimSpace(note) != "" {
				if _, err := st.AddNote(cmd.Context(), created.ID, strings.TrimSpace(note)); err != nil {
					return err
				}
				created = st.Project(created.ID)
			}
			return format.WriteJSON(cmd.OutOrStdout(), created, app.PrettyJSON)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&note, "note", "", "Initial note text")
	return cmd
}

func newProjectsUpdateCmd(app *App) *cobra.Command {
	var f projectFlags
	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project (full-field replace; omitted flags keep current values)",
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
			cur := st.Project(id)
			if cur == nil {
				return fmt.Errorf("project not found: %d", id)
			}
			p := *cur
			if cmd.Flags().Changed("name") {
				p.Name = strings.TrimSpace(f.name)
			}
			if cmd.Flags().Changed("client-name") {
				p.ClientName = strings.TrimSpace(f.clientName)
			}
			if cmd.Flags().Changed("address") {
				p.Address = strings.TrimSpace(f.address)
			}
			if cmd.Flags().Changed("status") {
				status := model.Status(f.status)
				if !status.Valid() {
					return fmt.Errorf("invalid status: %s", f.status)
				}
				p.Status = status
			}
			if cmd.Flags().Changed("value") {
				p.Value = f.value
			}
			if cmd.Flags().Changed("client-phone") {
				p.ClientPhone = strings.TrimSpace(f.clientPhone)
			}
			if cmd.Flags().Changed("client-email") {
				p.ClientEmail = strings.TrimSpace(f.clientEmail)
			}
			p.ID = id
			updated, err := st.UpdateProject(cmd.Context(), p)
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), updated, app.PrettyJSON)
		},
	}
	f.register(cmd)
	return cmd
}

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage a project's notes",
	}

	add := &cobra.Command{
		Use:   "add <project-id> <text>",
		Short: "Append a note to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text := strings.TrimSpace(args[1])
			if text == "" {
				return fmt.Errorf("note text is empty")
			}
			st, _, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			st.LoadData(cmd.Context())
			note, err := st.AddNote(cmd.Context(), id, text)
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), note, app.PrettyJSON)
		},
	}

	del := &cobra.Command{
		Use:   "delete <project-id> <note-id>",
		Short: "Delete a note from a project",
		Args:  cobra.ExactArgs(2),
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
			if !st.DeleteNote(cmd.Context(), id, args[1]) {
				return fmt.Errorf("note not deleted")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}

	cmd.AddCommand(add, del)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}
