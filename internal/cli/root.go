package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"foreman-cli/internal/gateway"
	"foreman-cli/internal/model"
	"foreman-cli/internal/store"
	"foreman-cli/internal/tui"
)

// App carries persistent flags and the resolved config dir across commands.
type App struct {
	ConfigDir  string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "foreman",
		Short:        "Project/task tracker CLI + TUI for a hosted backend",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  foreman

  # Scriptable commands
  foreman projects list
  foreman tasks list --due overdue
  foreman tasks done task-id`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", "", "Path to config dir (default: ~/.foreman; also FOREMAN_CONFIG_DIR)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newConfigureCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newSignupCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newTasksCmd(app))

	return cmd
}

func (a *App) configDir() (string, error) {
	if strings.TrimSpace(a.ConfigDir) != "" {
		return a.ConfigDir, nil
	}
	return store.ConfigDir()
}

// connectGateway builds a gateway client from config, without requiring a
// session (login/signup use this).
func (a *App) connectGateway() (*gateway.Client, string, error) {
	dir, err := a.configDir()
	if err != nil {
		return nil, "", err
	}
	url, key, err := store.GatewayConfig(dir)
	if err != nil {
		return nil, "", err
	}
	return gateway.New(url, key), dir, nil
}

// connect is the auth bootstrap shared by every data command and the TUI:
// config -> gateway client -> cached session (refreshed if stale) -> store.
func (a *App) connect(ctx context.Context) (*store.Store, *model.Session, error) {
	gw, dir, err := a.connectGateway()
	if err != nil {
		return nil, nil, err
	}
	sess, err := store.EnsureSession(ctx, gw, dir)
	if err != nil {
		return nil, nil, err
	}
	st := store.New(gw, dir, sess.User.ID)
	return st, sess, nil
}

func runTUI(app *App) error {
	ctx := context.Background()
	st, sess, err := app.connect(ctx)
	if err != nil {
		if err == store.ErrNotSignedIn {
			return fmt.Errorf("not signed in: run `foreman login <email>` first")
		}
		return err
	}
	st.LoadData(ctx)
	return tui.Run(st, sess)
}
