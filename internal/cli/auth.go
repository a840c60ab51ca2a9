package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"foreman-cli/internal/format"
	"foreman-cli/internal/store"
)

func newConfigureCmd(app *App) *cobra.Command {
	var url, anonKey string
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Store the gateway URL and anon key",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.configDir()
			if err != nil {
				return err
			}
			cfg := store.LoadConfig(dir)
			if strings.TrimSpace(url) != "" {
				cfg.URL = strings.TrimSpace(url)
			}
			if strings.TrimSpace(anonKey) != "" {
				cfg.AnonKey = strings.TrimSpace(anonKey)
			}
			if err := store.SaveConfig(dir, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration saved")
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Gateway base URL")
	cmd.Flags().StringVar(&anonKey, "anon-key", "", "Gateway anon key")
	return cmd
}

// readPassword prompts on stderr and reads without echo when stdin is a
// terminal; otherwise it reads a line from stdin (scripted use).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	var pw string
	if _, err := fmt.Fscanln(os.Stdin, &pw); err != nil {
		return "", err
	}
	return pw, nil
}

func newLoginCmd(app *App) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and cache the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, dir, err := app.connectGateway()
			if err != nil {
				return err
			}
			pw := password
			if pw == "" {
				pw, err = readPassword("Password: ")
				if err != nil {
					return err
				}
			}
			sess, err := gw.SignInWithPassword(cmd.Context(), args[0], pw)
			if err != nil {
				// The gateway's message string is the user-facing error here.
				return err
			}
			if err := store.SaveSession(dir, sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", sess.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newSignupCmd(app *App) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "signup <email>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, _, err := app.connectGateway()
			if err != nil {
				return err
			}
			pw := password
			if pw == "" {
				pw, err = readPassword("Password: ")
				if err != nil {
					return err
				}
			}
			if _, err := gw.SignUp(cmd.Context(), args[0], pw); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Success! Check your email for a confirmation link.")
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, dir, err := app.connectGateway()
			if err != nil {
				return err
			}
			if sess, err := store.LoadSession(dir); err == nil {
				// Best effort: the local cache is cleared even if revocation fails.
				_ = gw.SignOut(cmd.Context(), sess.AccessToken)
			}
			if err := store.ClearSession(dir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := app.connect(cmd.Context())
			if err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), sess.User, app.PrettyJSON)
		},
	}
}

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [toggle]",
		Short: "Show or toggle the persisted theme (dark|light)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.configDir()
			if err != nil {
				return err
			}
			theme := store.LoadTheme(dir)
			if len(args) == 1 {
				if args[0] != "toggle" {
					return fmt.Errorf("unknown argument: %s", args[0])
				}
				if theme == store.ThemeDark {
					theme = store.ThemeLight
				} else {
					theme = store.ThemeDark
				}
				if err := store.SaveTheme(dir, theme); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		},
	}
	return cmd
}
