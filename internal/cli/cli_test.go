package cli

import (
	"io"
	"strings"
	"testing"
)

func TestParseID(t *testing.T) {
	if id, err := parseID(" 42 "); err != nil || id != 42 {
		t.Fatalf("parseID(\" 42 \") = %d, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "1.5"} {
		if _, err := parseID(bad); err == nil {
			t.Errorf("parseID(%q): expected error", bad)
		}
	}
}

func TestParseDueDate(t *testing.T) {
	if got, err := parseDueDate("2024-03-13"); err != nil || got != "2024-03-13" {
		t.Fatalf("valid date: %q, %v", got, err)
	}
	if got, err := parseDueDate("  "); err != nil || got != "" {
		t.Fatalf("blank date should pass through empty: %q, %v", got, err)
	}
	for _, bad := range []string{"2024-13-01", "03/13/2024", "tomorrow"} {
		if _, err := parseDueDate(bad); err == nil {
			t.Errorf("parseDueDate(%q): expected error", bad)
		}
	}
}

func TestParseDueTime(t *testing.T) {
	if got, err := parseDueTime("09:30"); err != nil || got != "09:30" {
		t.Fatalf("valid time: %q, %v", got, err)
	}
	if got, err := parseDueTime(""); err != nil || got != "" {
		t.Fatalf("blank time should pass through empty: %q, %v", got, err)
	}
	for _, bad := range []string{"25:00", "9:30 PM", "noon"} {
		if _, err := parseDueTime(bad); err == nil {
			t.Errorf("parseDueTime(%q): expected error", bad)
		}
	}
}

func TestParseDateRange(t *testing.T) {
	for _, ok := range []string{"all", "today", "tomorrow", "this-week", "overdue"} {
		if _, err := parseDateRange(ok); err != nil {
			t.Errorf("parseDateRange(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"", "overdu", "next-week", "Today"} {
		if _, err := parseDateRange(bad); err == nil {
			t.Errorf("parseDateRange(%q): expected error", bad)
		}
	}
}

func TestListCommandsRejectBadFilterValues(t *testing.T) {
	t.Setenv("FOREMAN_CONFIG_DIR", t.TempDir())
	cases := [][]string{
		{"projects", "list", "--status", "leed"},
		{"projects", "list", "--tasks-due", "next-week"},
		{"tasks", "list", "--due", "overdu"},
		{"tasks", "list", "--priority", "4"},
		{"tasks", "list", "--project", "abc"},
	}
	for _, args := range cases {
		root := NewRootCmd()
		root.SetArgs(args)
		root.SetOut(io.Discard)
		root.SetErr(io.Discard)
		err := root.Execute()
		if err == nil || !strings.Contains(err.Error(), "invalid") {
			t.Errorf("%v: expected a validation error, got %v", args, err)
		}
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"configure", "login", "signup", "logout", "whoami", "theme", "projects", "tasks"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("missing subcommand %q (%v)", name, err)
		}
	}
}
