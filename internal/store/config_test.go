package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDir_EnvOverride(t *testing.T) {
	t.Setenv("FOREMAN_CONFIG_DIR", "/tmp/foreman-test")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("config dir: %v", err)
	}
	if dir != "/tmp/foreman-test" {
		t.Fatalf("expected env override, got %q", dir)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Config{URL: "https://xyz.supabase.co", AnonKey: "anon", Theme: ThemeLight}
	if err := SaveConfig(dir, want); err != nil {
		t.Fatalf("save config: %v", err)
	}
	if got := LoadConfig(dir); got != want {
		t.Fatalf("config round trip: got %+v want %+v", got, want)
	}
}

func TestLoadConfig_MissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	if got := LoadConfig(dir); got != (Config{}) {
		t.Fatalf("missing file should read as empty, got %+v", got)
	}

	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("{corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := LoadConfig(dir); got != (Config{}) {
		t.Fatalf("corrupt file should read as empty, got %+v", got)
	}
}

func TestLoadTheme_DefaultsToDark(t *testing.T) {
	dir := t.TempDir()
	if got := LoadTheme(dir); got != ThemeDark {
		t.Fatalf("expected dark default, got %s", got)
	}

	if err := SaveConfig(dir, Config{Theme: "mauve"}); err != nil {
		t.Fatal(err)
	}
	if got := LoadTheme(dir); got != ThemeDark {
		t.Fatalf("unknown theme value should fall back to dark, got %s", got)
	}
}

func TestSaveTheme_PreservesGatewaySettings(t *testing.T) {
	dir := t.TempDir()
	if err := SaveConfig(dir, Config{URL: "https://xyz.supabase.co", AnonKey: "anon"}); err != nil {
		t.Fatal(err)
	}
	if err := SaveTheme(dir, ThemeLight); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	got := LoadConfig(dir)
	if got.URL != "https://xyz.supabase.co" || got.AnonKey != "anon" {
		t.Fatalf("theme write clobbered gateway settings: %+v", got)
	}
	if got.Theme != ThemeLight {
		t.Fatalf("expected light theme persisted, got %s", got.Theme)
	}
}

func TestGatewayConfig_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	if err := SaveConfig(dir, Config{URL: "https://file.example", AnonKey: "file-key"}); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOREMAN_URL", "https://env.example")
	t.Setenv("FOREMAN_ANON_KEY", "")

	url, key, err := GatewayConfig(dir)
	if err != nil {
		t.Fatalf("gateway config: %v", err)
	}
	if url != "https://env.example" {
		t.Fatalf("expected env url to win, got %q", url)
	}
	if key != "file-key" {
		t.Fatalf("expected file key fallback, got %q", key)
	}
}

func TestGatewayConfig_Unconfigured(t *testing.T) {
	t.Setenv("FOREMAN_URL", "")
	t.Setenv("FOREMAN_ANON_KEY", "")
	if _, _, err := GatewayConfig(t.TempDir()); err == nil {
		t.Fatal("expected error when nothing is configured")
	}
}
