package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Theme preference values. Stored as a single key in the config file, read at
// startup and written on every toggle.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	configFileName = "config.json"
)

// Config is the local configuration file under the foreman config dir.
type Config struct {
	// URL is the gateway base URL (e.g. https://xyz.supabase.co).
	URL string `json:"url,omitempty"`
	// AnonKey is the gateway's public anon key.
	AnonKey string `json:"anonKey,omitempty"`
	// Theme is "dark" or "light"; missing means dark.
	Theme string `json:"theme,omitempty"`
}

// ConfigDir resolves the foreman config directory.
//
// FOREMAN_CONFIG_DIR overrides it (keeps unit tests from touching ~/.foreman).
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("FOREMAN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".foreman"), nil
}

// LoadConfig reads the config file in dir. A missing or corrupted file is
// treated as empty — callers fall back to env vars and defaults.
func LoadConfig(dir string) Config {
	var cfg Config
	b, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// SaveConfig writes the config file, creating dir if needed.
func SaveConfig(dir string, cfg Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, configFileName), b, 0o644)
}

// LoadTheme returns the persisted theme preference, defaulting to dark.
func LoadTheme(dir string) string {
	cfg := LoadConfig(dir)
	if cfg.Theme == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// SaveTheme persists the theme preference, leaving the rest of the config
// untouched.
func SaveTheme(dir, theme string) error {
	cfg := LoadConfig(dir)
	cfg.Theme = theme
	return SaveConfig(dir, cfg)
}

// GatewayConfig resolves the gateway URL and anon key from env (FOREMAN_URL,
// FOREMAN_ANON_KEY) with the config file as fallback.
func GatewayConfig(dir string) (url, anonKey string, err error) {
	cfg := LoadConfig(dir)
	url = strings.TrimSpace(os.Getenv("FOREMAN_URL"))
	if url == "" {
		url = cfg.URL
	}
	anonKey = strings.TrimSpace(os.Getenv("FOREMAN_ANON_KEY"))
	if anonKey == "" {
		anonKey = cfg.AnonKey
	}
	if url == "" || anonKey == "" {
		return "", "", errors.New("gateway not configured: set FOREMAN_URL and FOREMAN_ANON_KEY or run `foreman configure`")
	}
	return url, anonKey, nil
}
