package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Schedule.SnapMinutes != 15 {
		t.Errorf("expected snap_minutes 15, got %d", cfg.Schedule.SnapMinutes)
	}
	if cfg.UI.Color != ColorAuto {
		t.Errorf("expected color auto, got %s", cfg.UI.Color)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Log.Level)
	}
	if !strings.HasSuffix(cfg.Storage.DBPath, "kronos.db") {
		t.Errorf("expected default db path to end in kronos.db, got %s", cfg.Storage.DBPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.SnapMinutes != 15 {
		t.Errorf("expected default snap_minutes, got %d", cfg.Schedule.SnapMinutes)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[storage]
db_path = "/tmp/test.db"

[schedule]
snap_minutes = 30

[ui]
color = "never"

[log]
level = "debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Schedule.SnapMinutes != 30 {
		t.Errorf("expected snap_minutes 30, got %d", cfg.Schedule.SnapMinutes)
	}
	if cfg.UI.Color != ColorNever {
		t.Errorf("expected color never, got %s", cfg.UI.Color)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel())
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[ui]\ncolor = \"always\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UI.Color != ColorAlways {
		t.Errorf("expected color always, got %s", cfg.UI.Color)
	}
	if cfg.Schedule.SnapMinutes != 15 {
		t.Errorf("expected default snap_minutes, got %d", cfg.Schedule.SnapMinutes)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[storage\ndb_path = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
snap_minutes = 30

[storage]
db_path = "/tmp/file.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("KRONOS_DB_PATH", "/tmp/env.db")
	t.Setenv("KRONOS_SNAP_MINUTES", "5")
	t.Setenv("KRONOS_COLOR", "never")
	t.Setenv("KRONOS_LOG_LEVEL", "error")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected env db_path, got %s", cfg.Storage.DBPath)
	}
	if cfg.Schedule.SnapMinutes != 5 {
		t.Errorf("expected env snap_minutes 5, got %d", cfg.Schedule.SnapMinutes)
	}
	if cfg.UI.Color != ColorNever {
		t.Errorf("expected env color never, got %s", cfg.UI.Color)
	}
	if cfg.LogLevel() != slog.LevelError {
		t.Errorf("expected error level, got %v", cfg.LogLevel())
	}
}

func TestLoadFrom_InvalidEnvSnap(t *testing.T) {
	t.Setenv("KRONOS_SNAP_MINUTES", "quarter")

	_, err := LoadFrom("/nonexistent/path/config.toml")
	if err == nil {
		t.Fatal("expected error for non-numeric KRONOS_SNAP_MINUTES")
	}
	if !strings.Contains(err.Error(), "KRONOS_SNAP_MINUTES") {
		t.Errorf("error should name the variable, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"zero snap", func(c *Config) { c.Schedule.SnapMinutes = 0 }},
		{"snap over an hour", func(c *Config) { c.Schedule.SnapMinutes = 61 }},
		{"unknown color", func(c *Config) { c.UI.Color = "sometimes" }},
		{"unknown level", func(c *Config) { c.Log.Level = "chatty" }},
		{"empty level", func(c *Config) { c.Log.Level = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelWarn},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			cfg := Default()
			cfg.Log.Level = tc.input
			if got := cfg.LogLevel(); got != tc.want {
				t.Errorf("LogLevel() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"~", home},
		{"~other/test.db", "~other/test.db"},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.Storage.DBPath = filepath.Join(tmpDir, "kronos.db")
	cfg.Schedule.SnapMinutes = 10
	cfg.UI.Color = ColorAlways

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Storage.DBPath != cfg.Storage.DBPath {
		t.Errorf("expected db_path %s, got %s", cfg.Storage.DBPath, loaded.Storage.DBPath)
	}
	if loaded.Schedule.SnapMinutes != 10 {
		t.Errorf("expected snap_minutes 10, got %d", loaded.Schedule.SnapMinutes)
	}
	if loaded.UI.Color != ColorAlways {
		t.Errorf("expected color always, got %s", loaded.UI.Color)
	}
}
