package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/run"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Calendar.DefaultView != "month" {
		t.Errorf("expected default_view month, got %s", cfg.Calendar.DefaultView)
	}
	if cfg.Calendar.ShiftStart != "06:00" {
		t.Errorf("expected shift_start 06:00, got %s", cfg.Calendar.ShiftStart)
	}
	if cfg.Calendar.ShiftEnd != "22:00" {
		t.Errorf("expected shift_end 22:00, got %s", cfg.Calendar.ShiftEnd)
	}
	if len(cfg.Calendar.Workdays) != 5 {
		t.Errorf("expected 5 workdays, got %d", len(cfg.Calendar.Workdays))
	}
	if cfg.LLM.Provider != "copilot" {
		t.Errorf("expected provider copilot, got %s", cfg.LLM.Provider)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %s", cfg.UI.Theme)
	}
	if cfg.Log.File != "" {
		t.Errorf("expected logging disabled by default, got file %q", cfg.Log.File)
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
	if cfg.View() != calendar.ViewMonth {
		t.Errorf("expected default view, got %s", cfg.View())
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[calendar]
default_view = "week"
status_filter = "material_shortage"
workdays = ["monday", "tuesday", "wednesday", "thursday", "friday", "saturday"]
shift_start = "05:30"
shift_end = "21:00"

[llm]
provider = "ollama"
model = "llama3"
base_url = "http://localhost:11435"

[storage]
db_path = "/tmp/test.db"

[ui]
theme = "latte"

[log]
level = "debug"
file = "/tmp/runcal.log"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.View() != calendar.ViewWeek {
		t.Errorf("expected view week, got %s", cfg.View())
	}
	if cfg.StatusFilter() != run.StatusMaterialShortage {
		t.Errorf("expected filter Material Shortage, got %q", cfg.StatusFilter())
	}
	if len(cfg.Calendar.Workdays) != 6 {
		t.Errorf("expected 6 workdays, got %d", len(cfg.Calendar.Workdays))
	}
	if cfg.Calendar.ShiftStart != "05:30" {
		t.Errorf("expected shift_start 05:30, got %s", cfg.Calendar.ShiftStart)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", cfg.UI.Theme)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/runcal.log" {
		t.Errorf("expected debug log at /tmp/runcal.log, got %s at %s", cfg.Log.Level, cfg.Log.File)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[calendar\nworkdays = "), 0o644); err != nil {
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
[calendar]
default_view = "week"
shift_end = "20:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("RUNCAL_DEFAULT_VIEW", "day")
	t.Setenv("RUNCAL_STATUS_FILTER", "On Track")
	t.Setenv("RUNCAL_WORKDAYS", "saturday,sunday")
	t.Setenv("RUNCAL_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("RUNCAL_DB_PATH", "/tmp/env.db")
	t.Setenv("RUNCAL_LOG_LEVEL", "warn")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.View() != calendar.ViewDay {
		t.Errorf("expected view day from env, got %s", cfg.View())
	}
	if cfg.StatusFilter() != run.StatusOnTrack {
		t.Errorf("expected filter On Track from env, got %q", cfg.StatusFilter())
	}
	if len(cfg.Calendar.Workdays) != 2 {
		t.Errorf("expected 2 workdays from env, got %v", cfg.Calendar.Workdays)
	}
	// File value kept when no env override
	if cfg.Calendar.ShiftEnd != "20:00" {
		t.Errorf("expected shift_end 20:00 from file, got %s", cfg.Calendar.ShiftEnd)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini from env, got %s", cfg.LLM.Model)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected db_path from env, got %s", cfg.Storage.DBPath)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn from env, got %s", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown view", func(c *Config) { c.Calendar.DefaultView = "year" }},
		{"unknown status filter", func(c *Config) { c.Calendar.StatusFilter = "delayed" }},
		{"shift start format", func(c *Config) { c.Calendar.ShiftStart = "6:00" }},
		{"shift end out of range", func(c *Config) { c.Calendar.ShiftEnd = "25:00" }},
		{"shift start after end", func(c *Config) { c.Calendar.ShiftStart = "23:00" }},
		{"invalid workday", func(c *Config) { c.Calendar.Workdays = []string{"monday", "funday"} }},
		{"empty workdays", func(c *Config) { c.Calendar.Workdays = nil }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
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
		{"~/runcal.db", filepath.Join(home, "runcal.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
		{"", ""},
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
	cfg.Calendar.DefaultView = "day"
	cfg.Calendar.StatusFilter = "Pending Approval"
	cfg.Calendar.Workdays = []string{"monday", "tuesday", "wednesday", "thursday"}
	cfg.Storage.DBPath = filepath.Join(tmpDir, "runcal.db")

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.View() != calendar.ViewDay {
		t.Errorf("expected view day, got %s", loaded.View())
	}
	if loaded.StatusFilter() != run.StatusPendingApproval {
		t.Errorf("expected filter Pending Approval, got %q", loaded.StatusFilter())
	}
	if len(loaded.Calendar.Workdays) != 4 {
		t.Errorf("expected 4 workdays, got %d", len(loaded.Calendar.Workdays))
	}
}
