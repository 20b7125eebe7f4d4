// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/runcal/internal/calendar"
	"github.com/javiermolinar/runcal/internal/run"
)

// Config holds the application configuration.
type Config struct {
	Calendar CalendarConfig `toml:"calendar"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// CalendarConfig holds calendar view and plant calendar settings.
type CalendarConfig struct {
	DefaultView  string   `toml:"default_view"`  // "month", "week" or "day"
	StatusFilter string   `toml:"status_filter"` // empty shows every status
	Workdays     []string `toml:"workdays"`      // e.g., ["monday", "tuesday", ...]
	ShiftStart   string   `toml:"shift_start"`   // e.g., "06:00"
	ShiftEnd     string   `toml:"shift_end"`     // e.g., "22:00"
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// LogConfig holds log sink settings. An empty file disables logging.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Calendar: CalendarConfig{
			DefaultView: "month",
			Workdays:    []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
			ShiftStart:  "06:00",
			ShiftEnd:    "22:00",
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "runcal.db"
	}
	return filepath.Join(home, ".local", "share", "runcal", "runcal.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "runcal", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	// Calendar overrides
	if v := os.Getenv("RUNCAL_DEFAULT_VIEW"); v != "" {
		cfg.Calendar.DefaultView = v
	}
	if v, ok := os.LookupEnv("RUNCAL_STATUS_FILTER"); ok {
		cfg.Calendar.StatusFilter = v
	}
	if v := os.Getenv("RUNCAL_WORKDAYS"); v != "" {
		cfg.Calendar.Workdays = strings.Split(v, ",")
	}
	if v := os.Getenv("RUNCAL_SHIFT_START"); v != "" {
		cfg.Calendar.ShiftStart = v
	}
	if v := os.Getenv("RUNCAL_SHIFT_END"); v != "" {
		cfg.Calendar.ShiftEnd = v
	}

	// LLM overrides
	if v := os.Getenv("RUNCAL_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("RUNCAL_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("RUNCAL_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("RUNCAL_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("RUNCAL_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	// Log overrides
	if v := os.Getenv("RUNCAL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("RUNCAL_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := calendar.ParseView(c.Calendar.DefaultView); err != nil {
		return fmt.Errorf("default_view: %w", err)
	}
	if c.Calendar.StatusFilter != "" {
		if _, err := run.ParseStatus(c.Calendar.StatusFilter); err != nil {
			return fmt.Errorf("status_filter: %w", err)
		}
	}

	if err := validateTime(c.Calendar.ShiftStart, "shift_start"); err != nil {
		return err
	}
	if err := validateTime(c.Calendar.ShiftEnd, "shift_end"); err != nil {
		return err
	}
	if c.Calendar.ShiftStart >= c.Calendar.ShiftEnd {
		return errors.New("shift_start must be before shift_end")
	}

	if len(c.Calendar.Workdays) == 0 {
		return errors.New("at least one workday must be configured")
	}
	for _, day := range c.Calendar.Workdays {
		if !isValidWeekday(day) {
			return fmt.Errorf("invalid workday: %s", day)
		}
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	if !isDigits(t[0:2]) || !isDigits(t[3:5]) || t[0:2] > "23" || t[3:5] > "59" {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

func isValidWeekday(day string) bool {
	return validWeekdays[strings.ToLower(strings.TrimSpace(day))]
}

// View returns the configured default view.
func (c *Config) View() calendar.View {
	v, _ := calendar.ParseView(c.Calendar.DefaultView)
	return v
}

// StatusFilter returns the configured status filter; empty means all.
func (c *Config) StatusFilter() run.Status {
	if c.Calendar.StatusFilter == "" {
		return ""
	}
	s, _ := run.ParseStatus(c.Calendar.StatusFilter)
	return s
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
