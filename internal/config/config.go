package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sadopc/dayplan/internal/timer"
)

// Config represents the complete dayplan configuration
type Config struct {
	Timer   TimerConfig   `mapstructure:"timer"`
	Tasks   TasksConfig   `mapstructure:"tasks"`
	Export  ExportConfig  `mapstructure:"export"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TimerConfig controls the countdown view
type TimerConfig struct {
	// DefaultMinutes prefills the duration form (1-60, default: 25)
	DefaultMinutes int `mapstructure:"default_minutes"`
	// TickMs is how often the UI recomputes the remaining time (default: 1000)
	TickMs int `mapstructure:"tick_ms"`
	// Bell rings the terminal bell when a countdown expires (default: true)
	Bell bool `mapstructure:"bell"`
}

// TasksConfig controls the task list view
type TasksConfig struct {
	// DefaultListFormat is the Go time layout used to prefill new list keys
	DefaultListFormat string `mapstructure:"default_list_format"`
}

// ExportConfig controls where exported task lists are written
type ExportConfig struct {
	// Dir is the output directory. Empty means the user's home directory.
	// Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir holds dayplan.log. Empty means ConfigDir().
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			DefaultMinutes: 25,
			TickMs:         1000,
			Bell:           true,
		},
		Tasks: TasksConfig{
			DefaultListFormat: "2006-01-02",
		},
		Export: ExportConfig{
			Dir: "",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("timer.default_minutes", defaults.Timer.DefaultMinutes)
	viper.SetDefault("timer.tick_ms", defaults.Timer.TickMs)
	viper.SetDefault("timer.bell", defaults.Timer.Bell)

	viper.SetDefault("tasks.default_list_format", defaults.Tasks.DefaultListFormat)

	viper.SetDefault("export.dir", defaults.Export.Dir)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the current viper state into a Config and validates it
func Load() (*Config, error) {
	cfg := Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if err := timer.ValidateMinutes(c.Timer.DefaultMinutes); err != nil {
		return fmt.Errorf("timer.default_minutes: %w", err)
	}
	if c.Timer.TickMs < 50 || c.Timer.TickMs > 60_000 {
		return fmt.Errorf("timer.tick_ms: %d out of range [50, 60000]", c.Timer.TickMs)
	}
	if strings.TrimSpace(c.Tasks.DefaultListFormat) == "" {
		return fmt.Errorf("tasks.default_list_format: must not be empty")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	return nil
}

// TickInterval returns the UI tick as a time.Duration
func (c *TimerConfig) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// ResolveDir returns the export directory, expanding ~ and defaulting to
// the home directory.
func (e *ExportConfig) ResolveDir() string {
	return expandHome(e.Dir)
}

// ResolveDir returns the log directory, defaulting to ConfigDir().
func (l *LoggingConfig) ResolveDir() string {
	if l.Dir == "" {
		return ConfigDir()
	}
	return expandHome(l.Dir)
}

func expandHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	switch {
	case path == "" || path == "~":
		return home
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigDir returns the dayplan configuration directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dayplan")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".dayplan")
	}
	return filepath.Join(home, ".config", "dayplan")
}
