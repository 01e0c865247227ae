// Package config loads taskdeck settings from defaults, an optional TOML
// file and TASKDECK_* environment variables. Command-line flags are applied
// on top by the caller before Finalize.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sadopc/taskdeck/internal/store"
)

const (
	DefaultView         = "today"
	DefaultPriority     = "medium"
	DefaultUpcomingDays = 30
	DefaultLogLevel     = "info"
)

// Views lists the accepted values for View, in tab order.
var Views = []string{"today", "upcoming", "projects", "settings"}

var logLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	View            string `toml:"view"`
	DefaultPriority string `toml:"default_priority"`
	UpcomingDays    int    `toml:"upcoming_days"`
	LogFile         string `toml:"log_file"`
	LogLevel        string `toml:"log_level"`
	ExportDir       string `toml:"export_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		View:            DefaultView,
		DefaultPriority: DefaultPriority,
		UpcomingDays:    DefaultUpcomingDays,
		LogLevel:        DefaultLogLevel,
		ExportDir:       home,
	}
}

// DefaultPath returns <user config dir>/taskdeck/config.toml.
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "taskdeck", "config.toml"), nil
}

// Load applies defaults, then the TOML file, then the environment. An empty
// path means DefaultPath, which may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	if err := loadFromEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKDECK_VIEW"); v != "" {
		cfg.View = v
	}
	if v := os.Getenv("TASKDECK_DEFAULT_PRIORITY"); v != "" {
		cfg.DefaultPriority = v
	}
	if v := os.Getenv("TASKDECK_UPCOMING_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TASKDECK_UPCOMING_DAYS: %w", err)
		}
		cfg.UpcomingDays = n
	}
	if v := os.Getenv("TASKDECK_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TASKDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKDECK_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
	return nil
}

// Finalize normalizes values, expands ~ in paths and validates the result.
func (c *Config) Finalize() error {
	c.View = strings.ToLower(strings.TrimSpace(c.View))
	c.DefaultPriority = strings.ToLower(strings.TrimSpace(c.DefaultPriority))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFile = expandPath(c.LogFile)
	c.ExportDir = expandPath(c.ExportDir)
	return c.Validate()
}

func (c Config) Validate() error {
	if !contains(Views, c.View) {
		return fmt.Errorf("invalid view %q (want one of %s)", c.View, strings.Join(Views, ", "))
	}
	if _, err := store.ParsePriority(c.DefaultPriority); err != nil {
		return fmt.Errorf("default_priority: %w", err)
	}
	if c.UpcomingDays < 1 {
		return fmt.Errorf("upcoming_days must be at least 1, got %d", c.UpcomingDays)
	}
	if !contains(logLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q (want one of %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	return nil
}

// Priority returns DefaultPriority as a store.Priority, falling back to medium.
func (c Config) Priority() store.Priority {
	p, err := store.ParsePriority(c.DefaultPriority)
	if err != nil {
		return store.PriorityMedium
	}
	return p
}

// ViewIndex returns the tab index of View, or 0 when unknown.
func (c Config) ViewIndex() int {
	for i, v := range Views {
		if v == c.View {
			return i
		}
	}
	return 0
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// expandPath expands ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
