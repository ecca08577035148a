// Package config handles configuration loading from files, defaults, and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rmoreno/timecard/internal/clock"
	"github.com/rmoreno/timecard/internal/timesheet"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
}

// ScheduleConfig holds timezone and default-time settings.
type ScheduleConfig struct {
	// Timezone is the IANA zone all calendar-day bucketing happens in. Day
	// keys must not drift with the machine the form is filled out from.
	Timezone string `toml:"timezone"`
	// DebounceMS is the trailing-edge delay before cross-record checks run.
	DebounceMS int `toml:"debounce_ms"`
	// WeekdayDefaults and WeekendDefaults are the bulk "apply default times"
	// templates, written in the same free-text form the fields accept.
	WeekdayDefaults []SlotDefault `toml:"weekday_defaults"`
	WeekendDefaults []SlotDefault `toml:"weekend_defaults"`
}

// SlotDefault is one default-time template entry.
type SlotDefault struct {
	Category string `toml:"category"`
	From     string `toml:"from"` // e.g. "3:00 PM"
	To       string `toml:"to"`   // e.g. "4:00 PM"
}

// StorageConfig holds database settings for the saved-record store.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			Timezone:   "America/New_York",
			DebounceMS: 300,
			WeekdayDefaults: []SlotDefault{
				{Category: "primary", From: "3:00 PM", To: "4:00 PM"},
				{Category: "supervision", From: "4:00 PM", To: "5:00 PM"},
			},
			WeekendDefaults: []SlotDefault{
				{Category: "primary", From: "9:00 AM", To: "10:00 AM"},
			},
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timecard.db"
	}
	return filepath.Join(home, ".local", "share", "timecard", "timecard.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timecard", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and
// env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path. It starts with
// defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

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
	if v := os.Getenv("TIMECARD_TIMEZONE"); v != "" {
		cfg.Schedule.Timezone = v
	}
	if v := os.Getenv("TIMECARD_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
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
	if c.Schedule.Timezone == "" {
		return errors.New("timezone must be set")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Schedule.Timezone, err)
	}
	if c.Schedule.DebounceMS < 0 {
		return errors.New("debounce_ms cannot be negative")
	}
	if err := validateDefaults("weekday_defaults", c.Schedule.WeekdayDefaults); err != nil {
		return err
	}
	if err := validateDefaults("weekend_defaults", c.Schedule.WeekendDefaults); err != nil {
		return err
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

func validateDefaults(field string, defaults []SlotDefault) error {
	for _, d := range defaults {
		if d.Category == "" {
			return fmt.Errorf("%s: category must be set", field)
		}
		tmpl, err := parseDefault(d)
		if err != nil {
			return fmt.Errorf("%s (%s): %w", field, d.Category, err)
		}
		if err := timesheet.ValidateRange(&tmpl.From, &tmpl.To); err != nil {
			return fmt.Errorf("%s (%s): %w", field, d.Category, err)
		}
	}
	return nil
}

func parseDefault(d SlotDefault) (timesheet.DefaultTimes, error) {
	from, err := clock.Parse(d.From, clock.AM)
	if err != nil {
		return timesheet.DefaultTimes{}, fmt.Errorf("from time %q: %w", d.From, err)
	}
	to, err := clock.Parse(d.To, clock.AM)
	if err != nil {
		return timesheet.DefaultTimes{}, fmt.Errorf("to time %q: %w", d.To, err)
	}
	return timesheet.DefaultTimes{
		Category: timesheet.Category(d.Category),
		From:     from,
		To:       to,
	}, nil
}

// Zone loads the configured business timezone.
func (c *Config) Zone() (*time.Location, error) {
	return time.LoadLocation(c.Schedule.Timezone)
}

// Debounce returns the configured cross-record check delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Schedule.DebounceMS) * time.Millisecond
}

// WeekdayTemplates returns the parsed weekday default-time templates.
func (c *Config) WeekdayTemplates() ([]timesheet.DefaultTimes, error) {
	return parseTemplates(c.Schedule.WeekdayDefaults)
}

// WeekendTemplates returns the parsed weekend default-time templates.
func (c *Config) WeekendTemplates() ([]timesheet.DefaultTimes, error) {
	return parseTemplates(c.Schedule.WeekendDefaults)
}

func parseTemplates(defaults []SlotDefault) ([]timesheet.DefaultTimes, error) {
	out := make([]timesheet.DefaultTimes, 0, len(defaults))
	for _, d := range defaults {
		tmpl, err := parseDefault(d)
		if err != nil {
			return nil, err
		}
		out = append(out, tmpl)
	}
	return out, nil
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
