package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime settings.
// Environment variables are read with the WU_ prefix, e.g. WU_DATA_DIR.
type Config struct {
	// DataDir holds the database and the TUI log. Empty means ~/.wu.
	DataDir string `envconfig:"DATA_DIR" default:""`
	DBFile  string `envconfig:"DB_FILE" default:"wu.db"`
	LogFile string `envconfig:"LOG_FILE" default:"wu.log"`

	// PollInterval is how often the alarm worker looks for due alarms.
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"5s"`

	// ExactAlarms grants the exact-alarm capability. When false every new
	// reminder is refused.
	ExactAlarms bool `envconfig:"EXACT_ALARMS" default:"true"`

	// Notifications grants the notification capability. When false fired
	// reminders are dropped silently.
	Notifications bool `envconfig:"NOTIFICATIONS" default:"true"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// New reads the configuration from the environment.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("WU", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveDefaults fills in the data directory and checks the values.
func (c *Config) ResolveDefaults() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot locate home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".wu")
	}
	if c.DBFile == "" {
		return fmt.Errorf("WU_DB_FILE must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("WU_POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	return nil
}

// DBPath is the full path of the database file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFile)
}

// LogPath is the full path of the TUI log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, c.LogFile)
}
