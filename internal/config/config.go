// Package config loads runtime settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrMissingToken indicates no integration token is configured.
	ErrMissingToken = errors.New("NOTION_TOKEN is not set")

	// ErrMissingDatabase indicates a target database id is not configured.
	ErrMissingDatabase = errors.New("projects and tasks database ids must be set")
)

// Config holds all runtime settings.
type Config struct {
	Token      string `env:"NOTION_TOKEN"`
	ProjectsDB string `env:"PLANSYNC_PROJECTS_DB"`
	TasksDB    string `env:"PLANSYNC_TASKS_DB"`

	APIURL       string        `env:"PLANSYNC_API_URL"`
	RateLimit    time.Duration `env:"PLANSYNC_RATE_LIMIT" envDefault:"334ms"`
	MaxRetries   int           `env:"PLANSYNC_MAX_RETRIES" envDefault:"3"`
	RetryDelay   time.Duration `env:"PLANSYNC_RETRY_DELAY" envDefault:"1s"`
	Verify       bool          `env:"PLANSYNC_VERIFY" envDefault:"false"`
	LogCalls     bool          `env:"PLANSYNC_LOG_CALLS" envDefault:"false"`
	JournalPath  string        `env:"PLANSYNC_DB" envDefault:"plansync.db"`
	HistoryLimit int           `env:"PLANSYNC_HISTORY_LIMIT" envDefault:"20"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	// Best effort: a missing .env file is the common case.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// ValidateRemote checks the settings a sync against the workspace needs.
// Local commands (inspect, export, history) skip this.
func (c *Config) ValidateRemote() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.ProjectsDB == "" || c.TasksDB == "" {
		return ErrMissingDatabase
	}
	return nil
}
