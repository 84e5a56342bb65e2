// Package config handles loading of application settings from environment
// variables (populated from a .env file in main).
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all settings for the application. Every field can be set via
// environment variable and has a working default for local use.
type Config struct {
	Env      string `env:"DOCFLOW_ENV" env-default:"production"`
	LogLevel string `env:"DOCFLOW_LOG_LEVEL" env-default:"info"`

	// MetadataPath is the sqlite file holding pipeline definitions and
	// execution records.
	MetadataPath string `env:"DOCFLOW_DB_PATH" env-default:"docflow.db"`

	// Worker pool settings. A failed run is re-enqueued up to TaskRetries
	// times, waiting RetryDelay between attempts.
	WorkerCount int           `env:"DOCFLOW_WORKER_COUNT" env-default:"4"`
	TaskRetries int           `env:"DOCFLOW_TASK_RETRIES" env-default:"3"`
	RetryDelay  time.Duration `env:"DOCFLOW_RETRY_DELAY" env-default:"60s"`
	QueueSize   int           `env:"DOCFLOW_QUEUE_SIZE" env-default:"64"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return &cfg, nil
}
