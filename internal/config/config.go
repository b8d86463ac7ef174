// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the service settings. Every field has a sane default so the
// server runs with an empty environment.
type Config struct {
	Host           string        `envconfig:"HOST" default:""`
	Port           int           `envconfig:"PORT" default:"8780" validate:"min=1,max=65535"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"20971520" validate:"min=1"`
	TempDir        string        `envconfig:"TEMP_DIR" default:""`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT" default:"30s" validate:"min=1000000000"`
	WriteTimeout   time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s" validate:"min=1000000000"`
}

// Load reads WAVIZ_-prefixed environment variables and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("waviz", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
