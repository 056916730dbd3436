// Package config loads process configuration from FAMILYTREE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Storage selects and configures the document backend.
type Storage struct {
	Driver     string `env:"FAMILYTREE_STORAGE_DRIVER" envDefault:"file" validate:"oneof=file memory sqlite postgres blob"`
	FileRoot   string `env:"FAMILYTREE_FILE_ROOT" envDefault:"."`
	SQLitePath string `env:"FAMILYTREE_SQLITE_PATH" envDefault:"familytree.db"`
	// PostgresDSN is required only when Driver is postgres.
	PostgresDSN string `env:"FAMILYTREE_POSTGRES_DSN" validate:"required_if=Driver postgres"`
	Blob        Blob
}

// Blob configures the blob document backend.
type Blob struct {
	Driver      string `env:"FAMILYTREE_BLOB_DRIVER" envDefault:"fs" validate:"oneof=fs s3 memory"`
	FSRoot      string `env:"FAMILYTREE_BLOB_FS_ROOT" envDefault:"./blobdata"`
	Prefix      string `env:"FAMILYTREE_BLOB_PREFIX"`
	S3Bucket    string `env:"FAMILYTREE_BLOB_S3_BUCKET" validate:"required_if=Driver s3"`
	S3Region    string `env:"FAMILYTREE_BLOB_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"FAMILYTREE_BLOB_S3_ENDPOINT" validate:"omitempty,url"`
	S3PathStyle bool   `env:"FAMILYTREE_BLOB_S3_PATH_STYLE"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `env:"FAMILYTREE_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"FAMILYTREE_LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
}

// Config is the full process configuration.
type Config struct {
	Storage Storage
	Logging Logging
	Metrics string `env:"FAMILYTREE_METRICS" envDefault:"none" validate:"oneof=none expvar prometheus"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment, normalises enumerated values to lower case and
// validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Storage.Blob.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Blob.Driver))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Metrics = strings.ToLower(strings.TrimSpace(c.Metrics))
}

// Validate checks field constraints and reports every failing field in one error.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
