package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/openfroyo/vpkg/pkg/auxlib"
	"github.com/openfroyo/vpkg/pkg/plugins"
	"github.com/openfroyo/vpkg/pkg/telemetry"
)

// Config is the vpkg configuration file.
type Config struct {
	// Logging configures the CLI logger.
	Logging telemetry.LoggingConfig `yaml:"logging"`

	// Tracing configures OpenTelemetry tracing of detection runs.
	Tracing telemetry.TracingConfig `yaml:"tracing"`

	// Metrics configures the Prometheus endpoint.
	Metrics telemetry.MetricsConfig `yaml:"metrics"`

	// Store configures snapshot persistence.
	Store StoreConfig `yaml:"store"`

	// Facts pins host facts that the collector cannot (or should not) discover.
	Facts plugins.HostFacts `yaml:"facts"`

	// Overrides maps an override key (cuda, glibc, osx, ...) to a replacement
	// version. A null value suppresses the virtual package.
	Overrides map[string]*string `yaml:"overrides" validate:"dive,keys,required,alphanum,endkeys"`
}

// StoreConfig configures the SQLite snapshot store.
type StoreConfig struct {
	// Enabled turns on snapshot persistence for every detection run.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `yaml:"path" validate:"required_if=Enabled true"`

	// Retention is how long snapshots are kept by "snapshots prune".
	Retention time.Duration `yaml:"retention" validate:"gte=0"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	tel := telemetry.DefaultConfig()
	return &Config{
		Logging: tel.Logging,
		Tracing: tel.Tracing,
		Metrics: tel.Metrics,
		Store: StoreConfig{
			Enabled:   false,
			Path:      DefaultStorePath(),
			Retention: 30 * 24 * time.Hour,
		},
		Overrides: make(map[string]*string),
	}
}

// DefaultStorePath returns ~/.vpkg/snapshots.db, or a relative path when the home
// directory is unknown.
func DefaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".vpkg", "snapshots.db")
	}
	return filepath.Join(home, ".vpkg", "snapshots.db")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// OverrideFields converts the file overrides to tri-state fields: a key present with
// null becomes a null field.
func (c *Config) OverrideFields() map[string]auxlib.Field[string] {
	out := make(map[string]auxlib.Field[string], len(c.Overrides))
	for k, v := range c.Overrides {
		out[k] = auxlib.FromPointer(v, true)
	}
	return out
}

// Telemetry builds the telemetry configuration for the given build version.
func (c *Config) Telemetry(version string) *telemetry.Config {
	tel := telemetry.DefaultConfig()
	tel.ServiceVersion = version
	tel.Logging = c.Logging
	tel.Tracing = c.Tracing
	tel.Metrics = c.Metrics
	return tel
}
