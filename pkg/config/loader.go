package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openfroyo/vpkg/pkg/telemetry"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "VPKG_CONFIG"
	EnvLogLevel   = "LOG_LEVEL"
	EnvStorePath  = "VPKG_STORE"
)

// Load reads the configuration file at path. An empty path falls back to
// $VPKG_CONFIG; when neither is set the defaults are returned. Environment
// overrides are applied last and the result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a configuration document over the defaults without consulting the
// environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := decode(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if cfg.Overrides == nil {
		cfg.Overrides = make(map[string]*string)
	}
	return nil
}

func applyEnv(cfg *Config) {
	// Unknown levels are ignored so a stray LOG_LEVEL cannot fail validation.
	if level, ok := telemetry.NormalizeLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Logging.Level = level
	}
	if path := os.Getenv(EnvStorePath); path != "" {
		cfg.Store.Path = path
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
