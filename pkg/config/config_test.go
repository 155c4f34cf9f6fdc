package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if cfg.Store.Enabled {
		t.Error("Expected store disabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected info level, got %s", cfg.Logging.Level)
	}
}

func TestParse(t *testing.T) {
	doc := `
logging:
  level: debug
  format: json
store:
  enabled: true
  path: /tmp/vpkg.db
  retention: 48h
facts:
  microarch: x86_64_v3
  glibc_version: "2.35"
overrides:
  cuda: null
  osx: "13.0"
`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Unexpected logging config: %+v", cfg.Logging)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "/tmp/vpkg.db" || cfg.Store.Retention != 48*time.Hour {
		t.Errorf("Unexpected store config: %+v", cfg.Store)
	}
	if cfg.Facts.Microarch != "x86_64_v3" || cfg.Facts.GlibcVersion != "2.35" {
		t.Errorf("Unexpected facts: %+v", cfg.Facts)
	}
	// Unset sections keep their defaults.
	if cfg.Metrics.Namespace != "vpkg" {
		t.Errorf("Expected default metrics namespace, got %q", cfg.Metrics.Namespace)
	}

	fields := cfg.OverrideFields()
	if !fields["cuda"].IsNull() {
		t.Error("Expected cuda override to be null")
	}
	if v, ok := fields["osx"].Get(); !ok || v != "13.0" {
		t.Errorf("Expected osx override 13.0, got %q", v)
	}
	if !fields["glibc"].IsAbsent() {
		t.Error("Expected glibc override to be absent")
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse of empty document failed: %v", err)
	}
	if cfg.Overrides == nil {
		t.Error("Expected non-nil overrides map")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "loging:\n  level: debug\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"bad format", "logging:\n  format: xml\n"},
		{"bad exporter", "tracing:\n  exporter: zipkin\n"},
		{"sampling out of range", "tracing:\n  sampling_rate: 2\n"},
		{"store enabled without path", "store:\n  enabled: true\n  path: \"\"\n"},
		{"bad override key", "overrides:\n  \"cuda version\": \"12\"\n"},
		{"malformed yaml", "logging: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vpkg.yaml")
	if err := os.WriteFile(path, []byte("overrides:\n  glibc: \"2.17\"\n"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvStorePath, filepath.Join(dir, "snap.db"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected LOG_LEVEL to win, got %s", cfg.Logging.Level)
	}
	if cfg.Store.Path != filepath.Join(dir, "snap.db") {
		t.Errorf("Expected VPKG_STORE path, got %s", cfg.Store.Path)
	}
	if v := cfg.Overrides["glibc"]; v == nil || *v != "2.17" {
		t.Errorf("Expected glibc override, got %v", v)
	}
}

func TestLoadNormalizesLogLevel(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: "DEBUG", want: "debug"},
		{env: "warning", want: "warn"},
		{env: " Error ", want: "error"},
		{env: "debug", want: "debug"},
		{env: "bogus", want: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(EnvConfigPath, "")
			t.Setenv(EnvLogLevel, tt.env)

			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cfg.Logging.Level != tt.want {
				t.Errorf("Expected level %s, got %s", tt.want, cfg.Logging.Level)
			}
		})
	}
}

func TestLoadFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vpkg.yaml")
	if err := os.WriteFile(path, []byte("facts:\n  cuda_version: \"12.4\"\n"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Facts.CUDAVersion != "12.4" {
		t.Errorf("Expected cuda_version from $VPKG_CONFIG, got %q", cfg.Facts.CUDAVersion)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestTelemetry(t *testing.T) {
	cfg := Default()
	cfg.Metrics.Enabled = true

	tel := cfg.Telemetry("1.2.3")
	if tel.ServiceVersion != "1.2.3" || !tel.Metrics.Enabled {
		t.Errorf("Unexpected telemetry config: %+v", tel)
	}
	if err := tel.Validate(); err != nil {
		t.Errorf("Telemetry config should validate: %v", err)
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvStorePath, "~/snapshots/vpkg.db")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(writeTemp(t, "store:\n  enabled: true\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if want := filepath.Join(home, "snapshots", "vpkg.db"); cfg.Store.Path != want {
		t.Errorf("Expected %s, got %s", want, cfg.Store.Path)
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vpkg.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}
