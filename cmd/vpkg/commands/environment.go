package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openfroyo/vpkg/pkg/config"
	"github.com/openfroyo/vpkg/pkg/engine"
	"github.com/openfroyo/vpkg/pkg/plugins"
	"github.com/openfroyo/vpkg/pkg/plugins/virtualpackages"
	"github.com/openfroyo/vpkg/pkg/stores"
	"github.com/openfroyo/vpkg/pkg/telemetry"
)

// environment holds everything a command needs, built from the config file.
type environment struct {
	// ctx carries the telemetry logger; commands run their operations with it.
	ctx       context.Context
	cfg       *config.Config
	tel       *telemetry.Telemetry
	manager   *plugins.Manager
	overrides plugins.Overrides
	store     *stores.SQLiteStore
}

// newEnvironment loads the configuration and registers the built-in plugins. mutate,
// when non-nil, adjusts the loaded configuration before telemetry is built.
func newEnvironment(ctx context.Context, version string, mutate func(*config.Config)) (*environment, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if mutate != nil {
		mutate(cfg)
	}

	tel, err := telemetry.NewTelemetry(cfg.Telemetry(version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	manager := plugins.NewManager(
		plugins.WithMetrics(tel.Metrics),
		plugins.WithTracer(tel.Tracer),
	)
	if err := virtualpackages.Register(manager); err != nil {
		return nil, fmt.Errorf("failed to register plugins: %w", err)
	}

	return &environment{
		ctx:       tel.WithContext(ctx),
		cfg:       cfg,
		tel:       tel,
		manager:   manager,
		overrides: plugins.NewOverrides(cfg.OverrideFields()),
	}, nil
}

// openStore opens and migrates the snapshot database, creating its directory.
func (e *environment) openStore(ctx context.Context) (*stores.SQLiteStore, error) {
	if e.store != nil {
		return e.store, nil
	}

	path := e.cfg.Store.Path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	store, err := stores.NewSQLiteStore(stores.Config{Path: path})
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	telemetry.FromContext(ctx).WithField("path", path).Debug("Opened snapshot store")
	e.store = store
	return store, nil
}

// detector builds a detector; save attaches the snapshot store.
func (e *environment) detector(ctx context.Context, version string, save bool) (*engine.Detector, error) {
	facts := engine.NewFactsCollector(
		engine.WithToolVersion(version),
		engine.WithPinnedFacts(e.cfg.Facts),
	)

	opts := []engine.DetectorOption{
		engine.WithOverrides(e.overrides),
		engine.WithDetectorTelemetry(e.tel.Tracer, e.tel.Metrics),
	}
	if save {
		store, err := e.openStore(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, engine.WithStore(store))
	}

	return engine.NewDetector(facts, e.manager, opts...), nil
}

// Close releases the store and flushes telemetry.
func (e *environment) Close(ctx context.Context) error {
	var errs []error
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	errs = append(errs, e.tel.Shutdown(ctx))
	return errors.Join(errs...)
}
