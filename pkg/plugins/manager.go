package plugins

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/openfroyo/vpkg/pkg/auxlib"
	"github.com/openfroyo/vpkg/pkg/telemetry"
)

// Manager registers plugins and collects their virtual packages in registration
// order.
type Manager struct {
	// mu protects plugins and names.
	mu sync.RWMutex

	plugins []Plugin
	names   map[string]bool

	validate *validator.Validate
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer
	logger   *zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics records hook metrics on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(mgr *Manager) {
		mgr.metrics = m
	}
}

// WithTracer traces every hook invocation with t.
func WithTracer(t *telemetry.Tracer) Option {
	return func(mgr *Manager) {
		if t != nil {
			mgr.tracer = t
		}
	}
}

// WithLogger replaces the default quiet auxlib logger. A telemetry logger carried by
// the context passed to Collect takes precedence.
func WithLogger(l *zerolog.Logger) Option {
	return func(mgr *Manager) {
		if l != nil {
			mgr.logger = l
		}
	}
}

// Contribution is the set of records one plugin reported.
type Contribution struct {
	Plugin   string           `json:"plugin" yaml:"plugin"`
	Packages []VirtualPackage `json:"packages" yaml:"packages"`
}

// registration is validated before a plugin is accepted.
type registration struct {
	Name string `validate:"required,max=64,lowercase,alphanum"`
}

// NewManager creates an empty plugin manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		names:    make(map[string]bool),
		validate: validator.New(),
		tracer:   telemetry.NopTracer(),
		logger:   auxlib.Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register registers a single plugin.
func (m *Manager) Register(p Plugin) error {
	return m.RegisterAll([]Plugin{p})
}

// RegisterAll registers plugins in order. Registration is all-or-nothing: if any
// plugin is nil, badly named or a duplicate, none of them is registered.
func (m *Manager) RegisterAll(plugins []Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(m.names)+len(plugins))
	for name := range m.names {
		seen[name] = true
	}

	for i, p := range plugins {
		if p == nil {
			return &PluginError{
				Kind:    KindRegistration,
				Plugin:  fmt.Sprintf("#%d", i),
				Message: "cannot register",
				Err:     ErrNilPlugin,
			}
		}

		name := p.Name()
		if err := m.validate.Struct(registration{Name: name}); err != nil {
			return &PluginError{
				Kind:    KindRegistration,
				Plugin:  name,
				Message: "invalid plugin name",
				Err:     err,
			}
		}

		if seen[name] {
			return &PluginError{
				Kind:    KindRegistration,
				Plugin:  name,
				Message: "already registered",
			}
		}
		seen[name] = true
	}

	for _, p := range plugins {
		m.plugins = append(m.plugins, p)
		m.names[p.Name()] = true
	}

	m.metrics.SetPluginsRegistered(len(m.plugins))
	m.logger.Debug().Int("count", len(plugins)).Int("total", len(m.plugins)).Msg("Registered plugins")

	return nil
}

// Plugins returns the registered plugins in registration order.
func (m *Manager) Plugins() []Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Plugin, len(m.plugins))
	copy(out, m.plugins)
	return out
}

// Names returns the registered plugin names in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.plugins))
	for i, p := range m.plugins {
		names[i] = p.Name()
	}
	return names
}

// Collect invokes every plugin hook in registration order and returns each plugin's
// records. The first hook error or invalid record aborts collection.
func (m *Manager) Collect(ctx context.Context, facts HostFacts, overrides Overrides) ([]Contribution, error) {
	plugins := m.Plugins()
	contributions := make([]Contribution, 0, len(plugins))

	for _, p := range plugins {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := m.invoke(ctx, p, facts, overrides)
		if err != nil {
			return nil, err
		}

		contributions = append(contributions, Contribution{Plugin: p.Name(), Packages: records})
	}

	return contributions, nil
}

// VirtualPackages collects records from every plugin and merges them. A name reported
// by more than one plugin must carry identical records; a mismatch is a conflict.
func (m *Manager) VirtualPackages(ctx context.Context, facts HostFacts, overrides Overrides) ([]VirtualPackage, error) {
	contributions, err := m.Collect(ctx, facts, overrides)
	if err != nil {
		return nil, err
	}
	return Merge(contributions)
}

// Merge flattens contributions in order, dropping identical duplicates.
func Merge(contributions []Contribution) ([]VirtualPackage, error) {
	type owned struct {
		pkg    VirtualPackage
		plugin string
	}

	byName := make(map[string]owned)
	var out []VirtualPackage

	for _, c := range contributions {
		for _, pkg := range c.Packages {
			prev, exists := byName[pkg.Name]
			if !exists {
				byName[pkg.Name] = owned{pkg: pkg, plugin: c.Plugin}
				out = append(out, pkg)
				continue
			}
			if prev.pkg != pkg {
				return nil, &PluginError{
					Kind:    KindConflict,
					Plugin:  c.Plugin,
					Message: fmt.Sprintf("reports %s but plugin %q reported %s", pkg, prev.plugin, prev.pkg),
				}
			}
		}
	}

	return out, nil
}

func (m *Manager) invoke(ctx context.Context, p Plugin, facts HostFacts, overrides Overrides) ([]VirtualPackage, error) {
	name := p.Name()
	ctx, span := m.tracer.StartPluginSpan(ctx, name)
	defer span.End()

	pluginLogger := telemetry.FromContextOr(ctx, m.logger).WithPlugin(name)

	timer := telemetry.NewTimer()
	records, err := p.VirtualPackages(ctx, facts, overrides)
	if err == nil {
		err = m.validateRecords(records)
	}
	elapsed := timer.Duration()

	if err != nil {
		m.metrics.RecordHookCall(name, "error", elapsed)
		telemetry.RecordError(span, err)
		pluginLogger.WithError(err).Error("Virtual package hook failed")
		return nil, &PluginError{
			Kind:    KindHook,
			Plugin:  name,
			Message: "virtual package hook failed",
			Err:     err,
		}
	}

	m.metrics.RecordHookCall(name, "success", elapsed)
	m.metrics.SetPackagesDetected(name, len(records))
	span.SetAttributes(telemetry.AttrPackageCount.Int(len(records)))
	telemetry.RecordSuccess(span)

	pluginLogger.Zerolog().Debug().
		Int("packages", len(records)).
		Dur("duration", elapsed).
		Msg("Virtual package hook completed")

	return records, nil
}

func (m *Manager) validateRecords(records []VirtualPackage) error {
	for _, r := range records {
		if err := m.validate.Struct(r); err != nil {
			return fmt.Errorf("invalid record %q: %w", r.String(), err)
		}
	}
	return nil
}
