package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/openfroyo/vpkg/pkg/auxlib"
	"github.com/openfroyo/vpkg/pkg/plugins"
	"github.com/openfroyo/vpkg/pkg/stores"
	"github.com/openfroyo/vpkg/pkg/telemetry"
)

// SnapshotSaver persists detection results.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, snapshot *stores.Snapshot) error
}

// Report is the result of one detection run.
type Report struct {
	ID            string                   `json:"id" yaml:"id"`
	Platform      string                   `json:"platform" yaml:"platform"`
	Facts         plugins.HostFacts        `json:"facts" yaml:"facts"`
	Packages      []plugins.VirtualPackage `json:"packages" yaml:"packages"`
	Contributions []plugins.Contribution   `json:"contributions,omitempty" yaml:"contributions,omitempty"`
	CreatedAt     time.Time                `json:"created_at" yaml:"created_at"`
	Duration      time.Duration            `json:"duration" yaml:"duration"`
	Saved         bool                     `json:"saved" yaml:"saved"`
}

// Detector collects facts, runs the plugin hooks and optionally stores the result.
type Detector struct {
	facts     *FactsCollector
	manager   *plugins.Manager
	overrides plugins.Overrides
	store     SnapshotSaver
	tracer    *telemetry.Tracer
	metrics   *telemetry.Metrics
	logger    *zerolog.Logger
	now       func() time.Time
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithStore persists every report to s.
func WithStore(s SnapshotSaver) DetectorOption {
	return func(d *Detector) {
		d.store = s
	}
}

// WithOverrides sets the overrides passed to every hook.
func WithOverrides(o plugins.Overrides) DetectorOption {
	return func(d *Detector) {
		d.overrides = o
	}
}

// WithDetectorTelemetry traces and counts detection runs.
func WithDetectorTelemetry(t *telemetry.Tracer, m *telemetry.Metrics) DetectorOption {
	return func(d *Detector) {
		if t != nil {
			d.tracer = t
		}
		d.metrics = m
	}
}

// WithDetectorLogger replaces the default quiet auxlib logger. A telemetry logger
// carried by the context passed to Detect takes precedence.
func WithDetectorLogger(l *zerolog.Logger) DetectorOption {
	return func(d *Detector) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDetector creates a detector over a facts collector and a populated manager.
func NewDetector(facts *FactsCollector, manager *plugins.Manager, opts ...DetectorOption) *Detector {
	d := &Detector{
		facts:   facts,
		manager: manager,
		tracer:  telemetry.NopTracer(),
		logger:  auxlib.Logger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect runs one detection. Errors are *EngineError values.
func (d *Detector) Detect(ctx context.Context) (*Report, error) {
	report := &Report{
		ID:        uuid.New().String(),
		CreatedAt: d.now().UTC(),
	}
	start := time.Now()

	facts, err := d.facts.Collect(ctx)
	if err != nil {
		d.metrics.RecordDetection("error")
		return nil, err
	}
	report.Facts = facts
	report.Platform = facts.Platform

	ctx, span := d.tracer.StartDetectionSpan(ctx, report.ID, report.Platform)
	defer span.End()

	ctxLogger := telemetry.FromContextOr(ctx, d.logger).WithReportID(report.ID)
	if traceID := telemetry.TraceID(ctx); traceID != "" {
		ctxLogger = ctxLogger.WithField("trace_id", traceID)
	}
	logger := ctxLogger.Zerolog()

	contributions, err := d.manager.Collect(ctx, facts, d.overrides)
	if err == nil {
		report.Packages, err = plugins.Merge(contributions)
	}
	if err != nil {
		engErr := classifyPluginError(err)
		telemetry.RecordError(span, engErr)
		d.metrics.RecordDetection("error")
		logger.Error().Err(engErr).Msg("Detection failed")
		return nil, engErr
	}
	report.Contributions = contributions
	report.Duration = time.Since(start)

	if d.store != nil {
		if err := d.save(ctx, report); err != nil {
			telemetry.RecordError(span, err)
			d.metrics.RecordDetection("error")
			logger.Error().Err(err).Msg("Failed to save snapshot")
			return nil, err
		}
		report.Saved = true
		d.metrics.RecordSnapshotSaved()
	}

	span.SetAttributes(telemetry.AttrPackageCount.Int(len(report.Packages)))
	telemetry.RecordSuccess(span)
	d.metrics.RecordDetection("success")

	logger.Info().
		Str("platform", report.Platform).
		Int("packages", len(report.Packages)).
		Dur("duration", report.Duration).
		Bool("saved", report.Saved).
		Msg("Detection completed")

	return report, nil
}

func (d *Detector) save(ctx context.Context, report *Report) error {
	snapshot, err := NewSnapshot(report)
	if err != nil {
		return NewPermanentError("cannot encode snapshot", err).
			WithOperation("snapshot").
			WithCode(ErrCodeEncodeFailed)
	}

	if err := d.store.SaveSnapshot(ctx, snapshot); err != nil {
		return NewTransientError("cannot save snapshot", err).
			WithOperation("snapshot").
			WithCode(ErrCodeStoreFailed)
	}
	return nil
}

// NewSnapshot encodes a report as a stores.Snapshot.
func NewSnapshot(report *Report) (*stores.Snapshot, error) {
	facts, err := json.Marshal(report.Facts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal facts: %w", err)
	}

	packages := report.Packages
	if packages == nil {
		packages = []plugins.VirtualPackage{}
	}
	pkgs, err := json.Marshal(packages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal packages: %w", err)
	}

	return &stores.Snapshot{
		ID:        report.ID,
		Platform:  report.Platform,
		Facts:     string(facts),
		Packages:  string(pkgs),
		CreatedAt: report.CreatedAt,
	}, nil
}

// ReportFromSnapshot decodes a stored snapshot. Duration and contributions are not
// persisted and stay empty.
func ReportFromSnapshot(snapshot *stores.Snapshot) (*Report, error) {
	report := &Report{
		ID:        snapshot.ID,
		Platform:  snapshot.Platform,
		CreatedAt: snapshot.CreatedAt,
		Saved:     true,
	}

	if snapshot.Facts != "" {
		if err := json.Unmarshal([]byte(snapshot.Facts), &report.Facts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal facts: %w", err)
		}
	}
	if snapshot.Packages != "" {
		if err := json.Unmarshal([]byte(snapshot.Packages), &report.Packages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal packages: %w", err)
		}
	}

	return report, nil
}
