package commands

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/openfroyo/vpkg/pkg/config"
	"github.com/openfroyo/vpkg/pkg/engine"
	"github.com/openfroyo/vpkg/pkg/plugins"
	"github.com/openfroyo/vpkg/pkg/telemetry"
)

func newServeMetricsCommand(version string) *cobra.Command {
	var (
		listen   string
		interval time.Duration
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Expose detection metrics over HTTP",
		Long: `Serve Prometheus metrics and run a detection every --interval so the plugin
and detection gauges stay current. With --watch, edits to the config file's facts
and overrides apply to the next detection. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(cmd.Context(), version, func(cfg *config.Config) {
				cfg.Metrics.Enabled = true
				if listen != "" {
					cfg.Metrics.ListenAddress = listen
				}
			})
			if err != nil {
				return err
			}
			defer closeEnvironment(env)

			ctx := env.ctx
			save := env.cfg.Store.Enabled
			initial, err := env.detector(ctx, version, save)
			if err != nil {
				return err
			}

			var current atomic.Pointer[engine.Detector]
			current.Store(initial)

			logger := telemetry.FromContext(ctx).NewComponentLogger("serve-metrics").Zerolog()
			logger.Info().
				Str("address", env.cfg.Metrics.ListenAddress).
				Str("path", env.cfg.Metrics.Path).
				Dur("interval", interval).
				Msg("Serving metrics")

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return env.tel.Metrics.Serve(ctx)
			})
			g.Go(func() error {
				return detectLoop(ctx, current.Load, interval, logger)
			})

			if path := watchedConfigPath(); watch && path != "" {
				g.Go(func() error {
					return config.Watch(ctx, path, *logger, func(cfg *config.Config) {
						// Telemetry and store settings need a restart; facts and
						// overrides apply to the next detection.
						facts := engine.NewFactsCollector(
							engine.WithToolVersion(version),
							engine.WithPinnedFacts(cfg.Facts),
						)
						opts := []engine.DetectorOption{
							engine.WithOverrides(plugins.NewOverrides(cfg.OverrideFields())),
							engine.WithDetectorTelemetry(env.tel.Tracer, env.tel.Metrics),
						}
						if env.store != nil {
							opts = append(opts, engine.WithStore(env.store))
						}
						current.Store(engine.NewDetector(facts, env.manager, opts...))
					})
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default metrics.listen_address)")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "time between detections")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload facts and overrides when the config file changes")

	return cmd
}

func watchedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return os.Getenv(config.EnvConfigPath)
}

// detectLoop runs a detection immediately and then every interval until ctx ends.
// Failed detections are logged and counted but do not stop the loop.
func detectLoop(ctx context.Context, detector func() *engine.Detector, interval time.Duration, logger *zerolog.Logger) error {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if report, err := detector().Detect(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Warn().Err(err).Msg("Detection failed")
		} else {
			logger.Debug().Str("report_id", report.ID).Int("packages", len(report.Packages)).Msg("Detection succeeded")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
