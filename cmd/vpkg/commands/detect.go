package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfroyo/vpkg/pkg/engine"
	"github.com/openfroyo/vpkg/pkg/plugins"
	"github.com/openfroyo/vpkg/pkg/telemetry"
)

func newDetectCommand(version string) *cobra.Command {
	var (
		yamlOutput bool
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect the virtual packages of this host",
		Long: `Run every virtual package plugin against the host facts and print the merged
records.

Facts the host cannot report (glibc, macOS and CUDA versions, microarchitecture)
are pinned in the config file under "facts". Overrides come from CONDA_OVERRIDE_*
environment variables first and the config file "overrides" map second.`,
		Example: `  # Show virtual packages
  vpkg detect

  # Pretend the CUDA driver is missing
  CONDA_OVERRIDE_CUDA= vpkg detect

  # Save a snapshot for later comparison
  vpkg detect --save --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput && yamlOutput {
				return fmt.Errorf("--json and --yaml are mutually exclusive")
			}

			env, err := newEnvironment(cmd.Context(), version, nil)
			if err != nil {
				return err
			}
			defer closeEnvironment(env)

			ctx := env.ctx
			logger := telemetry.FromContext(ctx).NewComponentLogger("detect").Zerolog()
			logger.Debug().
				Strs("override_keys", env.overrides.Keys()).
				Msg("Config file overrides")

			detector, err := env.detector(ctx, version, save || env.cfg.Store.Enabled)
			if err != nil {
				return err
			}

			report, err := detector.Detect(ctx)
			if err != nil {
				return err
			}

			logger.Debug().
				Str("report_id", report.ID).
				Int("packages", len(report.Packages)).
				Msg("Detection finished")

			return printReport(cmd, report, yamlOutput)
		},
	}

	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "output in YAML format")
	cmd.Flags().BoolVar(&save, "save", false, "persist the result as a snapshot")

	return cmd
}

func printReport(cmd *cobra.Command, report *engine.Report, yamlOutput bool) error {
	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return writeJSON(out, report)
	case yamlOutput:
		return writeYAML(out, report)
	}

	fmt.Fprintf(out, "Report:   %s\n", report.ID)
	fmt.Fprintf(out, "Platform: %s\n", report.Platform)
	fmt.Fprintf(out, "Created:  %s\n", report.CreatedAt.Format(time.RFC3339))
	if report.Saved {
		fmt.Fprintln(out, "Saved:    yes")
	}

	return renderTable(out, []string{"Name", "Version", "Build"}, packageRows(report.Packages))
}

func packageRows(pkgs []plugins.VirtualPackage) [][]string {
	rows := make([][]string, len(pkgs))
	for i, p := range pkgs {
		rows[i] = []string{p.Name, p.Version, p.Build}
	}
	return rows
}

func closeEnvironment(env *environment) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := env.Close(ctx); err != nil {
		telemetry.FromContext(env.ctx).WithError(err).Warn("Failed to close environment")
	}
}
