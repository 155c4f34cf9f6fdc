package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfroyo/vpkg/pkg/engine"
	"github.com/openfroyo/vpkg/pkg/stores"
	"github.com/openfroyo/vpkg/pkg/telemetry"
)

func newSnapshotsCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage saved detection snapshots",
		Long: `Snapshots are written by "vpkg detect --save" (or every detection when
store.enabled is set) to the SQLite database at store.path.`,
	}

	cmd.AddCommand(newSnapshotsListCommand(version))
	cmd.AddCommand(newSnapshotsShowCommand(version))
	cmd.AddCommand(newSnapshotsPruneCommand(version))

	return cmd
}

func newSnapshotsListCommand(version string) *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(cmd.Context(), version, nil)
			if err != nil {
				return err
			}
			defer closeEnvironment(env)

			store, err := env.openStore(env.ctx)
			if err != nil {
				return err
			}

			snapshots, err := store.ListSnapshots(env.ctx, limit, offset)
			if err != nil {
				return err
			}

			reports := make([]*engine.Report, 0, len(snapshots))
			for _, s := range snapshots {
				r, err := engine.ReportFromSnapshot(s)
				if err != nil {
					return fmt.Errorf("snapshot %s: %w", s.ID, err)
				}
				reports = append(reports, r)
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), reports)
			}

			rows := make([][]string, len(reports))
			for i, r := range reports {
				rows[i] = []string{
					r.ID,
					r.Platform,
					fmt.Sprintf("%d", len(r.Packages)),
					r.CreatedAt.Format(time.RFC3339),
				}
			}
			return renderTable(cmd.OutOrStdout(), []string{"ID", "Platform", "Packages", "Created"}, rows)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of snapshots")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of snapshots to skip")

	return cmd
}

func newSnapshotsShowCommand(version string) *cobra.Command {
	var yamlOutput bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show one snapshot (the latest when no id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(cmd.Context(), version, nil)
			if err != nil {
				return err
			}
			defer closeEnvironment(env)

			ctx := env.ctx
			store, err := env.openStore(ctx)
			if err != nil {
				return err
			}

			var snapshot *stores.Snapshot
			if len(args) == 1 {
				snapshot, err = store.GetSnapshot(ctx, args[0])
			} else {
				snapshot, err = store.LatestSnapshot(ctx)
			}
			if err != nil {
				return err
			}

			report, err := engine.ReportFromSnapshot(snapshot)
			if err != nil {
				return err
			}
			return printReport(cmd, report, yamlOutput)
		},
	}

	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "output in YAML format")

	return cmd
}

func newSnapshotsPruneCommand(version string) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old snapshots",
		Long: `Delete snapshots older than --older-than, or older than store.retention
from the config file when the flag is not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(cmd.Context(), version, nil)
			if err != nil {
				return err
			}
			defer closeEnvironment(env)

			ctx := env.ctx
			store, err := env.openStore(ctx)
			if err != nil {
				return err
			}

			retention := env.cfg.Store.Retention
			if cmd.Flags().Changed("older-than") {
				retention = olderThan
			}
			cutoff := time.Now().Add(-retention)

			removed, err := store.PruneSnapshots(ctx, cutoff)
			if err != nil {
				return err
			}

			telemetry.FromContext(ctx).
				WithField("cutoff", cutoff).
				Infof("Pruned %d snapshot(s)", removed)

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"removed": removed})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d snapshot(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "delete snapshots older than this duration")

	return cmd
}
