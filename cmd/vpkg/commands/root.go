package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/openfroyo/vpkg/pkg/auxlib"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vpkg",
		Short: "vpkg - virtual package detection",
		Long: `vpkg reports the virtual packages a conda-style solver would see on this host.

Virtual packages describe the system rather than installable software:
  - __archspec: CPU microarchitecture
  - __conda: package manager version
  - __cuda: highest CUDA version the driver supports
  - __unix, __linux, __glibc, __osx, __freebsd, __win: operating system

Every value can be overridden with CONDA_OVERRIDE_<NAME>; an empty value hides the
package.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.Logger = log.Level(zerolog.DebugLevel)
				auxlib.AttachWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			auxlib.DetachWriters()
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default $VPKG_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newVersionCommand(version, commit, buildDate))
	rootCmd.AddCommand(newPluginsCommand())
	rootCmd.AddCommand(newDetectCommand(version))
	rootCmd.AddCommand(newSnapshotsCommand(version))
	rootCmd.AddCommand(newServeMetricsCommand(version))

	return rootCmd
}
