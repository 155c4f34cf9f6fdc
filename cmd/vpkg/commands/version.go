package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/openfroyo/vpkg/pkg/auxlib"
)

type versionInfo struct {
	Version   string          `json:"version"`
	Commit    string          `json:"commit"`
	BuildDate string          `json:"build_date"`
	GoVersion string          `json:"go_version"`
	Platform  string          `json:"platform"`
	Auxlib    auxlib.Metadata `json:"auxlib"`
}

func newVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build and library metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{
				Version:   version,
				Commit:    commit,
				BuildDate: buildDate,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
				Auxlib:    auxlib.Info(),
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), info)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vpkg %s (commit: %s, built: %s)\n", info.Version, info.Commit, info.BuildDate)
			fmt.Fprintf(out, "go: %s %s\n", info.GoVersion, info.Platform)
			for _, name := range auxlib.Exports {
				value, _ := info.Auxlib.Lookup(name)
				fmt.Fprintf(out, "auxlib %s: %s\n", name, value)
			}
			return nil
		},
	}
}
