package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openfroyo/vpkg/pkg/plugins/virtualpackages"
)

func newPluginsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "Inspect virtual package plugins",
	}

	cmd.AddCommand(newPluginsListCommand())

	return cmd
}

type pluginEntry struct {
	Order int    `json:"order"`
	Name  string `json:"name"`
}

func newPluginsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in plugins in registration order",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := virtualpackages.Names()

			entries := make([]pluginEntry, len(names))
			rows := make([][]string, len(names))
			for i, name := range names {
				entries[i] = pluginEntry{Order: i + 1, Name: name}
				rows[i] = []string{strconv.Itoa(i + 1), name}
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			return renderTable(cmd.OutOrStdout(), []string{"#", "Plugin"}, rows)
		},
	}
}
