// Package conda reports the __conda virtual package carrying the package manager
// version.
package conda

import (
	"context"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

// Name is the plugin name.
const Name = "conda"

// Plugin is the conda virtual package plugin.
var Plugin = plugins.NewPlugin(Name, virtualPackages)

func virtualPackages(_ context.Context, facts plugins.HostFacts, overrides plugins.Overrides) ([]plugins.VirtualPackage, error) {
	version, ok := overrides.Resolve(Name, facts.ToolVersion)
	if !ok {
		return nil, nil
	}
	return []plugins.VirtualPackage{plugins.NewVirtualPackage("__conda", version, "")}, nil
}
