// Package archspec reports the __archspec virtual package, which names the host CPU
// microarchitecture.
package archspec

import (
	"context"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

// Name is the plugin name.
const Name = "archspec"

// Plugin is the archspec virtual package plugin.
var Plugin = plugins.NewPlugin(Name, virtualPackages)

func virtualPackages(_ context.Context, facts plugins.HostFacts, overrides plugins.Overrides) ([]plugins.VirtualPackage, error) {
	build := facts.Microarch
	if build == "" {
		build = facts.Arch
	}

	build, ok := overrides.Resolve(Name, build)
	if !ok {
		return nil, nil
	}

	return []plugins.VirtualPackage{plugins.NewVirtualPackage("__archspec", "1", build)}, nil
}
