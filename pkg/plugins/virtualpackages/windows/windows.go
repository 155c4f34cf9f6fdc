// Package windows reports __win on Windows hosts.
package windows

import (
	"context"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

// Name is the plugin name.
const Name = "windows"

// Plugin is the windows virtual package plugin.
var Plugin = plugins.NewPlugin(Name, virtualPackages)

func virtualPackages(_ context.Context, facts plugins.HostFacts, overrides plugins.Overrides) ([]plugins.VirtualPackage, error) {
	if facts.OS() != "win" {
		return nil, nil
	}

	version, ok := overrides.Resolve("win", plugins.DottedVersion(facts.KernelRelease))
	if !ok {
		return nil, nil
	}

	return []plugins.VirtualPackage{plugins.NewVirtualPackage("__win", version, "")}, nil
}
