// Package cuda reports the __cuda virtual package when a CUDA driver is present.
package cuda

import (
	"context"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

// Name is the plugin name.
const Name = "cuda"

// Plugin is the cuda virtual package plugin.
var Plugin = plugins.NewPlugin(Name, virtualPackages)

func virtualPackages(_ context.Context, facts plugins.HostFacts, overrides plugins.Overrides) ([]plugins.VirtualPackage, error) {
	version, ok := overrides.Resolve(Name, facts.CUDAVersion)
	if !ok || version == "" {
		return nil, nil
	}
	return []plugins.VirtualPackage{plugins.NewVirtualPackage("__cuda", version, "")}, nil
}
