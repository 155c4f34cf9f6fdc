// Package osx reports __unix and __osx on macOS hosts.
package osx

import (
	"context"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

// Name is the plugin name.
const Name = "osx"

// Plugin is the osx virtual package plugin.
var Plugin = plugins.NewPlugin(Name, virtualPackages)

func virtualPackages(_ context.Context, facts plugins.HostFacts, overrides plugins.Overrides) ([]plugins.VirtualPackage, error) {
	if facts.OS() != "osx" {
		return nil, nil
	}

	records := []plugins.VirtualPackage{plugins.NewVirtualPackage("__unix", "", "")}

	if version, ok := overrides.Resolve(Name, facts.OSXVersion); ok && version != "" {
		records = append(records, plugins.NewVirtualPackage("__osx", version, ""))
	}

	return records, nil
}
