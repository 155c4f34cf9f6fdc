// Package freebsd reports __unix and __freebsd on FreeBSD hosts.
package freebsd

import (
	"context"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

// Name is the plugin name.
const Name = "freebsd"

// Plugin is the freebsd virtual package plugin.
var Plugin = plugins.NewPlugin(Name, virtualPackages)

func virtualPackages(_ context.Context, facts plugins.HostFacts, overrides plugins.Overrides) ([]plugins.VirtualPackage, error) {
	if facts.OS() != "freebsd" {
		return nil, nil
	}

	records := []plugins.VirtualPackage{plugins.NewVirtualPackage("__unix", "", "")}

	if version, ok := overrides.Resolve(Name, plugins.DottedVersion(facts.KernelRelease)); ok {
		records = append(records, plugins.NewVirtualPackage("__freebsd", version, ""))
	}

	return records, nil
}
