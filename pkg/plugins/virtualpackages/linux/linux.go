// Package linux reports __unix, __linux and __glibc on Linux hosts.
package linux

import (
	"context"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

// Name is the plugin name.
const Name = "linux"

// Plugin is the linux virtual package plugin.
var Plugin = plugins.NewPlugin(Name, virtualPackages)

func virtualPackages(_ context.Context, facts plugins.HostFacts, overrides plugins.Overrides) ([]plugins.VirtualPackage, error) {
	if facts.OS() != "linux" {
		return nil, nil
	}

	records := []plugins.VirtualPackage{plugins.NewVirtualPackage("__unix", "", "")}

	if version, ok := overrides.Resolve(Name, plugins.DottedVersion(facts.KernelRelease)); ok {
		records = append(records, plugins.NewVirtualPackage("__linux", version, ""))
	}

	// __glibc is only reported when a libc version is known; musl hosts have none.
	if version, ok := overrides.Resolve("glibc", facts.GlibcVersion); ok && version != "" {
		records = append(records, plugins.NewVirtualPackage("__glibc", version, ""))
	}

	return records, nil
}
