// Package virtualpackages is the static registry of built-in virtual package plugins.
package virtualpackages

import (
	"github.com/openfroyo/vpkg/pkg/plugins"
	"github.com/openfroyo/vpkg/pkg/plugins/virtualpackages/archspec"
	"github.com/openfroyo/vpkg/pkg/plugins/virtualpackages/conda"
	"github.com/openfroyo/vpkg/pkg/plugins/virtualpackages/cuda"
	"github.com/openfroyo/vpkg/pkg/plugins/virtualpackages/freebsd"
	"github.com/openfroyo/vpkg/pkg/plugins/virtualpackages/linux"
	"github.com/openfroyo/vpkg/pkg/plugins/virtualpackages/osx"
	"github.com/openfroyo/vpkg/pkg/plugins/virtualpackages/windows"
)

// builtin lists the plugins in registration order.
var builtin = [...]plugins.Plugin{
	archspec.Plugin,
	conda.Plugin,
	cuda.Plugin,
	freebsd.Plugin,
	linux.Plugin,
	osx.Plugin,
	windows.Plugin,
}

// Plugins returns the built-in plugins in registration order. The returned slice is
// a copy.
func Plugins() []plugins.Plugin {
	out := make([]plugins.Plugin, len(builtin))
	copy(out, builtin[:])
	return out
}

// Names returns the built-in plugin names in registration order.
func Names() []string {
	names := make([]string, len(builtin))
	for i, p := range builtin {
		names[i] = p.Name()
	}
	return names
}

// Register registers every built-in plugin with m, all or nothing.
func Register(m *plugins.Manager) error {
	return m.RegisterAll(Plugins())
}
