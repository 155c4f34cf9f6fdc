package plugins

import (
	"context"
	"fmt"
	"strings"
)

// DefaultVersion and DefaultBuild fill empty record fields.
const (
	DefaultVersion = "0"
	DefaultBuild   = "0"
)

// VirtualPackage is a single virtual package record.
type VirtualPackage struct {
	Name    string `json:"name" yaml:"name" validate:"required,startswith=__"`
	Version string `json:"version" yaml:"version" validate:"required"`
	Build   string `json:"build" yaml:"build" validate:"required"`
}

// NewVirtualPackage builds a record, substituting "0" for an empty version or build.
func NewVirtualPackage(name, version, build string) VirtualPackage {
	if version == "" {
		version = DefaultVersion
	}
	if build == "" {
		build = DefaultBuild
	}
	return VirtualPackage{Name: name, Version: version, Build: build}
}

// String renders the record as name=version=build.
func (v VirtualPackage) String() string {
	return fmt.Sprintf("%s=%s=%s", v.Name, v.Version, v.Build)
}

// HostFacts is the snapshot of host properties plugins map to records.
type HostFacts struct {
	// Platform is the conda-style subdir, e.g. linux-64 or osx-arm64.
	Platform string `json:"platform" yaml:"platform"`

	// Arch is the machine architecture, e.g. x86_64 or arm64.
	Arch string `json:"arch" yaml:"arch"`

	// Microarch is the archspec microarchitecture name, e.g. skylake.
	Microarch string `json:"microarch,omitempty" yaml:"microarch,omitempty"`

	// KernelRelease is the running kernel release.
	KernelRelease string `json:"kernel_release,omitempty" yaml:"kernel_release,omitempty"`

	// GlibcVersion is the system glibc version on Linux hosts.
	GlibcVersion string `json:"glibc_version,omitempty" yaml:"glibc_version,omitempty"`

	// OSXVersion is the macOS product version.
	OSXVersion string `json:"osx_version,omitempty" yaml:"osx_version,omitempty"`

	// CUDAVersion is the highest CUDA version the installed driver supports.
	CUDAVersion string `json:"cuda_version,omitempty" yaml:"cuda_version,omitempty"`

	// ToolVersion is the version of the running package manager.
	ToolVersion string `json:"tool_version,omitempty" yaml:"tool_version,omitempty"`
}

// OS returns the operating-system part of Platform ("linux" for "linux-64").
func (f HostFacts) OS() string {
	os, _, _ := strings.Cut(f.Platform, "-")
	return os
}

// Plugin contributes virtual packages for a host.
type Plugin interface {
	// Name identifies the plugin; it must be unique within a Manager.
	Name() string

	// VirtualPackages returns the records this plugin reports for facts. An empty
	// result is valid and common: most plugins only apply to one platform.
	VirtualPackages(ctx context.Context, facts HostFacts, overrides Overrides) ([]VirtualPackage, error)
}

// HookFunc is the function form of Plugin.VirtualPackages.
type HookFunc func(ctx context.Context, facts HostFacts, overrides Overrides) ([]VirtualPackage, error)

type funcPlugin struct {
	name string
	hook HookFunc
}

// NewPlugin builds a Plugin from a name and a hook function.
func NewPlugin(name string, hook HookFunc) Plugin {
	return &funcPlugin{name: name, hook: hook}
}

func (p *funcPlugin) Name() string {
	return p.name
}

func (p *funcPlugin) VirtualPackages(ctx context.Context, facts HostFacts, overrides Overrides) ([]VirtualPackage, error) {
	if p.hook == nil {
		return nil, nil
	}
	return p.hook(ctx, facts, overrides)
}
