package engine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/openfroyo/vpkg/pkg/auxlib"
	"github.com/openfroyo/vpkg/pkg/plugins"
	"github.com/openfroyo/vpkg/pkg/telemetry"
)

// kernelReleasePath holds the running kernel release on Linux hosts.
const kernelReleasePath = "/proc/sys/kernel/osrelease"

// platformOS maps GOOS to the conda subdir prefix.
var platformOS = map[string]string{
	"linux":   "linux",
	"darwin":  "osx",
	"windows": "win",
	"freebsd": "freebsd",
}

// platformArch maps GOARCH to the conda subdir suffix. arm64 is handled separately
// because its suffix depends on the OS.
var platformArch = map[string]string{
	"amd64":   "64",
	"386":     "32",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
	"arm":     "armv7l",
	"riscv64": "riscv64",
}

// machineArch maps GOARCH to the machine name reported by uname.
var machineArch = map[string]string{
	"amd64":   "x86_64",
	"386":     "x86",
	"ppc64le": "ppc64le",
	"s390x":   "s390x",
	"arm":     "armv7l",
	"riscv64": "riscv64",
}

// FactsCollector builds the HostFacts handed to plugins.
type FactsCollector struct {
	goos        string
	goarch      string
	pinned      plugins.HostFacts
	toolVersion string
	readFile    func(name string) ([]byte, error)
	logger      *zerolog.Logger
}

// FactsOption configures a FactsCollector.
type FactsOption func(*FactsCollector)

// WithRuntime replaces the detected GOOS and GOARCH.
func WithRuntime(goos, goarch string) FactsOption {
	return func(c *FactsCollector) {
		c.goos = goos
		c.goarch = goarch
	}
}

// WithPinnedFacts sets facts that take precedence over detected ones. Empty fields
// are ignored.
func WithPinnedFacts(f plugins.HostFacts) FactsOption {
	return func(c *FactsCollector) {
		c.pinned = f
	}
}

// WithToolVersion sets the version reported by the conda plugin.
func WithToolVersion(v string) FactsOption {
	return func(c *FactsCollector) {
		c.toolVersion = v
	}
}

// WithFactsLogger replaces the default quiet auxlib logger.
func WithFactsLogger(l *zerolog.Logger) FactsOption {
	return func(c *FactsCollector) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewFactsCollector creates a collector for the running platform.
func NewFactsCollector(opts ...FactsOption) *FactsCollector {
	c := &FactsCollector{
		goos:     runtime.GOOS,
		goarch:   runtime.GOARCH,
		readFile: os.ReadFile,
		logger:   auxlib.Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect returns the host facts: the platform derived from GOOS and GOARCH, the
// kernel release where it can be read, and the pinned facts on top.
func (c *FactsCollector) Collect(ctx context.Context) (plugins.HostFacts, error) {
	if err := ctx.Err(); err != nil {
		return plugins.HostFacts{}, NewTransientError("facts collection interrupted", err).
			WithOperation("facts").
			WithCode(ErrCodeCancelled)
	}

	facts := plugins.HostFacts{ToolVersion: c.toolVersion}

	platform, err := Platform(c.goos, c.goarch)
	switch {
	case err == nil:
		facts.Platform = platform
		facts.Arch = MachineArch(c.goos, c.goarch)
	case c.pinned.Platform == "":
		return plugins.HostFacts{}, NewPermanentError("cannot determine platform", err).
			WithOperation("facts").
			WithCode(ErrCodeFactsFailed)
	}

	if c.goos == "linux" && c.pinned.KernelRelease == "" {
		facts.KernelRelease = c.kernelRelease(ctx)
	}

	facts = mergeFacts(facts, c.pinned)

	telemetry.FromContextOr(ctx, c.logger).Zerolog().Debug().
		Str("platform", facts.Platform).
		Str("arch", facts.Arch).
		Str("kernel_release", facts.KernelRelease).
		Msg("Collected host facts")

	return facts, nil
}

func (c *FactsCollector) kernelRelease(ctx context.Context) string {
	data, err := c.readFile(kernelReleasePath)
	if err != nil {
		telemetry.FromContextOr(ctx, c.logger).Zerolog().Debug().Err(err).Msg("Kernel release unavailable")
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Platform returns the conda subdir for a GOOS/GOARCH pair, e.g. linux-64 or
// osx-arm64.
func Platform(goos, goarch string) (string, error) {
	osName, ok := platformOS[goos]
	if !ok {
		return "", fmt.Errorf("unsupported operating system %q", goos)
	}

	if goarch == "arm64" {
		if goos == "linux" || goos == "freebsd" {
			return osName + "-aarch64", nil
		}
		return osName + "-arm64", nil
	}

	suffix, ok := platformArch[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture %q", goarch)
	}
	return osName + "-" + suffix, nil
}

// MachineArch returns the uname-style machine name for a GOOS/GOARCH pair.
func MachineArch(goos, goarch string) string {
	if goarch == "arm64" {
		if goos == "linux" || goos == "freebsd" {
			return "aarch64"
		}
		return "arm64"
	}
	if arch, ok := machineArch[goarch]; ok {
		return arch
	}
	return goarch
}

func mergeFacts(detected, pinned plugins.HostFacts) plugins.HostFacts {
	pick := func(d, p string) string {
		if p != "" {
			return p
		}
		return d
	}

	return plugins.HostFacts{
		Platform:      pick(detected.Platform, pinned.Platform),
		Arch:          pick(detected.Arch, pinned.Arch),
		Microarch:     pick(detected.Microarch, pinned.Microarch),
		KernelRelease: pick(detected.KernelRelease, pinned.KernelRelease),
		GlibcVersion:  pick(detected.GlibcVersion, pinned.GlibcVersion),
		OSXVersion:    pick(detected.OSXVersion, pinned.OSXVersion),
		CUDAVersion:   pick(detected.CUDAVersion, pinned.CUDAVersion),
		ToolVersion:   pick(detected.ToolVersion, pinned.ToolVersion),
	}
}
