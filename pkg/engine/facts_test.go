package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

func TestPlatform(t *testing.T) {
	tests := []struct {
		goos     string
		goarch   string
		platform string
		arch     string
		wantErr  bool
	}{
		{goos: "linux", goarch: "amd64", platform: "linux-64", arch: "x86_64"},
		{goos: "linux", goarch: "arm64", platform: "linux-aarch64", arch: "aarch64"},
		{goos: "linux", goarch: "ppc64le", platform: "linux-ppc64le", arch: "ppc64le"},
		{goos: "linux", goarch: "s390x", platform: "linux-s390x", arch: "s390x"},
		{goos: "linux", goarch: "386", platform: "linux-32", arch: "x86"},
		{goos: "linux", goarch: "arm", platform: "linux-armv7l", arch: "armv7l"},
		{goos: "darwin", goarch: "arm64", platform: "osx-arm64", arch: "arm64"},
		{goos: "darwin", goarch: "amd64", platform: "osx-64", arch: "x86_64"},
		{goos: "windows", goarch: "amd64", platform: "win-64", arch: "x86_64"},
		{goos: "windows", goarch: "arm64", platform: "win-arm64", arch: "arm64"},
		{goos: "freebsd", goarch: "amd64", platform: "freebsd-64", arch: "x86_64"},
		{goos: "plan9", goarch: "amd64", wantErr: true},
		{goos: "linux", goarch: "mips", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := Platform(tt.goos, tt.goarch)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.platform {
				t.Errorf("expected platform %s, got %s", tt.platform, got)
			}
			if arch := MachineArch(tt.goos, tt.goarch); arch != tt.arch {
				t.Errorf("expected arch %s, got %s", tt.arch, arch)
			}
		})
	}
}

func TestFactsCollectorCollect(t *testing.T) {
	c := NewFactsCollector(
		WithRuntime("linux", "amd64"),
		WithToolVersion("24.1.0"),
		WithPinnedFacts(plugins.HostFacts{GlibcVersion: "2.35", Microarch: "skylake"}),
	)
	c.readFile = func(name string) ([]byte, error) {
		if name != kernelReleasePath {
			t.Errorf("unexpected read of %s", name)
		}
		return []byte("6.5.0-14-generic\n"), nil
	}

	facts, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	want := plugins.HostFacts{
		Platform:      "linux-64",
		Arch:          "x86_64",
		Microarch:     "skylake",
		KernelRelease: "6.5.0-14-generic",
		GlibcVersion:  "2.35",
		ToolVersion:   "24.1.0",
	}
	if facts != want {
		t.Errorf("expected %+v, got %+v", want, facts)
	}
}

func TestFactsCollectorKernelReleaseUnavailable(t *testing.T) {
	c := NewFactsCollector(WithRuntime("linux", "arm64"))
	c.readFile = func(string) ([]byte, error) {
		return nil, errors.New("no procfs")
	}

	facts, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if facts.KernelRelease != "" {
		t.Errorf("expected empty kernel release, got %q", facts.KernelRelease)
	}
	if facts.Platform != "linux-aarch64" {
		t.Errorf("expected linux-aarch64, got %s", facts.Platform)
	}
}

func TestFactsCollectorSkipsProcfsOffLinux(t *testing.T) {
	c := NewFactsCollector(WithRuntime("darwin", "arm64"))
	c.readFile = func(name string) ([]byte, error) {
		t.Errorf("unexpected read of %s", name)
		return nil, nil
	}

	if _, err := c.Collect(context.Background()); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
}

func TestFactsCollectorPinnedPlatform(t *testing.T) {
	// An unsupported runtime is fine when the platform is pinned.
	c := NewFactsCollector(
		WithRuntime("plan9", "amd64"),
		WithPinnedFacts(plugins.HostFacts{Platform: "osx-arm64", OSXVersion: "14.1"}),
	)

	facts, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if facts.Platform != "osx-arm64" || facts.OSXVersion != "14.1" {
		t.Errorf("pinned facts not applied: %+v", facts)
	}

	c = NewFactsCollector(WithRuntime("plan9", "amd64"))
	_, err = c.Collect(context.Background())
	if !IsPermanent(err) {
		t.Errorf("expected permanent error, got %v", err)
	}
}

func TestFactsCollectorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFactsCollector(WithRuntime("linux", "amd64")).Collect(ctx)
	if !IsTransient(err) {
		t.Errorf("expected transient error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}
