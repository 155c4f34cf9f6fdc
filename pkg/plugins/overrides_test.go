package plugins

import (
	"testing"

	"github.com/openfroyo/vpkg/pkg/auxlib"
)

func envOf(vars map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestOverridesResolve(t *testing.T) {
	file := map[string]auxlib.Field[string]{
		"cuda":  auxlib.NullField[string](),
		"OSX":   auxlib.Set("13.0"),
		"glibc": {},
	}

	tests := []struct {
		name     string
		env      map[string]string
		key      string
		detected string
		want     string
		keep     bool
	}{
		{"no override", nil, "linux", "6.1.0", "6.1.0", true},
		{"env replaces", map[string]string{"CONDA_OVERRIDE_LINUX": "5.4"}, "linux", "6.1.0", "5.4", true},
		{"env empty suppresses", map[string]string{"CONDA_OVERRIDE_LINUX": ""}, "linux", "6.1.0", "", false},
		{"env whitespace suppresses", map[string]string{"CONDA_OVERRIDE_LINUX": "  "}, "linux", "6.1.0", "", false},
		{"file null suppresses", nil, "cuda", "12.2", "", false},
		{"file set replaces", nil, "osx", "14.1", "13.0", true},
		{"file absent falls through", nil, "glibc", "2.35", "2.35", true},
		{"env wins over file null", map[string]string{"CONDA_OVERRIDE_CUDA": "11.8"}, "cuda", "12.2", "11.8", true},
		{"env wins over file set", map[string]string{"CONDA_OVERRIDE_OSX": ""}, "osx", "14.1", "", false},
		{"key case insensitive", map[string]string{"CONDA_OVERRIDE_ARCHSPEC": "zen4"}, "Archspec", "x86_64", "zen4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOverridesWithEnv(envOf(tt.env), file)
			got, keep := o.Resolve(tt.key, tt.detected)
			if got != tt.want || keep != tt.keep {
				t.Errorf("Resolve(%q, %q) = (%q, %v), want (%q, %v)",
					tt.key, tt.detected, got, keep, tt.want, tt.keep)
			}
		})
	}
}

func TestZeroOverrides(t *testing.T) {
	var o Overrides
	got, keep := o.Resolve("cuda", "12.2")
	if got != "12.2" || !keep {
		t.Errorf("Expected zero Overrides to pass through, got (%q, %v)", got, keep)
	}
	if !o.Lookup("cuda").IsAbsent() {
		t.Error("Expected absent lookup")
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("glibc"); got != "CONDA_OVERRIDE_GLIBC" {
		t.Errorf("Expected CONDA_OVERRIDE_GLIBC, got %s", got)
	}
}

func TestOverridesKeys(t *testing.T) {
	o := NewOverridesWithEnv(envOf(nil), map[string]auxlib.Field[string]{
		"cuda":  auxlib.NullField[string](),
		"osx":   auxlib.Set("13.0"),
		"glibc": {},
	})

	keys := o.Keys()
	if len(keys) != 2 || keys[0] != "cuda" || keys[1] != "osx" {
		t.Errorf("Expected [cuda osx], got %v", keys)
	}
}
