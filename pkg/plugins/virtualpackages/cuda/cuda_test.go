package cuda

import (
	"context"
	"testing"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

func TestCUDA(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		fact string
		want string
	}{
		{"no driver", nil, "", ""},
		{"driver", nil, "12.2", "__cuda=12.2=0"},
		{"override without driver", map[string]string{"CONDA_OVERRIDE_CUDA": "11.8"}, "", "__cuda=11.8=0"},
		{"override suppresses", map[string]string{"CONDA_OVERRIDE_CUDA": ""}, "12.2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overrides := plugins.NewOverridesWithEnv(func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			}, nil)

			records, err := Plugin.VirtualPackages(context.Background(), plugins.HostFacts{CUDAVersion: tt.fact}, overrides)
			if err != nil {
				t.Fatalf("VirtualPackages failed: %v", err)
			}

			got := ""
			if len(records) == 1 {
				got = records[0].String()
			} else if len(records) > 1 {
				t.Fatalf("Expected at most one record, got %v", records)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
