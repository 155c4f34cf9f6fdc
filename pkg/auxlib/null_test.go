package auxlib

import (
	"encoding/json"
	"fmt"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNullContract(t *testing.T) {
	instances := []Null{NULL, {}, Null{}}

	for i, a := range instances {
		if a.IsPresent() {
			t.Errorf("instance %d: expected IsPresent to be false", i)
		}
		if a.Len() != 0 {
			t.Errorf("instance %d: expected Len 0, got %d", i, a.Len())
		}
		for j, b := range instances {
			if !a.Equal(b) {
				t.Errorf("instances %d and %d should be equal", i, j)
			}
			if a.Hash() != b.Hash() {
				t.Errorf("instances %d and %d should hash identically", i, j)
			}
		}
	}

	if !NULL.Equal(&Null{}) {
		t.Error("expected NULL to equal a *Null")
	}
}

func TestNullNotEqualToOtherFalsyValues(t *testing.T) {
	var nilPtr *Null
	tests := []struct {
		name  string
		other any
	}{
		{"nil", nil},
		{"nil *Null", nilPtr},
		{"zero int", 0},
		{"zero float", 0.0},
		{"empty string", ""},
		{"false", false},
		{"empty slice", []int{}},
		{"empty map", map[string]any{}},
		{"empty struct", struct{}{}},
		{"string Null", "Null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if NULL.Equal(tt.other) {
				t.Errorf("NULL should not equal %#v", tt.other)
			}
			if IsNull(tt.other) {
				t.Errorf("IsNull(%#v) should be false", tt.other)
			}
		})
	}
}

func TestNullString(t *testing.T) {
	if got := NULL.String(); got != "Null" {
		t.Errorf("Expected 'Null', got %q", got)
	}
	if got := fmt.Sprint(NULL); got != "Null" {
		t.Errorf("Expected fmt to print 'Null', got %q", got)
	}
}

func TestNullJSON(t *testing.T) {
	data, err := json.Marshal(NULL)
	if err != nil {
		t.Fatalf("Failed to marshal NULL: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("Expected null, got %s", data)
	}

	data, err = json.Marshal(map[string]any{"cuda": NULL, "osx": "13.0"})
	if err != nil {
		t.Fatalf("Failed to marshal map: %v", err)
	}
	if string(data) != `{"cuda":null,"osx":"13.0"}` {
		t.Errorf("Unexpected JSON: %s", data)
	}
}

func TestNullYAML(t *testing.T) {
	data, err := yaml.Marshal(map[string]any{"cuda": NULL})
	if err != nil {
		t.Fatalf("Failed to marshal NULL: %v", err)
	}
	if string(data) != "cuda: null\n" {
		t.Errorf("Unexpected YAML: %q", data)
	}
}

func TestMetadata(t *testing.T) {
	info := Info()
	if info.Version != "0.0.43" {
		t.Errorf("Expected version 0.0.43, got %s", info.Version)
	}
	if info.License != "ISC" {
		t.Errorf("Expected license ISC, got %s", info.License)
	}

	if len(Exports) != 7 {
		t.Fatalf("Expected 7 exported names, got %d", len(Exports))
	}
	for _, name := range Exports {
		v, ok := info.Lookup(name)
		if !ok {
			t.Errorf("Exported name %s has no metadata value", name)
			continue
		}
		if v == "" {
			t.Errorf("Exported name %s is empty", name)
		}
	}

	if _, ok := info.Lookup("NULL"); ok {
		t.Error("NULL is not a metadata name")
	}
}
