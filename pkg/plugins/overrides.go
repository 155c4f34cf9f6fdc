package plugins

import (
	"os"
	"sort"
	"strings"

	"github.com/openfroyo/vpkg/pkg/auxlib"
)

// OverridePrefix prefixes the environment variables that override detection.
const OverridePrefix = "CONDA_OVERRIDE_"

// LookupEnvFunc matches os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// Overrides resolves user overrides from the environment and a config file. The zero
// value applies no overrides.
type Overrides struct {
	lookupEnv LookupEnvFunc
	file      map[string]auxlib.Field[string]
}

// NewOverrides reads the process environment and the given config-file values.
func NewOverrides(file map[string]auxlib.Field[string]) Overrides {
	return NewOverridesWithEnv(os.LookupEnv, file)
}

// NewOverridesWithEnv is NewOverrides with an explicit environment lookup.
func NewOverridesWithEnv(lookup LookupEnvFunc, file map[string]auxlib.Field[string]) Overrides {
	normalized := make(map[string]auxlib.Field[string], len(file))
	for k, v := range file {
		normalized[strings.ToLower(k)] = v
	}
	return Overrides{lookupEnv: lookup, file: normalized}
}

// EnvVar returns the environment variable name for key ("cuda" -> CONDA_OVERRIDE_CUDA).
func EnvVar(key string) string {
	return OverridePrefix + strings.ToUpper(key)
}

// Lookup returns the override for key. The result is absent when nothing overrides
// the key, null when the record must be suppressed, and set when it carries the
// replacement value.
func (o Overrides) Lookup(key string) auxlib.Field[string] {
	if o.lookupEnv != nil {
		if v, ok := o.lookupEnv(EnvVar(key)); ok {
			v = strings.TrimSpace(v)
			if v == "" {
				return auxlib.NullField[string]()
			}
			return auxlib.Set(v)
		}
	}
	return o.file[strings.ToLower(key)]
}

// Resolve applies the override for key to a detected value. It returns the value to
// report and false when the record must be suppressed.
func (o Overrides) Resolve(key, detected string) (string, bool) {
	f := o.Lookup(key)
	switch {
	case f.IsNull():
		return "", false
	case f.IsSet():
		v, _ := f.Get()
		return v, true
	default:
		return detected, true
	}
}

// Keys returns the sorted config-file keys that carry an override.
func (o Overrides) Keys() []string {
	keys := make([]string, 0, len(o.file))
	for k, v := range o.file {
		if !v.IsAbsent() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
