package auxlib

import (
	"github.com/cespare/xxhash/v2"
)

// Null marks a value as "not defined". It is distinct from Go's nil so callers can
// tell a JSON key explicitly set to null from one that was never given.
//
// Every Null is equal to every other Null; NULL is the canonical instance.
type Null struct{}

// NULL is the canonical Null value.
var NULL = Null{}

var nullHash = xxhash.Sum64String("auxlib.Null")

// IsPresent always reports false.
func (Null) IsPresent() bool {
	return false
}

// Len always returns 0.
func (Null) Len() int {
	return 0
}

// Equal reports whether other is also a Null.
func (Null) Equal(other any) bool {
	switch o := other.(type) {
	case Null:
		return true
	case *Null:
		return o != nil
	default:
		return false
	}
}

// Hash returns the same value for every Null.
func (Null) Hash() uint64 {
	return nullHash
}

// String implements fmt.Stringer.
func (Null) String() string {
	return "Null"
}

// MarshalJSON implements json.Marshaler.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalYAML implements yaml.Marshaler.
func (Null) MarshalYAML() (interface{}, error) {
	return nil, nil
}

// IsNull reports whether v is a Null.
func IsNull(v any) bool {
	return NULL.Equal(v)
}
