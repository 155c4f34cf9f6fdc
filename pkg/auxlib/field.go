package auxlib

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/gjson"
)

type fieldState uint8

const (
	fieldAbsent fieldState = iota
	fieldNull
	fieldSet
)

// Field holds a value that may be absent, explicitly null, or set. The zero value is
// absent.
type Field[T any] struct {
	value T
	state fieldState
}

// Set returns a field holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, state: fieldSet}
}

// NullField returns a field that was explicitly set to null.
func NullField[T any]() Field[T] {
	return Field[T]{state: fieldNull}
}

// FromPointer builds a field from a decoded pointer. present reports whether the key
// existed in the source document; a nil pointer for a present key means null.
func FromPointer[T any](p *T, present bool) Field[T] {
	switch {
	case !present:
		return Field[T]{}
	case p == nil:
		return NullField[T]()
	default:
		return Set(*p)
	}
}

// IsSet reports whether the field holds a value.
func (f Field[T]) IsSet() bool { return f.state == fieldSet }

// IsNull reports whether the field was explicitly null.
func (f Field[T]) IsNull() bool { return f.state == fieldNull }

// IsAbsent reports whether the field was never given.
func (f Field[T]) IsAbsent() bool { return f.state == fieldAbsent }

// Get returns the value and whether it is set.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == fieldSet
}

// OrElse returns the value when set, def otherwise.
func (f Field[T]) OrElse(def T) T {
	if f.state == fieldSet {
		return f.value
	}
	return def
}

// Value returns the held value, NULL for an explicit null, or nil when absent.
func (f Field[T]) Value() any {
	switch f.state {
	case fieldSet:
		return f.value
	case fieldNull:
		return NULL
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler. Absent and null fields both encode as null;
// use omitempty-aware wrappers when the distinction must survive encoding.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != fieldSet {
		return NULL.MarshalJSON()
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.value = zero
		f.state = fieldNull
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.value = v
	f.state = fieldSet
	return nil
}

// Lookup reads path (gjson syntax) from a JSON document. It returns nil when the path
// does not exist, NULL when it exists and is null, and the decoded value otherwise.
func Lookup(doc []byte, path string) any {
	res := gjson.GetBytes(doc, path)
	if !res.Exists() {
		return nil
	}
	if res.Type == gjson.Null {
		return NULL
	}
	return res.Value()
}
