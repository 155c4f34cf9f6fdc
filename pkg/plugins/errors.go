package plugins

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a PluginError.
type ErrorKind string

const (
	// KindRegistration marks a plugin that could not be registered.
	KindRegistration ErrorKind = "registration"

	// KindHook marks a hook that failed or returned an invalid record.
	KindHook ErrorKind = "hook"

	// KindConflict marks two plugins reporting different records under one name.
	KindConflict ErrorKind = "conflict"
)

// ErrNilPlugin is returned when a nil plugin is registered.
var ErrNilPlugin = errors.New("plugin is nil")

// PluginError describes a failure attributed to one plugin.
type PluginError struct {
	Kind    ErrorKind
	Plugin  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	msg := fmt.Sprintf("plugin %q: %s", e.Plugin, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err contains a PluginError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var pe *PluginError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
