package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/openfroyo/vpkg/pkg/plugins"
)

// ErrorClass represents the classification of an error for retry and recovery logic.
type ErrorClass string

const (
	// ErrorClassTransient indicates a temporary failure that may succeed on retry.
	// Examples: cancelled runs, a locked snapshot database.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassConflict indicates two plugins reported different records for the
	// same virtual package.
	ErrorClassConflict ErrorClass = "conflict"

	// ErrorClassPermanent indicates a non-recoverable error.
	// Examples: a failing plugin hook, an invalid record.
	ErrorClassPermanent ErrorClass = "permanent"
)

// EngineError represents a classified error with context.
// nolint:revive // EngineError is intentionally named to distinguish from standard errors
type EngineError struct {
	// Class is the error classification for retry logic.
	Class ErrorClass `json:"class"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Code is an optional error code for programmatic handling.
	Code string `json:"code,omitempty"`

	// Plugin is the plugin that caused the error, if applicable.
	Plugin string `json:"plugin,omitempty"`

	// Operation is the step being performed when the error occurred.
	Operation string `json:"operation,omitempty"`

	// Err is the underlying error that caused this error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Plugin != "" && e.Operation != "" {
		return fmt.Sprintf("[%s] %s (plugin=%s, operation=%s): %s",
			e.Class, e.Message, e.Plugin, e.Operation, e.unwrapMessage())
	}
	if e.Operation != "" {
		return fmt.Sprintf("[%s] %s (operation=%s): %s",
			e.Class, e.Message, e.Operation, e.unwrapMessage())
	}
	return fmt.Sprintf("[%s] %s: %s", e.Class, e.Message, e.unwrapMessage())
}

// Unwrap returns the underlying error for error chain inspection.
func (e *EngineError) Unwrap() error {
	return e.Err
}

func (e *EngineError) unwrapMessage() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// Is implements error equality checking for errors.Is.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}

// NewTransientError creates a new transient error.
func NewTransientError(message string, err error) *EngineError {
	return &EngineError{Class: ErrorClassTransient, Message: message, Err: err}
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string, err error) *EngineError {
	return &EngineError{Class: ErrorClassConflict, Message: message, Err: err}
}

// NewPermanentError creates a new permanent error.
func NewPermanentError(message string, err error) *EngineError {
	return &EngineError{Class: ErrorClassPermanent, Message: message, Err: err}
}

// WithPlugin adds plugin context to an error.
func (e *EngineError) WithPlugin(name string) *EngineError {
	e.Plugin = name
	return e
}

// WithOperation adds operation context to an error.
func (e *EngineError) WithOperation(operation string) *EngineError {
	e.Operation = operation
	return e
}

// WithCode adds an error code to an error.
func (e *EngineError) WithCode(code string) *EngineError {
	e.Code = code
	return e
}

// IsTransient returns true if the error is classified as transient.
func IsTransient(err error) bool {
	return classOf(err) == ErrorClassTransient
}

// IsConflict returns true if the error is classified as a conflict.
func IsConflict(err error) bool {
	return classOf(err) == ErrorClassConflict
}

// IsPermanent returns true if the error is classified as permanent.
func IsPermanent(err error) bool {
	return classOf(err) == ErrorClassPermanent
}

// IsRetryable returns true if the error can be retried.
func IsRetryable(err error) bool {
	return IsTransient(err)
}

func classOf(err error) ErrorClass {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Class
	}
	return ""
}

// Common error codes.
const (
	ErrCodeCancelled     = "CANCELLED"
	ErrCodeHookFailed    = "HOOK_FAILED"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeStoreFailed   = "STORE_FAILED"
	ErrCodeEncodeFailed  = "ENCODE_FAILED"
	ErrCodeFactsFailed   = "FACTS_FAILED"
	ErrCodeInvalidRecord = "INVALID_RECORD"
)

// classifyPluginError maps a manager failure to an EngineError.
func classifyPluginError(err error) *EngineError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewTransientError("detection interrupted", err).
			WithOperation("hooks").
			WithCode(ErrCodeCancelled)
	}

	var perr *plugins.PluginError
	if errors.As(err, &perr) {
		if perr.Kind == plugins.KindConflict {
			return NewConflictError("plugins disagree", err).
				WithPlugin(perr.Plugin).
				WithOperation("merge").
				WithCode(ErrCodeConflict)
		}
		return NewPermanentError("plugin failed", err).
			WithPlugin(perr.Plugin).
			WithOperation("hooks").
			WithCode(ErrCodeHookFailed)
	}

	return NewPermanentError("plugin failed", err).WithOperation("hooks").WithCode(ErrCodeHookFailed)
}
