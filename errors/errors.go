// Package errors provides standardized error handling for the V-CORE engine.
// It defines the core error taxonomy, error classification, and helper
// functions for consistent error wrapping across packages.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorInvalid represents errors due to invalid input or configuration
	ErrorInvalid ErrorClass = iota
	// ErrorTransient represents temporary errors that may be retried
	ErrorTransient
	// ErrorFatal represents unrecoverable errors that should stop processing
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorInvalid:
		return "invalid"
	case ErrorTransient:
		return "transient"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Core error taxonomy. Every failure surfaced by the engine wraps one of
// these sentinels so callers can branch with errors.Is.
var (
	// ErrInvalidPacket indicates malformed packet content or an
	// out-of-range supplied coherence value.
	ErrInvalidPacket = errors.New("invalid packet")

	// ErrInvalidCoherence indicates a crystallizer precondition violation:
	// a caller bypassed measurement validation.
	ErrInvalidCoherence = errors.New("coherence out of range")

	// ErrInvalidConfig indicates construction-time misconfiguration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrCorruptSeed indicates malformed or unrecognized-version persisted
	// engine state.
	ErrCorruptSeed = errors.New("corrupt seed")

	// ErrSeedNotFound indicates the requested seed does not exist in the
	// backing store.
	ErrSeedNotFound = errors.New("seed not found")

	// ErrCollapsed indicates the engine collapsed into the terminal
	// singularity state and needs an explicit reset before further
	// ingestion.
	ErrCollapsed = errors.New("engine collapsed into singularity")

	// ErrAlreadyStarted and friends cover service lifecycle misuse.
	ErrAlreadyStarted = errors.New("service already started")
	ErrNotStarted     = errors.New("service not started")
	ErrShuttingDown   = errors.New("service is shutting down")

	// ErrNoConnection indicates no NATS connection is available.
	ErrNoConnection = errors.New("no connection available")
)

// ClassifiedError wraps an error with its classification and origin.
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsInvalid checks if an error is due to invalid input
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}
	return errors.Is(err, ErrInvalidPacket) ||
		errors.Is(err, ErrInvalidCoherence) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrCorruptSeed)
}

// IsTransient checks if an error is transient and may be retried. The core
// engine never produces transient errors; only store backends do.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}
	return errors.Is(err, ErrNoConnection)
}

// IsFatal checks if an error is fatal and should stop processing
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}
	return false
}

// Classify returns the error class for an error. Unknown errors default to
// invalid: the core is deterministic, so an unclassified failure means bad
// input, not a condition worth retrying.
func Classify(err error) ErrorClass {
	if IsTransient(err) {
		return ErrorTransient
	}
	if IsFatal(err) {
		return ErrorFatal
	}
	return ErrorInvalid
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Class:     ErrorInvalid,
		Err:       Wrap(err, component, method, action),
		Component: component,
		Operation: method,
	}
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Class:     ErrorTransient,
		Err:       Wrap(err, component, method, action),
		Component: component,
		Operation: method,
	}
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Class:     ErrorFatal,
		Err:       Wrap(err, component, method, action),
		Component: component,
		Operation: method,
	}
}
