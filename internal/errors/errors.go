// Package errors provides centralized error definitions and error handling utilities
// for the intake client. It defines the failure kinds reported by the remote
// gateway, validation errors raised by edit sessions, and helpers that turn any
// of them into a short notice suitable for display.
//
// # Error Types
//
// Gateway errors are reported as *SyncError and carry one of four kinds:
//   - KindUnreachable: no response was received
//   - KindRequestFailed: the server answered with a non-2xx status
//   - KindMalformed: the response body did not have the expected shape
//   - KindNoCredential: no bearer token was available, no request was issued
//
// Input errors are reported as *ValidationError.
//
// # Usage
//
//	err := errors.NewSyncError("list days", errors.KindRequestFailed, nil).WithStatus(503)
//
//	if errors.Is(err, errors.ErrRequestFailed) { ... }
//
//	var syncErr *errors.SyncError
//	if errors.As(err, &syncErr) && syncErr.Status == 401 { ... }
//
//	fmt.Println(errors.Notice(err)) // "Request failed (status 503)"
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo Severity = iota
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Gateway sentinel errors
var (
	// ErrUnreachable indicates that the remote API did not respond.
	ErrUnreachable = New("cannot reach server")
	// ErrRequestFailed indicates that the remote API rejected the request.
	ErrRequestFailed = New("request failed")
	// ErrMalformed indicates that the response did not have the expected shape.
	ErrMalformed = New("malformed response")
	// ErrNoCredential indicates that no bearer token is configured.
	ErrNoCredential = New("no credential")
)

// Session sentinel errors
var (
	// ErrSessionBusy indicates that another edit session is already active.
	ErrSessionBusy = New("an edit session is already active")
	// ErrNoSession indicates that the requested session is not active.
	ErrNoSession = New("no matching edit session")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// SyncError
// -----------------------------------------------------------------------------

// Kind classifies a gateway failure.
type Kind int

const (
	// KindUnreachable means no response was received.
	KindUnreachable Kind = iota
	// KindRequestFailed means the server answered with a non-success status.
	KindRequestFailed
	// KindMalformed means the response could not be decoded.
	KindMalformed
	// KindNoCredential means the call was short-circuited locally.
	KindNoCredential
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindRequestFailed:
		return "request_failed"
	case KindMalformed:
		return "malformed"
	case KindNoCredential:
		return "no_credential"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnreachable:
		return ErrUnreachable
	case KindRequestFailed:
		return ErrRequestFailed
	case KindMalformed:
		return ErrMalformed
	case KindNoCredential:
		return ErrNoCredential
	default:
		return nil
	}
}

// SyncError represents a failed remote operation.
//
// Example:
//
//	err := errors.NewSyncError("delete entry", errors.KindRequestFailed, nil).WithStatus(404)
//	fmt.Println(err) // "sync error [op=delete entry, status=404]: request failed"
type SyncError struct {
	Op     string
	Kind   Kind
	Status int // HTTP status, only set for KindRequestFailed
	cause  error
}

// NewSyncError creates a new SyncError.
func NewSyncError(op string, kind Kind, cause error) *SyncError {
	return &SyncError{Op: op, Kind: kind, cause: cause}
}

// WithStatus records the HTTP status returned by the server.
func (e *SyncError) WithStatus(status int) *SyncError {
	e.Status = status
	return e
}

// Error returns the formatted error message.
func (e *SyncError) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	}

	prefix := "sync error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("sync error [%s]", strings.Join(parts, ", "))
	}

	msg := "unknown failure"
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Unwrap returns the underlying error.
func (e *SyncError) Unwrap() error {
	return e.cause
}

// Is matches other SyncErrors and the sentinel for this error's kind.
func (e *SyncError) Is(target error) bool {
	if _, ok := target.(*SyncError); ok {
		return true
	}
	if s := e.Kind.sentinel(); s != nil && target == s {
		return true
	}
	return false
}

// Severity returns the error severity.
func (e *SyncError) Severity() Severity {
	if e.Kind == KindNoCredential {
		return SeverityWarning
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("weight must be positive")
//	err = err.WithField("weight").WithValue(0)
type ValidationError struct {
	message string
	cause   error
	Field   string
	Value   any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{message: message}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return target == ErrInvalidInput
}

// Message returns the bare message without field context.
func (e *ValidationError) Message() string {
	return e.message
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
// Gateway failures, validation failures and session conflicts are user-facing;
// anything else is treated as internal.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var syncErr *SyncError
	var validation *ValidationError
	if As(err, &syncErr) || As(err, &validation) {
		return true
	}
	return Is(err, ErrSessionBusy) || Is(err, ErrNoSession)
}

// Notice converts an error into the short text shown to the user.
// Internal errors collapse to a generic message; the details belong in the log.
//
// Example:
//
//	if err != nil {
//	    logger.Warn("refresh failed", "error", err)
//	    showStatus(errors.Notice(err))
//	}
func Notice(err error) string {
	if err == nil {
		return ""
	}

	var syncErr *SyncError
	if As(err, &syncErr) {
		switch syncErr.Kind {
		case KindUnreachable:
			return "Cannot reach server"
		case KindRequestFailed:
			if syncErr.Status != 0 {
				return fmt.Sprintf("Request failed (status %d)", syncErr.Status)
			}
			return "Request failed"
		case KindMalformed:
			return "Unexpected response from server"
		case KindNoCredential:
			return "Not logged in"
		}
	}

	var validation *ValidationError
	if As(err, &validation) {
		return validation.Message()
	}

	if Is(err, ErrSessionBusy) {
		return "Finish or cancel the current edit first"
	}
	if Is(err, ErrNoSession) {
		return "Nothing to confirm"
	}
	return "Unexpected error"
}

// GetSeverity returns the severity of an error.
// Unknown errors are reported as SeverityError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityInfo
	}
	var syncErr *SyncError
	if As(err, &syncErr) {
		return syncErr.Severity()
	}
	var validation *ValidationError
	if As(err, &validation) {
		return SeverityWarning
	}
	if Is(err, ErrSessionBusy) || Is(err, ErrNoSession) {
		return SeverityInfo
	}
	return SeverityError
}
