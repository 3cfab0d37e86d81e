package errors

import (
	"errors"
	"fmt"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// SyncError Tests
// -----------------------------------------------------------------------------

func TestSyncError_IsMatchesKindSentinel(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
	}{
		{KindUnreachable, ErrUnreachable},
		{KindRequestFailed, ErrRequestFailed},
		{KindMalformed, ErrMalformed},
		{KindNoCredential, ErrNoCredential},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := NewSyncError("list days", tt.kind, nil)
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", err, tt.sentinel)
			}
			for _, other := range []error{ErrUnreachable, ErrRequestFailed, ErrMalformed, ErrNoCredential} {
				if other == tt.sentinel {
					continue
				}
				if errors.Is(err, other) {
					t.Errorf("errors.Is(%v, %v) = true, want false", err, other)
				}
			}
		})
	}
}

func TestSyncError_Error(t *testing.T) {
	err := NewSyncError("delete entry", KindRequestFailed, nil).WithStatus(404)
	want := "sync error [op=delete entry, status=404]: request failed"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := fmt.Errorf("dial tcp: refused")
	err = NewSyncError("list days", KindUnreachable, cause)
	want = "sync error [op=list days]: cannot reach server: dial tcp: refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("SyncError should unwrap to its cause")
	}
}

func TestSyncError_As(t *testing.T) {
	wrapped := fmt.Errorf("refresh: %w", NewSyncError("list days", KindRequestFailed, nil).WithStatus(500))

	var syncErr *SyncError
	if !errors.As(wrapped, &syncErr) {
		t.Fatal("errors.As should find SyncError")
	}
	if syncErr.Status != 500 {
		t.Errorf("Status = %d, want 500", syncErr.Status)
	}
}

// -----------------------------------------------------------------------------
// ValidationError Tests
// -----------------------------------------------------------------------------

func TestValidationError(t *testing.T) {
	err := NewValidationError("weight must be positive").WithField("weight").WithValue(0.0)

	want := "validation error [field=weight, value=0]: weight must be positive"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should match ErrInvalidInput")
	}
	if err.Message() != "weight must be positive" {
		t.Errorf("Message() = %q", err.Message())
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestNotice(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unreachable", NewSyncError("op", KindUnreachable, nil), "Cannot reach server"},
		{"request failed with status", NewSyncError("op", KindRequestFailed, nil).WithStatus(503), "Request failed (status 503)"},
		{"request failed without status", NewSyncError("op", KindRequestFailed, nil), "Request failed"},
		{"malformed", NewSyncError("op", KindMalformed, nil), "Unexpected response from server"},
		{"no credential", NewSyncError("op", KindNoCredential, nil), "Not logged in"},
		{"validation", NewValidationError("pick a meal first"), "pick a meal first"},
		{"wrapped sync", fmt.Errorf("ctx: %w", NewSyncError("op", KindMalformed, nil)), "Unexpected response from server"},
		{"busy", ErrSessionBusy, "Finish or cancel the current edit first"},
		{"internal", errors.New("boom"), "Unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Notice(tt.err); got != tt.want {
				t.Errorf("Notice() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user-facing")
	}
	if !IsUserFacing(NewSyncError("op", KindUnreachable, nil)) {
		t.Error("SyncError should be user-facing")
	}
	if !IsUserFacing(NewValidationError("x")) {
		t.Error("ValidationError should be user-facing")
	}
	if IsUserFacing(errors.New("internal")) {
		t.Error("plain errors should not be user-facing")
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(NewSyncError("op", KindNoCredential, nil)); got != SeverityWarning {
		t.Errorf("GetSeverity(no credential) = %v, want warning", got)
	}
	if got := GetSeverity(NewSyncError("op", KindUnreachable, nil)); got != SeverityError {
		t.Errorf("GetSeverity(unreachable) = %v, want error", got)
	}
	if got := GetSeverity(ErrSessionBusy); got != SeverityInfo {
		t.Errorf("GetSeverity(busy) = %v, want info", got)
	}
}
