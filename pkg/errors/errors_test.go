// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/docstore/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "document not found",
			wantStr: "[NOT_FOUND] document not found",
		},
		{
			name:    "decode_error",
			code:    errors.ErrDecode,
			message: "all decode profiles failed",
			wantStr: "[DECODE_FAILURE] all decode profiles failed",
		},
		{
			name:    "ambiguous_state_error",
			code:    errors.ErrAmbiguousState,
			message: "expected exactly one file",
			wantStr: "[AMBIGUOUS_STATE] expected exactly one file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := errors.Wrap(cause, errors.ErrFileWrite, "failed to write document")

	if !stderrors.Is(err, cause) {
		t.Error("Wrap() should preserve the wrapped error for errors.Is")
	}

	want := "[FILE_WRITE] failed to write document: disk full"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if errors.Wrap(nil, errors.ErrFileWrite, "no-op") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestIs_MatchesByCode(t *testing.T) {
	a := errors.New(errors.ErrNotFound, "document a1 not found")
	b := errors.New(errors.ErrNotFound, "a different message")
	c := errors.New(errors.ErrDecode, "decode failed")

	if !stderrors.Is(a, b) {
		t.Error("errors with the same code should match via errors.Is")
	}
	if stderrors.Is(a, c) {
		t.Error("errors with different codes should not match")
	}
}

func TestIsErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", errors.New(errors.ErrAmbiguousState, "two files"))

	if !errors.IsErrorCode(wrapped, errors.ErrAmbiguousState) {
		t.Error("IsErrorCode should see through wrapping")
	}
	if errors.IsErrorCode(wrapped, errors.ErrNotFound) {
		t.Error("IsErrorCode should not match a different code")
	}
	if errors.IsErrorCode(fmt.Errorf("plain"), errors.ErrNotFound) {
		t.Error("IsErrorCode should be false for non-StoreError")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrFileRead, "boom")); got != errors.ErrFileRead {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrFileRead)
	}
	if got := errors.GetErrorCode(fmt.Errorf("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrNotFound, "missing").
		WithDetail("namespace", "Contact").
		WithDetail("id", "a1")

	details := errors.GetErrorDetails(err)
	if details["namespace"] != "Contact" || details["id"] != "a1" {
		t.Errorf("details = %v, want namespace/id entries", details)
	}
}
