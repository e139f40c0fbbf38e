package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppErrorKindsAndStatus(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name   string
		err    *AppError
		kind   ErrorKind
		status int
	}{
		{"validation", NewValidationError("Please upload a file first."), KindValidation, http.StatusBadRequest},
		{"configuration", NewConfigurationError("API key not found"), KindConfiguration, http.StatusInternalServerError},
		{"encoding", NewEncodingError(cause), KindEncoding, http.StatusUnprocessableEntity},
		{"service", NewServiceError(cause), KindService, http.StatusBadGateway},
		{"not found", NewNotFoundError("Session not found"), KindNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("busy"), KindConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Fatalf("kind = %q, want %q", tt.err.Kind, tt.kind)
			}
			if tt.err.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", tt.err.StatusCode, tt.status)
			}
			wrapped := fmt.Errorf("outer: %w", tt.err)
			if !IsKind(wrapped, tt.kind) {
				t.Fatalf("IsKind(%v, %q) = false", wrapped, tt.kind)
			}
		})
	}
}

func TestAppErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewEncodingError(cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected encoding error to wrap its cause")
	}
	if err.Error() != "failed to read file: permission denied" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestIsKindOnPlainError(t *testing.T) {
	if IsKind(errors.New("plain"), KindService) {
		t.Fatalf("plain errors must not match any kind")
	}
}
