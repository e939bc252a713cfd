package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidRequest, "n = %d out of range", 42)

	if err.Code != ErrCodeInvalidRequest {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidRequest)
	}

	if err.Message != "n = 42 out of range" {
		t.Errorf("Message = %v, want %v", err.Message, "n = 42 out of range")
	}

	expected := "INVALID_REQUEST: n = 42 out of range"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeStore, cause, "loading session")

	if err.Code != ErrCodeStore {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeStore)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidRequest, "test"),
			code:     ErrCodeInvalidRequest,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidRequest, "test"),
			code:     ErrCodeStore,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeStore, New(ErrCodeInvalidRequest, "inner"), "outer"),
			code:     ErrCodeStore,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidRequest,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidRequest,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeSessionNotFound, "test"),
			expected: ErrCodeSessionNotFound,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidRequest, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code     Code
		expected int
	}{
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeInvalidMode, http.StatusBadRequest},
		{ErrCodeInvalidOrder, http.StatusBadRequest},
		{ErrCodeInvalidFormat, http.StatusBadRequest},
		{ErrCodeLimitExceeded, http.StatusUnprocessableEntity},
		{ErrCodeSessionNotFound, http.StatusNotFound},
		{ErrCodeSessionExpired, http.StatusGone},
		{ErrCodeStore, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.expected {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.expected)
		}
	}
}
