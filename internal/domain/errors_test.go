// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"testing"
)

func TestDomainErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		err          *DomainError
		expectedType ErrorType
		expectedMsg  string
	}{
		{
			name:         "validation error",
			err:          NewValidationError("invalid webhook signature"),
			expectedType: ErrorTypeValidation,
			expectedMsg:  "invalid webhook signature",
		},
		{
			name:         "not found error",
			err:          NewNotFoundError("call not found"),
			expectedType: ErrorTypeNotFound,
			expectedMsg:  "call not found",
		},
		{
			name:         "conflict error",
			err:          NewConflictError("call revision mismatch"),
			expectedType: ErrorTypeConflict,
			expectedMsg:  "call revision mismatch",
		},
		{
			name:         "internal error",
			err:          NewInternalError("failed to store call"),
			expectedType: ErrorTypeInternal,
			expectedMsg:  "failed to store call",
		},
		{
			name:         "unavailable error",
			err:          NewUnavailableError("call store not available"),
			expectedType: ErrorTypeUnavailable,
			expectedMsg:  "call store not available",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.expectedType {
				t.Errorf("expected type %v, got %v", tt.expectedType, tt.err.Type)
			}
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected message %q, got %q", tt.expectedMsg, tt.err.Error())
			}
		})
	}
}

func TestDomainErrorWrapping(t *testing.T) {
	cause := errors.New("nats: connection closed")
	err := NewInternalError("failed to store call", cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	expected := "failed to store call: nats: connection closed"
	if err.Error() != expected {
		t.Errorf("expected message %q, got %q", expected, err.Error())
	}
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "domain error",
			err:      NewNotFoundError("call not found"),
			expected: ErrorTypeNotFound,
		},
		{
			name:     "wrapped domain error",
			err:      NewValidationError("invalid payload", errors.New("bad json")),
			expected: ErrorTypeValidation,
		},
		{
			name:     "plain error defaults to internal",
			err:      errors.New("something broke"),
			expected: ErrorTypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorType(tt.err); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
