// Copyright Callisi GmbH and each contributor.
// SPDX-License-Identifier: MIT

package constants

import (
	"context"
	"testing"
)

func TestHTTPHeaderConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{
			name:     "AuthorizationHeader",
			constant: AuthorizationHeader,
			expected: "authorization",
		},
		{
			name:     "RequestIDHeader",
			constant: RequestIDHeader,
			expected: "X-REQUEST-ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.constant != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.constant)
			}
		})
	}
}

func TestContextKeysAreDistinct(t *testing.T) {
	// The typed context keys must not collide with plain string keys of the
	// same value.
	ctx := context.WithValue(context.Background(), RequestIDContextID, "req-1")
	if v := ctx.Value("X-REQUEST-ID"); v != nil {
		t.Errorf("expected string key lookup to miss, got %v", v)
	}
	if v := ctx.Value(RequestIDContextID); v != "req-1" {
		t.Errorf("expected typed key lookup to hit, got %v", v)
	}

	ctx = context.WithValue(context.Background(), AuthorizationContextID, "token")
	if v := ctx.Value(AuthorizationContextID); v != "token" {
		t.Errorf("expected typed key lookup to hit, got %v", v)
	}
}
