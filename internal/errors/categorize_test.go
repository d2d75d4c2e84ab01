package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCategorizeGenerationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected GenerationErrorCategory
	}{
		{
			name:     "missing api key",
			err:      errors.New("google: could not find default credentials, API key not set"),
			expected: CategoryCredentials,
		},
		{
			name:     "unauthorized status",
			err:      errors.New("googleapi: Error 401: unauthorized"),
			expected: CategoryCredentials,
		},
		{
			name:     "quota exhausted",
			err:      errors.New("googleapi: Error 429: quota exceeded for model"),
			expected: CategoryRateLimit,
		},
		{
			name:     "resource exhausted grpc",
			err:      errors.New("rpc error: code = ResourceExhausted desc = resource exhausted"),
			expected: CategoryRateLimit,
		},
		{
			name:     "context deadline",
			err:      fmt.Errorf("generate: %w", errors.New("context deadline exceeded")),
			expected: CategoryConnectivity,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp: connection refused"),
			expected: CategoryConnectivity,
		},
		{
			name:     "unclassified",
			err:      errors.New("model returned empty candidate list"),
			expected: CategoryUnknown,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategorizeGenerationError(tt.err); got != tt.expected {
				t.Errorf("CategorizeGenerationError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessageForNeverEmpty(t *testing.T) {
	for _, err := range []error{nil, errors.New("quota"), errors.New("???")} {
		if msg := UserMessageFor(err); msg == "" {
			t.Errorf("UserMessageFor(%v) returned empty message", err)
		}
	}
}
