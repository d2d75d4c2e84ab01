package server

import (
	"net/http/httptest"
	"testing"
)

func TestRateLimiterBurstThenReject(t *testing.T) {
	rl := NewRateLimiter(60, 2, nil)
	defer rl.Close()

	if !rl.Allow("api:key-1") {
		t.Error("first request within burst should be allowed")
	}
	if !rl.Allow("api:key-1") {
		t.Error("second request within burst should be allowed")
	}
	if rl.Allow("api:key-1") {
		t.Error("request beyond burst capacity should be rejected")
	}

	// A different key has its own bucket.
	if !rl.Allow("api:key-2") {
		t.Error("independent key should not share a bucket")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		name           string
		requestsPerMin int
		want           int
	}{
		{"one per second", 60, 1},
		{"one per minute", 1, 60},
		{"six per minute", 6, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.requestsPerMin, 1, nil)
			defer rl.Close()
			if got := rl.RetryAfterSeconds(); got != tt.want {
				t.Errorf("RetryAfterSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		bearer   string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{"api key header preferred", "secret", "", true, true, "api:secret"},
		{"bearer token fallback", "", "Bearer tok", true, true, "api:tok"},
		{"ip fallback when no key", "", "", true, true, "ip:192.0.2.1"},
		{"ip only", "secret", "", false, true, "ip:192.0.2.1"},
		{"nothing enabled", "", "", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/generate", nil)
			r.RemoteAddr = "192.0.2.1:54321"
			if tt.apiKey != "" {
				r.Header.Set("X-API-Key", tt.apiKey)
			}
			if tt.bearer != "" {
				r.Header.Set("Authorization", tt.bearer)
			}
			if got := getRateLimitKey(r, tt.byAPIKey, tt.byIP); got != tt.want {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
