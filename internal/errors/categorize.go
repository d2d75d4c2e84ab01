package errors

import "strings"

// GenerationErrorCategory maps a low-level generation failure onto the
// message shown to the user
type GenerationErrorCategory string

const (
	CategoryCredentials  GenerationErrorCategory = "credentials"
	CategoryRateLimit    GenerationErrorCategory = "rate_limit"
	CategoryConnectivity GenerationErrorCategory = "connectivity"
	CategoryUnknown      GenerationErrorCategory = "unknown"
)

// userMessages holds the tailored message for each category
var userMessages = map[GenerationErrorCategory]string{
	CategoryCredentials:  "The AI service is not configured correctly. Check that your API key is set and valid.",
	CategoryRateLimit:    "The AI service is receiving too many requests right now. Wait a moment and try again.",
	CategoryConnectivity: "Could not reach the AI service. Check your network connection and try again.",
	CategoryUnknown:      "The AI service failed to generate content. Try again shortly.",
}

// CategorizeGenerationError inspects the underlying error message and
// classifies the failure. Substring inspection is deliberate: provider
// SDKs wrap transport errors inconsistently, so the raw text is the
// only stable signal across versions.
func CategorizeGenerationError(err error) GenerationErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "api key") ||
		strings.Contains(msg, "api_key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "credential"):
		return CategoryCredentials
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "429"):
		return CategoryRateLimit
	case strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "network"):
		return CategoryConnectivity
	default:
		return CategoryUnknown
	}
}

// UserMessageFor returns the user-facing message for a generation failure
func UserMessageFor(err error) string {
	return userMessages[CategorizeGenerationError(err)]
}
