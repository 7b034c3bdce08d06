package ai

import (
	"context"

	logpkg "github.com/benvon/homework-helper/internal/logger"
)

// Context key types for logging (to avoid collisions with string keys)
type contextKey string

const requestIDContextKey contextKey = "request_id"

const (
	// MaxPreviewLength is the maximum length for preview strings in logs
	MaxPreviewLength = 200
	// RedactedValue is the value used to replace sensitive data
	RedactedValue = "[REDACTED]"
)

// WithRequestID returns a context carrying the request ID for provider logs
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// ExtractRequestID extracts a request ID from context if available
func ExtractRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDContextKey).(string); ok {
		return id
	}
	return ""
}

// SanitizeAPIKey sanitizes an API key for logging
func SanitizeAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return RedactedValue
	}
	// Show first 4 and last 4 characters, redact the middle
	return apiKey[:4] + RedactedValue + apiKey[len(apiKey)-4:]
}

// SanitizePrompt creates a safe preview of a prompt for logging.
// Even in fullLog mode the text is sanitized and size-limited.
func SanitizePrompt(prompt string, fullLog bool) string {
	return logpkg.SanitizeString(prompt, previewLength(fullLog))
}

// SanitizeResponse creates a safe preview of a response for logging
func SanitizeResponse(response string, fullLog bool) string {
	return logpkg.SanitizeString(response, previewLength(fullLog))
}

func previewLength(fullLog bool) int {
	if fullLog {
		return logpkg.MaxDebugContentLength
	}
	return MaxPreviewLength
}
