package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

var (
	// ErrMissingCredential indicates the API key is not present in the environment
	ErrMissingCredential = errors.New("API key environment variable not set")
	// ErrRequestInFlight is returned when a message is sent while another is outstanding
	ErrRequestInFlight = errors.New("a chat request is already in flight")
	// ErrEmptyResponse indicates the provider answered without any text
	ErrEmptyResponse = errors.New("empty response from provider")
)

// ConfigurationError is returned when a session cannot be established because
// of missing configuration. Nothing is cached; the next call tries again.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %v", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ProviderError wraps any failure while producing a chat reply
type ProviderError struct {
	Op         string
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s via %s failed (status %d): %v", e.Op, e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s via %s failed: %v", e.Op, e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// newProviderError wraps err, keeping an API status code when one can be found
func newProviderError(op, provider string, err error) *ProviderError {
	pe := &ProviderError{Op: op, Provider: provider, Err: err}
	if apiErr := ExtractAPIError(err); apiErr != nil {
		pe.StatusCode = apiErr.StatusCode
	}
	return pe
}

// APIError represents an error from the AI provider API
type APIError struct {
	Message    string
	Type       string
	Code       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

// statusCodePattern only matches a code that is introduced as a status, so
// ports and address octets in network errors are never read as one.
var statusCodePattern = regexp.MustCompile(`(?i)(?:\bstatus(?:\s+code)?:?\s*|\berror\s+|":\s+)([45]\d\d)\b`)

// ExtractAPIError extracts API error details from an SDK error. Typed SDK
// errors are preferred; the message text is the fallback.
func ExtractAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return &APIError{
			Message:    openaiErr.Message,
			Type:       openaiErr.Type,
			Code:       openaiErr.Code,
			StatusCode: openaiErr.StatusCode,
		}
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		extracted := &APIError{
			Message:    genaiErr.Message,
			Type:       genaiErr.Status,
			StatusCode: genaiErr.Code,
		}
		if genaiErr.Code == 429 {
			extracted.Type = "rate_limit_error"
		}
		return extracted
	}

	errStr := err.Error()
	match := statusCodePattern.FindStringSubmatch(errStr)
	if match == nil {
		return nil
	}
	code, convErr := strconv.Atoi(match[1])
	if convErr != nil {
		return nil
	}

	extracted := &APIError{
		StatusCode: code,
		Message:    errStr,
	}
	if code == 429 {
		extracted.Type = "rate_limit_error"
	}

	// Try to parse JSON error details if present
	if jsonStart := strings.Index(errStr, "{"); jsonStart != -1 {
		jsonStr := errStr[jsonStart:]
		if jsonEnd := strings.LastIndex(jsonStr, "}"); jsonEnd != -1 {
			jsonStr = jsonStr[:jsonEnd+1]
			var errorData struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			}
			if json.Unmarshal([]byte(jsonStr), &errorData) == nil && errorData.Message != "" {
				extracted.Message = errorData.Message
				extracted.Code = errorData.Code
				if errorData.Type != "" {
					extracted.Type = errorData.Type
				}
			}
		}
	}

	return extracted
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var pe *ProviderError
	if errors.As(err, &pe) && pe.StatusCode == 429 {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "resource_exhausted") ||
		strings.Contains(errStr, "too many requests")
}

// IsConfigurationError checks if an error was caused by missing configuration
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
