package tts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("tts: API key required")

	// ErrMissingVoice is returned when no voice ID is configured.
	ErrMissingVoice = errors.New("tts: voice ID required")
)

// APIError represents an error response from a TTS API.
type APIError struct {
	StatusCode int
	Message    string
	Provider   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("tts [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// WrapError annotates an error with the provider name.
func WrapError(provider string, err error) error {
	return fmt.Errorf("tts [%s]: %w", provider, err)
}
