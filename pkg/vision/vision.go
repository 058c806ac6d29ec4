// Package vision provides the product-analysis backends for details mode.
//
// Analyzers answer a free-form question about a captured frame. The Gemini
// backend is primary; a local Ollama vision model can back it up through
// Chain. Failures stay inside the analyzer result — the processing loop
// only ever sees a spoken failure announcement.
package vision

import (
	"context"
	"errors"
	"fmt"
)

// DefaultPrompt is the product-analysis question asked in details mode.
const DefaultPrompt = "What is the main product in this image? List visible text. " +
	"Give a brief description about the product, brand, ingredients if food, " +
	"and any other useful information in 2-3 lines."

// Sentinel errors for common conditions.
var (
	// ErrUnavailable is returned when the analyzer is not configured.
	ErrUnavailable = errors.New("vision: analyzer unavailable")

	// ErrAllAnalyzersFailed is returned when every analyzer in a chain fails.
	ErrAllAnalyzersFailed = errors.New("vision: all analyzers failed")

	// ErrEmptyAnswer is returned when the backend responds with no content.
	ErrEmptyAnswer = errors.New("vision: empty answer")
)

// Analyzer answers a question about a JPEG image.
type Analyzer interface {
	// Available reports whether the analyzer is configured and usable.
	Available() bool

	// Identify answers the prompt for the image.
	Identify(ctx context.Context, jpeg []byte, prompt string) (string, error)

	// Name identifies the backend for logging.
	Name() string
}

// APIError represents an error response from an analysis API.
type APIError struct {
	StatusCode int
	Message    string
	Provider   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("vision [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}
