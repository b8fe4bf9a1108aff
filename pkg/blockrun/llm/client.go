// Package llm defines the LLM client contract the question runner consumes,
// with CLI-backed and HTTP-backed implementations.
//
// The engine only needs a synchronous call: build a Request from a block's
// modifiers, send it, get text back. Streaming is deliberately out of
// scope; the engine consumes whole results.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Request configures one completion call. Fields map one-to-one onto the
// question block's modifiers.
type Request struct {
	Provider     string
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	APIKey       string
	Prompt       string
}

// Client sends prompts to an LLM provider.
type Client interface {
	// Complete sends a prompt and returns the model's text response.
	Complete(ctx context.Context, req Request) (string, error)
}

// ErrMissingAPIKey indicates the request had no credential for a provider
// that requires one.
var ErrMissingAPIKey = errors.New("missing API key")

// Error wraps a client failure with the operation and provider.
type Error struct {
	Op       string
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("llm %s (%s): %v", e.Op, e.Provider, e.Err)
	}
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}
