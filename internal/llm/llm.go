// Package llm wraps the Gemini agent behind a small Generator interface so
// services can be tested without network access.
package llm

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured means no API key was provided. The app still serves
	// uploads and extraction; only generation is unavailable.
	ErrNotConfigured = errors.New("generator not configured: missing API key")

	// ErrEmptyResponse means the model stream finished without a final answer.
	ErrEmptyResponse = errors.New("empty model response")
)

// Generator produces a completion for a fully rendered prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Unconfigured is the Generator used when no API key is present. Every call
// fails with ErrNotConfigured so callers can degrade instead of crashing.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
