// Package engine wraps the external reasoning CLIs behind a synchronous
// prompt-in, text-out interface.
package engine

import "context"

// Engine represents an external reasoning backend.
// Implementations include ClaudeEngine, CodexEngine, GeminiEngine.
type Engine interface {
	// Name returns the engine's identifier (e.g., "claude").
	Name() string

	// IsAvailable checks if the engine's backend CLI is installed and
	// accessible. Returns an error if the engine cannot be used.
	IsAvailable() error

	// Generate sends the prompt to the backend and blocks until it responds.
	// The returned text is the combined stdout and stderr of the CLI so
	// diagnostics stay visible to the caller. On failure the captured
	// output is still returned alongside the error.
	Generate(ctx context.Context, prompt string) (string, error)
}
