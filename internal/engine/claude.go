package engine

import (
	"context"
	"fmt"
	"os/exec"
)

// Compile-time interface check
var _ Engine = (*ClaudeEngine)(nil)

// ClaudeEngine implements the Engine interface for the Claude CLI backend.
type ClaudeEngine struct{}

// NewClaudeEngine creates a new ClaudeEngine instance.
func NewClaudeEngine() *ClaudeEngine {
	return &ClaudeEngine{}
}

// Name returns the engine's identifier.
func (c *ClaudeEngine) Name() string {
	return "claude"
}

// IsAvailable checks if the claude CLI is installed and accessible.
func (c *ClaudeEngine) IsAvailable() error {
	_, err := exec.LookPath("claude")
	if err != nil {
		return fmt.Errorf("claude CLI not found in PATH: %w", err)
	}
	return nil
}

// Generate runs the claude CLI in non-interactive print mode with the
// prompt piped via stdin.
func (c *ClaudeEngine) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.IsAvailable(); err != nil {
		return "", err
	}
	return runCLI(ctx, "claude", []string{"--print", "-"}, prompt)
}
