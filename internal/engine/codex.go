package engine

import (
	"context"
	"fmt"
	"os/exec"
)

// Compile-time interface check
var _ Engine = (*CodexEngine)(nil)

// CodexEngine implements the Engine interface for the Codex CLI backend.
type CodexEngine struct{}

// NewCodexEngine creates a new CodexEngine instance.
func NewCodexEngine() *CodexEngine {
	return &CodexEngine{}
}

// Name returns the engine's identifier.
func (c *CodexEngine) Name() string {
	return "codex"
}

// IsAvailable checks if the codex CLI is installed and accessible.
func (c *CodexEngine) IsAvailable() error {
	_, err := exec.LookPath("codex")
	if err != nil {
		return fmt.Errorf("codex CLI not found in PATH: %w", err)
	}
	return nil
}

// Generate runs 'codex exec' with the prompt piped via stdin.
// Color output is disabled so the captured text stays clean for the report.
func (c *CodexEngine) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.IsAvailable(); err != nil {
		return "", err
	}
	return runCLI(ctx, "codex", []string{"exec", "--color", "never", "-"}, prompt)
}
