package engine

import (
	"context"
	"fmt"
	"os/exec"
)

// Compile-time interface check
var _ Engine = (*GeminiEngine)(nil)

// GeminiEngine implements the Engine interface for the Gemini CLI backend.
type GeminiEngine struct{}

// NewGeminiEngine creates a new GeminiEngine instance.
func NewGeminiEngine() *GeminiEngine {
	return &GeminiEngine{}
}

// Name returns the engine's identifier.
func (g *GeminiEngine) Name() string {
	return "gemini"
}

// IsAvailable checks if the gemini CLI is installed and accessible.
func (g *GeminiEngine) IsAvailable() error {
	_, err := exec.LookPath("gemini")
	if err != nil {
		return fmt.Errorf("gemini CLI not found in PATH: %w", err)
	}
	return nil
}

// Generate runs the gemini CLI with the prompt piped via stdin.
func (g *GeminiEngine) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.IsAvailable(); err != nil {
		return "", err
	}
	return runCLI(ctx, "gemini", []string{"-"}, prompt)
}
