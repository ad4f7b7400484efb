package engine

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestClaudeEngine_Name(t *testing.T) {
	eng := NewClaudeEngine()
	if eng.Name() != "claude" {
		t.Errorf("Name() = %q, want %q", eng.Name(), "claude")
	}
}

func TestCodexEngine_Name(t *testing.T) {
	eng := NewCodexEngine()
	if eng.Name() != "codex" {
		t.Errorf("Name() = %q, want %q", eng.Name(), "codex")
	}
}

func TestGeminiEngine_Name(t *testing.T) {
	eng := NewGeminiEngine()
	if eng.Name() != "gemini" {
		t.Errorf("Name() = %q, want %q", eng.Name(), "gemini")
	}
}

func TestClaudeEngine_GenerateFailsWhenNotInPath(t *testing.T) {
	originalPath := os.Getenv("PATH")
	defer os.Setenv("PATH", originalPath)
	os.Setenv("PATH", "")

	eng := NewClaudeEngine()
	_, err := eng.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error when claude is not in PATH")
	}
	if !strings.Contains(err.Error(), "claude CLI not found") {
		t.Errorf("unexpected error: %v", err)
	}
}
