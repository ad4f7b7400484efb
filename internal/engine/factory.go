package engine

import "fmt"

// Supported lists all valid engine names.
var Supported = []string{"claude", "codex", "gemini"}

// DefaultEngine is the engine used when none is configured.
const DefaultEngine = "claude"

// New creates an Engine by name.
// Supported engines: claude, codex, gemini
func New(name string) (Engine, error) {
	switch name {
	case "claude":
		return NewClaudeEngine(), nil
	case "codex":
		return NewCodexEngine(), nil
	case "gemini":
		return NewGeminiEngine(), nil
	default:
		return nil, fmt.Errorf("unknown engine %q, supported: claude, codex, gemini", name)
	}
}
