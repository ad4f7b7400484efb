// Package roster defines the fixed set of reviewer personas.
package roster

import (
	"embed"
	"fmt"
)

//go:embed prompts/*.md
var promptFS embed.FS

// Reviewer is one persona with a fixed role prompt. Immutable once loaded.
type Reviewer struct {
	Name   string
	Prompt string
}

// registrations maps persona names to their embedded prompt files.
// Report sections follow this order.
var registrations = []struct {
	name string
	file string
}{
	{"QA Engineer", "prompts/qa_engineer.md"},
	{"Architect", "prompts/architect.md"},
	{"Librarian", "prompts/librarian.md"},
	{"Domain Warden", "prompts/domain_warden.md"},
}

// Default returns the full council roster in registration order.
func Default() ([]Reviewer, error) {
	reviewers := make([]Reviewer, 0, len(registrations))
	seen := make(map[string]bool, len(registrations))

	for _, reg := range registrations {
		if reg.name == "" {
			return nil, fmt.Errorf("reviewer with empty name in registry")
		}
		if seen[reg.name] {
			return nil, fmt.Errorf("duplicate reviewer name %q", reg.name)
		}
		seen[reg.name] = true

		prompt, err := promptFS.ReadFile(reg.file)
		if err != nil {
			return nil, fmt.Errorf("failed to load prompt for %q: %w", reg.name, err)
		}
		if len(prompt) == 0 {
			return nil, fmt.Errorf("empty prompt for reviewer %q", reg.name)
		}

		reviewers = append(reviewers, Reviewer{
			Name:   reg.name,
			Prompt: string(prompt),
		})
	}

	return reviewers, nil
}

// Names returns the registered persona names in registration order.
func Names() []string {
	names := make([]string, len(registrations))
	for i, reg := range registrations {
		names[i] = reg.name
	}
	return names
}
