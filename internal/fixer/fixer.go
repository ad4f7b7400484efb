// Package fixer drives the bounded fix loop against the engine until the
// completion marker appears or the iteration budget runs out.
package fixer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/council-agents/council/internal/engine"
	"github.com/council-agents/council/internal/terminal"
)

// Defaults for the fix loop.
const (
	DefaultMarker        = "<promise>COMPLETE</promise>"
	DefaultMaxIterations = 10
	DefaultDelay         = 2 * time.Second
)

// Status is the terminal outcome of a fix loop.
type Status int

const (
	// StatusUnknown is the zero value, returned alongside a non-nil error
	// when the loop never reached a terminal state.
	StatusUnknown Status = iota
	// StatusCompleted means the engine emitted the completion marker.
	StatusCompleted
	// StatusExhausted means the iteration budget ran out without the marker.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusCompleted:
		return "completed"
	case StatusExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// IsComplete reports whether output contains the completion marker.
// The match is an exact, case-sensitive substring check: nothing short of
// the full marker counts, and surrounding text does not matter.
func IsComplete(output, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.Contains(output, marker)
}

// Loop runs the same fix prompt repeatedly until the marker shows up.
type Loop struct {
	engine        engine.Engine
	maxIterations int
	marker        string
	delay         time.Duration
	logger        *terminal.Logger
	verbose       bool
}

// NewLoop creates a fix loop. Zero or negative maxIterations and an empty
// marker fall back to the defaults; a negative delay falls back too.
func NewLoop(eng engine.Engine, maxIterations int, marker string, delay time.Duration, logger *terminal.Logger, verbose bool) *Loop {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if marker == "" {
		marker = DefaultMarker
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Loop{
		engine:        eng,
		maxIterations: maxIterations,
		marker:        marker,
		delay:         delay,
		logger:        logger,
		verbose:       verbose,
	}
}

// Run executes the loop with an unchanging prompt. Engine failures are
// logged and the loop keeps going; only context cancellation aborts it,
// returning StatusUnknown with the context error.
// Returns StatusCompleted as soon as an iteration's output carries the
// marker, StatusExhausted after maxIterations without it.
func (l *Loop) Run(ctx context.Context, prompt string) (Status, error) {
	l.logger.Log("Starting fixer loop...", terminal.StyleInfo)

	for i := 1; i <= l.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return StatusUnknown, err
		}

		l.logger.Logf(terminal.StyleInfo, "Iteration %d/%d", i, l.maxIterations)

		output, err := l.engine.Generate(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return StatusUnknown, ctx.Err()
			}
			l.logger.Logf(terminal.StyleWarning, "Iteration %d failed: %v", i, err)
		}
		if output != "" {
			fmt.Println(output)
		}

		if IsComplete(output, l.marker) {
			l.logger.Log("Fixes applied and verified.", terminal.StyleSuccess)
			return StatusCompleted, nil
		}

		if i < l.maxIterations && l.delay > 0 {
			select {
			case <-time.After(l.delay):
			case <-ctx.Done():
				return StatusUnknown, ctx.Err()
			}
		}
	}

	l.logger.Log("Max iterations reached.", terminal.StyleError)
	return StatusExhausted, nil
}

// BuildPrompt wraps a finished review report in the fix instructions.
// reportFile names where the report lives so the engine can re-read it.
// The rule order matters: the hardest findings get addressed first so
// later renames and test updates land on top of the structural changes.
func BuildPrompt(report, reportFile, marker string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I have a code review report in %s:\n\n", reportFile)
	b.WriteString("<report>\n")
	b.WriteString(report)
	if report != "" && !strings.HasSuffix(report, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("</report>\n\n")
	b.WriteString("Your Goal: Fix the code based on these agents' findings.\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Address the 'Domain Warden' issues first (they are hardest).\n")
	b.WriteString("2. Rename variables as requested by the 'Librarian'.\n")
	b.WriteString("3. Refactor structure as requested by the 'Architect'.\n")
	b.WriteString("4. Finally, update/add tests as requested by the 'QA Engineer'.\n")
	b.WriteString("5. After every file change, run the tests (npm test).\n")
	b.WriteString("6. If tests fail, fix them immediately.\n\n")
	fmt.Fprintf(&b, "When ALL items are addressed and tests pass, output exactly: %s.\n", marker)
	return b.String()
}
