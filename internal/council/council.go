// Package council runs the reviewer personas in parallel and assembles
// their findings into a single report.
package council

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/council-agents/council/internal/domain"
	"github.com/council-agents/council/internal/engine"
	"github.com/council-agents/council/internal/roster"
	"github.com/council-agents/council/internal/terminal"
)

// Delimiters marking the code context inside the full prompt.
const (
	contextOpen  = "<code_to_review>"
	contextClose = "</code_to_review>"
)

// Council executes one review session across a fixed roster.
type Council struct {
	engine    engine.Engine
	reviewers []roster.Reviewer
	logger    *terminal.Logger
	verbose   bool
}

// New creates a council. Returns an error if the roster is empty.
func New(eng engine.Engine, reviewers []roster.Reviewer, logger *terminal.Logger, verbose bool) (*Council, error) {
	if len(reviewers) == 0 {
		return nil, fmt.Errorf("at least one reviewer is required")
	}
	return &Council{
		engine:    eng,
		reviewers: reviewers,
		logger:    logger,
		verbose:   verbose,
	}, nil
}

// Run fans out one invocation per reviewer against the shared context and
// blocks until all of them finish. Results come back in registration order
// regardless of completion order: each invocation writes to its own slot,
// so no locking is needed and a failing reviewer never disturbs the others.
func (c *Council) Run(ctx context.Context, reviewContext string) ([]domain.AgentResult, time.Duration, error) {
	spinner := terminal.NewSpinner("Council deliberating", len(c.reviewers))
	completed := spinner.Completed()

	spinnerCtx, spinnerCancel := context.WithCancel(context.Background())
	spinnerDone := make(chan struct{})
	go func() {
		spinner.Run(spinnerCtx)
		close(spinnerDone)
	}()

	start := time.Now()

	results := make([]domain.AgentResult, len(c.reviewers))
	var wg sync.WaitGroup
	for i, reviewer := range c.reviewers {
		wg.Add(1)
		go func(slot int, rv roster.Reviewer) {
			defer wg.Done()
			results[slot] = c.invoke(ctx, rv, reviewContext)
			completed.Add(1)
		}(i, reviewer)
	}

	// Engines are killed via the shared context, so the goroutines always
	// come back; just wait for them.
	wg.Wait()
	spinnerCancel()
	<-spinnerDone

	if err := ctx.Err(); err != nil {
		return nil, time.Since(start), err
	}

	return results, time.Since(start), nil
}

// invoke runs a single reviewer against the shared context.
// Failures are captured in the result rather than returned: one broken
// invocation must never abort its siblings.
func (c *Council) invoke(ctx context.Context, rv roster.Reviewer, reviewContext string) domain.AgentResult {
	start := time.Now()

	result := domain.AgentResult{AgentName: rv.Name}

	if rv.Prompt == "" {
		result.ErrorDetail = "reviewer has an empty role prompt"
		result.Duration = time.Since(start)
		return result
	}

	if c.verbose {
		c.logger.Logf(terminal.StyleDim, "Agent [%s] is analyzing...", rv.Name)
	}

	prompt := BuildPrompt(rv.Prompt, reviewContext)
	output, err := c.engine.Generate(ctx, prompt)

	result.RawOutput = output
	result.Duration = time.Since(start)
	if err != nil {
		result.ErrorDetail = err.Error()
		return result
	}

	result.Succeeded = true
	return result
}

// BuildPrompt combines a role prompt with the code context using the fixed
// delimiter. An empty context is allowed; the engine is expected to note
// the lack of input.
func BuildPrompt(rolePrompt, reviewContext string) string {
	return fmt.Sprintf("%s\n\n%s\n%s\n%s\n", rolePrompt, contextOpen, reviewContext, contextClose)
}
