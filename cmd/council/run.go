package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/council-agents/council/internal/config"
	"github.com/council-agents/council/internal/council"
	"github.com/council-agents/council/internal/domain"
	"github.com/council-agents/council/internal/engine"
	"github.com/council-agents/council/internal/fixer"
	"github.com/council-agents/council/internal/roster"
	"github.com/council-agents/council/internal/source"
	"github.com/council-agents/council/internal/terminal"
)

// sessionOpts bundles everything a review session needs.
type sessionOpts struct {
	Target   string
	Resolved config.ResolvedConfig
	AutoYes  bool
	NoFix    bool
	FixOnly  bool
	Verbose  bool
}

// executeSession runs the full pipeline: gather context, fan out the
// council, write the report, then optionally drive the fix loop.
func executeSession(ctx context.Context, opts sessionOpts, logger *terminal.Logger) domain.ExitCode {
	eng, err := engine.New(opts.Resolved.Engine)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return domain.ExitError
	}
	if err := eng.IsAvailable(); err != nil {
		logger.Logf(terminal.StyleError, "%s CLI not found: %v", eng.Name(), err)
		return domain.ExitError
	}

	reportFile := opts.Resolved.Report
	if reportFile == "" {
		reportFile = filepath.Join(opts.Target, council.DefaultReportName)
	}

	if !opts.FixOnly {
		code, haveFindings := runReview(ctx, eng, opts, reportFile, logger)
		if code != domain.ExitOK {
			return code
		}
		if !haveFindings {
			return domain.ExitOK
		}
	}

	if opts.NoFix {
		return domain.ExitOK
	}

	if !opts.AutoYes {
		accepted, err := terminal.Confirm("Do you want the fixer loop to attempt to fix these issues?")
		if err != nil {
			logger.Logf(terminal.StyleError, "%v", err)
			return domain.ExitError
		}
		if !accepted {
			logger.Log("Fix loop declined.", terminal.StyleDim)
			return domain.ExitOK
		}
	}

	return runFixer(ctx, eng, opts, reportFile, logger)
}

// runReview gathers the code context, runs every reviewer, and writes the
// report. Fails fast before any agent runs when nothing is reviewable.
// The report is written even when every agent fails: per-agent failures are
// recorded in their sections, never escalated. The second return value is
// false when there is nothing worth handing to the fix loop.
func runReview(ctx context.Context, eng engine.Engine, opts sessionOpts, reportFile string, logger *terminal.Logger) (domain.ExitCode, bool) {
	logger.Logf(terminal.StyleInfo, "Reading code context %s(%s)%s",
		terminal.Color(terminal.Dim), opts.Target, terminal.Color(terminal.Reset))

	reviewContext, err := source.Gather(opts.Target, source.Options{
		Extensions:      opts.Resolved.Extensions,
		ExcludePatterns: opts.Resolved.ExcludePatterns,
	})
	if err != nil {
		if errors.Is(err, source.ErrNoFiles) {
			logger.Logf(terminal.StyleError, "%v", err)
		} else {
			logger.Logf(terminal.StyleError, "Failed to gather context: %v", err)
		}
		return domain.ExitError, false
	}

	if opts.Verbose {
		logger.Logf(terminal.StyleDim, "Context size: %d bytes", len(reviewContext))
	}

	reviewers, err := roster.Default()
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return domain.ExitError, false
	}

	c, err := council.New(eng, reviewers, logger, opts.Verbose)
	if err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return domain.ExitError, false
	}

	results, wallClock, err := c.Run(ctx, reviewContext)
	if err != nil {
		logger.Logf(terminal.StyleError, "Review aborted: %v", err)
		return domain.ExitInterrupted, false
	}

	stats := domain.BuildStats(results, wallClock)
	for _, name := range stats.FailedAgents {
		logger.Logf(terminal.StyleWarning, "Agent [%s] failed; its section records the error", name)
	}

	report := council.RenderReport(opts.Target, time.Now(), results)
	if err := council.WriteReport(reportFile, report); err != nil {
		logger.Logf(terminal.StyleError, "%v", err)
		return domain.ExitError, false
	}

	logger.Logf(terminal.StyleSuccess, "Council adjourned in %s. Read the report at %s",
		terminal.FormatDuration(wallClock), reportFile)

	if stats.AllFailed() {
		logger.Log("Every agent invocation failed; skipping the fix loop.", terminal.StyleWarning)
		return domain.ExitOK, false
	}
	return domain.ExitOK, true
}

// runFixer reads the report back and drives the bounded fix loop.
func runFixer(ctx context.Context, eng engine.Engine, opts sessionOpts, reportFile string, logger *terminal.Logger) domain.ExitCode {
	reportData, err := os.ReadFile(reportFile)
	if err != nil {
		logger.Logf(terminal.StyleError, "Cannot read report %s: %v", reportFile, err)
		return domain.ExitError
	}

	prompt := fixer.BuildPrompt(string(reportData), reportFile, opts.Resolved.Marker)
	loop := fixer.NewLoop(eng, opts.Resolved.MaxIterations, opts.Resolved.Marker,
		opts.Resolved.Delay, logger, opts.Verbose)

	status, err := loop.Run(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return domain.ExitInterrupted
		}
		logger.Logf(terminal.StyleError, "Fix loop failed: %v", err)
		return domain.ExitError
	}

	switch status {
	case fixer.StatusCompleted:
		return domain.ExitOK
	case fixer.StatusExhausted:
		return domain.ExitExhausted
	default:
		logger.Logf(terminal.StyleError, "Unexpected fix loop status: %v", status)
		return domain.ExitError
	}
}
