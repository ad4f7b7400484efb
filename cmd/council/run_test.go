package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/council-agents/council/internal/config"
	"github.com/council-agents/council/internal/council"
	"github.com/council-agents/council/internal/domain"
	"github.com/council-agents/council/internal/roster"
	"github.com/council-agents/council/internal/terminal"
)

// failingEngine fails every invocation.
type failingEngine struct{}

func (f *failingEngine) Name() string       { return "failing" }
func (f *failingEngine) IsAvailable() error { return nil }

func (f *failingEngine) Generate(ctx context.Context, prompt string) (string, error) {
	return "partial diagnostics", errors.New("engine unreachable")
}

func TestRunReview_AllAgentsFailedStillWritesReport(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("function f(){}\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	reportFile := filepath.Join(dir, council.DefaultReportName)

	opts := sessionOpts{
		Target:   dir,
		Resolved: config.Resolve(&config.Config{}, config.EnvState{}, config.FlagState{}, config.ResolvedConfig{}),
	}

	var code domain.ExitCode
	var haveFindings bool
	terminal.WithColorsDisabled(func() {
		code, haveFindings = runReview(context.Background(), &failingEngine{}, opts, reportFile, terminal.NewLogger())
	})

	if code != domain.ExitOK {
		t.Errorf("all-failed review should not fail the phase, got exit code %d", code)
	}
	if haveFindings {
		t.Error("all-failed review should skip the fix loop")
	}

	data, err := os.ReadFile(reportFile)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	report := string(data)

	for _, name := range roster.Names() {
		if !strings.Contains(report, "## Agent: "+name) {
			t.Errorf("missing section for %s:\n%s", name, report)
		}
	}
	if got := strings.Count(report, "**Agent failed:** engine unreachable"); got != len(roster.Names()) {
		t.Errorf("expected %d failure annotations, got %d:\n%s", len(roster.Names()), got, report)
	}
	if !strings.Contains(report, "partial diagnostics") {
		t.Errorf("captured output should appear in failed sections:\n%s", report)
	}
}
