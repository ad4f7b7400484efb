package fixer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/council-agents/council/internal/terminal"
)

type scriptedEngine struct {
	calls   int
	outputs []string
	errs    []error
}

func (s *scriptedEngine) Name() string       { return "scripted" }
func (s *scriptedEngine) IsAvailable() error { return nil }

func (s *scriptedEngine) Generate(ctx context.Context, prompt string) (string, error) {
	i := s.calls
	s.calls++
	var out string
	var err error
	if i < len(s.outputs) {
		out = s.outputs[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return out, err
}

func testLoop(eng *scriptedEngine, maxIterations int) *Loop {
	return NewLoop(eng, maxIterations, DefaultMarker, 0, terminal.NewLogger(), false)
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name   string
		output string
		marker string
		want   bool
	}{
		{"exact marker alone", "<promise>COMPLETE</promise>", DefaultMarker, true},
		{"marker surrounded by text", "done.\n<promise>COMPLETE</promise>\nbye", DefaultMarker, true},
		{"bare COMPLETE does not count", "COMPLETE", DefaultMarker, false},
		{"partial wrapper does not count", "<promise>COMPLETE", DefaultMarker, false},
		{"case sensitive", "<promise>complete</promise>", DefaultMarker, false},
		{"empty output", "", DefaultMarker, false},
		{"empty marker never matches", "anything", "", false},
		{"custom marker", "all DONE here", "DONE", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsComplete(tt.output, tt.marker); got != tt.want {
				t.Errorf("IsComplete(%q, %q) = %v, want %v", tt.output, tt.marker, got, tt.want)
			}
		})
	}
}

func TestRun_StopsAtMarker(t *testing.T) {
	eng := &scriptedEngine{outputs: []string{
		"working on it",
		"still working",
		"all fixed <promise>COMPLETE</promise>",
		"should never run",
	}}

	terminal.WithColorsDisabled(func() {
		status, err := testLoop(eng, 10).Run(context.Background(), "fix it")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != StatusCompleted {
			t.Errorf("expected StatusCompleted, got %v", status)
		}
	})

	if eng.calls != 3 {
		t.Errorf("expected exactly 3 invocations, got %d", eng.calls)
	}
}

func TestRun_ExhaustsIterationBudget(t *testing.T) {
	eng := &scriptedEngine{outputs: []string{
		"nope", "nope", "nope", "nope", "nope", "nope",
	}}

	terminal.WithColorsDisabled(func() {
		status, err := testLoop(eng, 5).Run(context.Background(), "fix it")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != StatusExhausted {
			t.Errorf("expected StatusExhausted, got %v", status)
		}
	})

	if eng.calls != 5 {
		t.Errorf("expected exactly 5 invocations, got %d", eng.calls)
	}
}

func TestRun_EngineErrorDoesNotStopLoop(t *testing.T) {
	eng := &scriptedEngine{
		outputs: []string{"", "fixed <promise>COMPLETE</promise>"},
		errs:    []error{errors.New("engine crashed"), nil},
	}

	terminal.WithColorsDisabled(func() {
		status, err := testLoop(eng, 10).Run(context.Background(), "fix it")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status != StatusCompleted {
			t.Errorf("expected StatusCompleted after recovery, got %v", status)
		}
	})

	if eng.calls != 2 {
		t.Errorf("expected 2 invocations, got %d", eng.calls)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	eng := &scriptedEngine{outputs: []string{"x"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	terminal.WithColorsDisabled(func() {
		status, err := testLoop(eng, 10).Run(ctx, "fix it")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got: %v", err)
		}
		if status != StatusUnknown {
			t.Errorf("errored run must not report a terminal status, got %v", status)
		}
	})

	if eng.calls != 0 {
		t.Errorf("cancelled loop should not invoke the engine, got %d calls", eng.calls)
	}
}

func TestRun_CancelledDuringDelay(t *testing.T) {
	eng := &scriptedEngine{outputs: []string{"nope", "nope"}}
	loop := NewLoop(eng, 10, DefaultMarker, time.Minute, terminal.NewLogger(), false)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	terminal.WithColorsDisabled(func() {
		status, err := loop.Run(ctx, "fix it")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got: %v", err)
		}
		if status != StatusUnknown {
			t.Errorf("errored run must not report a terminal status, got %v", status)
		}
	})
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("delay wait did not respect cancellation, took %v", elapsed)
	}
}

func TestStatusString(t *testing.T) {
	if StatusUnknown.String() != "unknown" {
		t.Errorf("got %q", StatusUnknown.String())
	}
	if StatusCompleted.String() != "completed" {
		t.Errorf("got %q", StatusCompleted.String())
	}
	if StatusExhausted.String() != "exhausted" {
		t.Errorf("got %q", StatusExhausted.String())
	}
}

func TestNewLoop_Defaults(t *testing.T) {
	l := NewLoop(&scriptedEngine{}, 0, "", -1, terminal.NewLogger(), false)
	if l.maxIterations != DefaultMaxIterations {
		t.Errorf("maxIterations = %d", l.maxIterations)
	}
	if l.marker != DefaultMarker {
		t.Errorf("marker = %q", l.marker)
	}
	if l.delay != DefaultDelay {
		t.Errorf("delay = %v", l.delay)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("## Agent: QA\nfindings", "COUNCIL_REPORT.md", DefaultMarker)

	if !strings.Contains(prompt, "report in COUNCIL_REPORT.md:") {
		t.Errorf("missing report location:\n%s", prompt)
	}
	if !strings.Contains(prompt, "<report>\n## Agent: QA\nfindings\n</report>") {
		t.Errorf("report not wrapped in envelope:\n%s", prompt)
	}
	if !strings.Contains(prompt, "'Domain Warden' issues first") {
		t.Errorf("missing rule ordering:\n%s", prompt)
	}
	if !strings.Contains(prompt, "output exactly: "+DefaultMarker) {
		t.Errorf("missing marker instruction:\n%s", prompt)
	}

	wardenIdx := strings.Index(prompt, "Domain Warden")
	qaIdx := strings.Index(prompt, "QA Engineer")
	if wardenIdx == -1 || qaIdx == -1 || wardenIdx > qaIdx {
		t.Errorf("rules out of order:\n%s", prompt)
	}
}

func TestBuildPrompt_NamesConfiguredReportFile(t *testing.T) {
	prompt := BuildPrompt("findings", "out/review.md", DefaultMarker)

	if !strings.Contains(prompt, "report in out/review.md:") {
		t.Errorf("custom report path not threaded through:\n%s", prompt)
	}
	if strings.Contains(prompt, "COUNCIL_REPORT.md") {
		t.Errorf("default report name should not appear for a custom path:\n%s", prompt)
	}
}
