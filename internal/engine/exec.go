package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

// runCLI executes an engine CLI with the prompt piped via stdin.
// Stdout and stderr are merged into a single buffer so invocation failures
// surface in the captured output instead of being dropped.
// Piping via stdin avoids ARG_MAX limits on large prompts.
func runCLI(ctx context.Context, command string, args []string, prompt string) (string, error) {
	// #nosec G204 - command is always one of the known engine CLIs
	// (claude, codex, gemini), not user input.
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = strings.NewReader(prompt)

	combined := &bytes.Buffer{}
	cmd.Stdout = combined
	cmd.Stderr = combined

	// Run the CLI in its own process group so cancellation reaps any
	// children it spawned.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start %s: %w", command, err)
	}

	err := cmd.Wait()
	output := combined.String()
	if err != nil {
		if ctx.Err() != nil {
			return output, fmt.Errorf("%s interrupted: %w", command, ctx.Err())
		}
		return output, fmt.Errorf("%s failed: %w", command, err)
	}

	return output, nil
}
