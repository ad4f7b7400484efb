// Package domain provides core types shared across the council pipeline.
package domain

// ExitCode represents the exit status of the council CLI.
type ExitCode int

const (
	// ExitOK indicates the review completed and, if the fixer ran, it converged.
	// Also used when the user declines the fixer phase.
	ExitOK ExitCode = 0
	// ExitExhausted indicates the fixer loop ran out of iterations without
	// observing the completion marker.
	ExitExhausted ExitCode = 1
	// ExitError indicates the run failed due to an error.
	ExitError ExitCode = 2
	// ExitInterrupted indicates the run was interrupted by a signal.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
