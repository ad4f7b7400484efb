// Package main provides the CLI entry point for council.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/council-agents/council/internal/config"
	"github.com/council-agents/council/internal/domain"
	"github.com/council-agents/council/internal/terminal"
)

var (
	engineName      string
	maxIterations   int
	delay           time.Duration
	marker          string
	reportPath      string
	extensions      []string
	excludePatterns []string
	autoYes         bool
	noFix           bool
	fixOnly         bool
	verbose         bool
	noConfig        bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "council [target-dir]",
		Short: "Council of Agents - parallel persona code review with an automated fix loop",
		Long: `Run four reviewer personas in parallel over a directory of code, write a
combined report, then optionally loop an AI CLI over the findings until it
reports completion.

Exit codes:
  0 - Review complete (fixes applied or declined)
  1 - Fix loop exhausted its iteration budget
  2 - Error
  130 - Interrupted`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCouncil,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       buildVersionString(),
	}

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Configuration flags (defaults are resolved via config.Resolve with precedence: flag > env > config > default)
	rootCmd.Flags().StringVarP(&engineName, "engine", "e", "",
		"AI CLI to drive: claude, codex, gemini (default: claude, env: COUNCIL_ENGINE)")
	rootCmd.Flags().IntVarP(&maxIterations, "max-iterations", "m", 0,
		"Fix loop iteration budget (default: 10, env: COUNCIL_MAX_ITERATIONS)")
	rootCmd.Flags().DurationVarP(&delay, "delay", "d", 0,
		"Pause between fix iterations (default: 2s, env: COUNCIL_DELAY)")
	rootCmd.Flags().StringVar(&marker, "marker", "",
		"Completion marker the fix loop waits for (env: COUNCIL_MARKER)")
	rootCmd.Flags().StringVar(&reportPath, "report", "",
		"Report file path (default: COUNCIL_REPORT.md in target dir, env: COUNCIL_REPORT)")
	rootCmd.Flags().StringArrayVar(&extensions, "ext", nil,
		"File extension to review, with leading dot (repeatable, default: .js .ts .jsx .tsx)")
	rootCmd.Flags().StringArrayVar(&excludePatterns, "exclude-pattern", nil,
		"Skip files matching regex pattern (repeatable)")
	rootCmd.Flags().BoolVarP(&autoYes, "yes", "y", false,
		"Run the fix loop without prompting")
	rootCmd.Flags().BoolVar(&noFix, "no-fix", false,
		"Write the report and stop; never run the fix loop")
	rootCmd.Flags().BoolVar(&fixOnly, "fix", false,
		"Skip the review and run the fix loop against an existing report")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Print per-agent progress messages")
	rootCmd.Flags().BoolVar(&noConfig, "no-config", false,
		"Skip loading .council.yaml config file")

	if err := rootCmd.Execute(); err != nil {
		// Check if this is an exit code wrapper (not a real error)
		if exitErr, ok := err.(exitCodeError); ok {
			return exitErr.code.Int()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return domain.ExitError.Int()
	}

	return 0
}

func runCouncil(cmd *cobra.Command, args []string) error {
	if !terminal.IsStdoutTTY() {
		terminal.DisableColors()
	}

	logger := terminal.NewLogger()

	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr)
		logger.Log("Interrupted, shutting down...", terminal.StyleWarning)
		cancel()
	}()

	if noFix && fixOnly {
		logger.Log("--no-fix and --fix are mutually exclusive", terminal.StyleError)
		return exitCode(domain.ExitError)
	}

	// Load config file from the target directory (unless --no-config)
	var cfg *config.Config
	if !noConfig {
		result, err := config.LoadFromDirWithWarnings(target)
		if err != nil {
			logger.Logf(terminal.StyleError, "Config error: %v", err)
			return exitCode(domain.ExitError)
		}
		cfg = result.Config
		for _, warning := range result.Warnings {
			logger.Logf(terminal.StyleWarning, "Warning: %s", warning)
		}
	}

	flagState := config.FlagState{
		EngineSet:        cmd.Flags().Changed("engine"),
		MaxIterationsSet: cmd.Flags().Changed("max-iterations"),
		DelaySet:         cmd.Flags().Changed("delay"),
		MarkerSet:        cmd.Flags().Changed("marker"),
		ReportSet:        cmd.Flags().Changed("report"),
		ExtensionsSet:    cmd.Flags().Changed("ext"),
	}

	envState := config.LoadEnvState()

	flagValues := config.ResolvedConfig{
		Engine:          engineName,
		MaxIterations:   maxIterations,
		Delay:           delay,
		Marker:          marker,
		Report:          reportPath,
		Extensions:      extensions,
		ExcludePatterns: excludePatterns,
	}

	// Precedence: flags > env vars > config file > defaults
	resolved := config.Resolve(cfg, envState, flagState, flagValues)

	if resolved.MaxIterations < 1 {
		logger.Log("max-iterations must be >= 1", terminal.StyleError)
		return exitCode(domain.ExitError)
	}
	if resolved.Delay < 0 {
		logger.Log("delay must be >= 0", terminal.StyleError)
		return exitCode(domain.ExitError)
	}

	opts := sessionOpts{
		Target:   target,
		Resolved: resolved,
		AutoYes:  autoYes,
		NoFix:    noFix,
		FixOnly:  fixOnly,
		Verbose:  verbose,
	}

	code := executeSession(ctx, opts, logger)
	if ctx.Err() != nil {
		return exitCode(domain.ExitInterrupted)
	}
	return exitCode(code)
}
