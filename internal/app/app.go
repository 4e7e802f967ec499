package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/agbru/fourierbench/internal/calibration"
	"github.com/agbru/fourierbench/internal/cli"
	"github.com/agbru/fourierbench/internal/config"
	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/internal/foreign"
	"github.com/agbru/fourierbench/internal/logging"
	"github.com/agbru/fourierbench/internal/orchestration"
	"github.com/agbru/fourierbench/internal/server"
	"github.com/agbru/fourierbench/internal/signal"
	"github.com/agbru/fourierbench/internal/transform"
	"github.com/agbru/fourierbench/internal/ui"
)

// Application represents the fourierbench application instance.
// It encapsulates the configuration and provides methods to run
// the application in CLI or server mode.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Registry holds every implementation that can be benchmarked.
	Registry *transform.Registry
	// Logger receives engine and server events at the configured level.
	Logger logging.Logger
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// NewRegistry returns a registry holding the native baselines and every
// foreign kernel compiled into the binary.
//
// Returns:
//   - *transform.Registry: The populated registry.
//   - error: An error if two implementations share a label.
func NewRegistry() (*transform.Registry, error) {
	r := transform.DefaultRegistry()
	if err := foreign.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or validation fails.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails. The
//     error has already been reported on errWriter.
func New(args []string, errWriter io.Writer) (*Application, error) {
	registry, err := NewRegistry()
	if err != nil {
		fmt.Fprintln(errWriter, "Registry error:", err)
		return nil, err
	}

	programName := "fourierbench"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, registry.List())
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Registry:  registry,
		Logger:    logging.NewLevelLogger(errWriter, cfg.LogLevel),
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
// It dispatches to the server or to the CLI benchmark.
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	// Respects --no-color and NO_COLOR.
	ui.InitTheme(a.Config.NoColor)
	signal.InitDefault(signal.NewEntropyGenerator())

	if a.Config.ServerMode {
		return a.runServer()
	}
	return a.runBenchmark(ctx, out)
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Registry, a.Config, server.WithLogger(a.Logger))
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runBenchmark orchestrates the execution of the CLI benchmark.
func (a *Application) runBenchmark(ctx context.Context, out io.Writer) int {
	ctx, cancels := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancels.Cleanup()

	impls, err := cli.GetImplementationsToRun(a.Config, a.Registry)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	verbose := !a.Config.JSONOutput && !a.Config.Quiet
	infoOut := out
	if !verbose {
		infoOut = io.Discard
	}

	if a.Config.AutoReps && a.Config.Mode == config.ModeConcurrent {
		updated, err := calibration.AutoRepetitions(a.Config, impls, infoOut)
		if err != nil {
			return apperrors.HandleRunError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
		}
		a.Config = updated
	}

	if verbose {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(impls, a.Config, out)
	}

	runCfg, err := orchestration.NewRunConfig(a.Config)
	if err != nil {
		return apperrors.HandleRunError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	opts := []orchestration.Option{orchestration.WithLogger(a.Logger)}
	if verbose {
		opts = append(opts, orchestration.WithProgress(out))
	}

	start := time.Now()
	result, err := orchestration.Run(ctx, impls, runCfg, opts...)
	if err != nil {
		// Keep stdout parseable in JSON and quiet modes.
		statusOut := out
		if !verbose {
			statusOut = a.ErrWriter
		}
		return apperrors.HandleRunError(err, time.Since(start), statusOut, cli.CLIColorProvider{})
	}

	return a.reportResult(result, out)
}

// reportResult prints the result in the selected format and returns the exit
// code of the run.
func (a *Application) reportResult(result *orchestration.RunResult, out io.Writer) int {
	exitCode := apperrors.ExitSuccess
	if !a.Config.JSONOutput && !a.Config.Quiet {
		exitCode = orchestration.AnalyzeRunResult(result, a.Config.Tolerance, out)
	} else if !result.Consistent(a.Config.Tolerance) {
		exitCode = apperrors.ExitErrorMismatch
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		JSONOutput: a.Config.JSONOutput,
		Quiet:      a.Config.Quiet,
	}
	if _, err := cli.DisplayReportWithConfig(out, result.Report(a.Config.Tolerance), outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return exitCode
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
