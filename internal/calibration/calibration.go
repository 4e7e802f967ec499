// Package calibration estimates how many repetitions a timed batch needs so
// that the fastest implementation's batch lasts long enough to be measured
// reliably on the current machine.
package calibration

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/agbru/fourierbench/internal/cli"
	"github.com/agbru/fourierbench/internal/config"
	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/internal/signal"
	"github.com/agbru/fourierbench/internal/transform"
)

const (
	// DefaultTarget is the batch duration -auto-reps aims for.
	DefaultTarget = 100 * time.Millisecond
	// DefaultMaxRepetitions bounds the estimate so a trivially fast
	// implementation cannot blow up the run time of the larger sizes.
	DefaultMaxRepetitions = 10_000
)

// ProbeResult holds the outcome of a single probe call.
type ProbeResult struct {
	Label    string
	Duration time.Duration
	Err      error
}

// Probe calls each implementation once on input, in order, and records the
// elapsed time of each call.
//
// Parameters:
//   - impls: The implementations to probe.
//   - input: The shared input sequence.
//
// Returns:
//   - []ProbeResult: One result per implementation, in order.
func Probe(impls []transform.Implementation, input []complex128) []ProbeResult {
	results := make([]ProbeResult, len(impls))
	for i, impl := range impls {
		start := time.Now()
		_, err := impl.Transform(input)
		results[i] = ProbeResult{Label: impl.Name(), Duration: time.Since(start), Err: err}
	}
	return results
}

// EstimateRepetitions probes every implementation once on a generated input
// of the given size and returns the number of back-to-back calls needed for
// the fastest one's batch to reach target, clamped to [1, maxReps].
//
// Parameters:
//   - impls: The implementations that will be benchmarked.
//   - size: The input length to probe at.
//   - target: The desired batch duration.
//   - maxReps: The upper bound of the estimate.
//
// Returns:
//   - int: The estimated repetitions.
//   - error: A ConfigError for unusable arguments, or the first probe
//     failure wrapped in an apperrors.RunError.
func EstimateRepetitions(impls []transform.Implementation, size int, target time.Duration, maxReps int) (int, error) {
	reps, _, err := estimate(impls, size, target, maxReps)
	return reps, err
}

func estimate(impls []transform.Implementation, size int, target time.Duration, maxReps int) (int, []ProbeResult, error) {
	switch {
	case len(impls) == 0:
		return 0, nil, apperrors.NewConfigError("calibration needs at least one implementation")
	case size <= 0:
		return 0, nil, apperrors.NewConfigError("calibration size must be positive: %d", size)
	case target <= 0:
		return 0, nil, apperrors.NewConfigError("calibration target must be positive: %s", target)
	case maxReps < 1:
		return 0, nil, apperrors.NewConfigError("maximum repetitions must be at least 1: %d", maxReps)
	}

	results := Probe(impls, signal.Default().Generate(size))
	fastest := time.Duration(math.MaxInt64)
	for _, r := range results {
		if r.Err != nil {
			return 0, results, apperrors.RunError{Implementation: r.Label, Size: size, Cause: r.Err}
		}
		fastest = min(fastest, r.Duration)
	}
	return repetitionsFor(target, fastest, maxReps), results, nil
}

// repetitionsFor returns ceil(target/d) clamped to [1, maxReps]. A call too
// fast for the clock to resolve gets the maximum.
func repetitionsFor(target, d time.Duration, maxReps int) int {
	if d <= 0 {
		return maxReps
	}
	reps := int((target + d - 1) / d)
	return min(max(reps, 1), maxReps)
}

// AutoRepetitions replaces cfg.Repetitions with an estimate taken at the
// smallest configured size, where calls are cheapest and a fixed batch is
// hardest to time.
//
// Parameters:
//   - cfg: The application configuration.
//   - impls: The implementations that will be benchmarked.
//   - out: The io.Writer for the probe summary.
//
// Returns:
//   - config.AppConfig: The configuration with the estimated repetitions.
//   - error: An error if no estimate could be made.
func AutoRepetitions(cfg config.AppConfig, impls []transform.Implementation, out io.Writer) (config.AppConfig, error) {
	if len(cfg.Sizes) == 0 {
		return cfg, apperrors.NewConfigError("at least one size is required")
	}
	size := cfg.Sizes[0]
	reps, results, err := estimate(impls, size, DefaultTarget, DefaultMaxRepetitions)
	if err != nil {
		return cfg, err
	}
	printProbeResults(out, size, results)
	fmt.Fprintf(out, "%sAuto-repetitions%s: %s%d%s call(s) per batch (target %s per batch at size %s)\n",
		cli.ColorGreen(), cli.ColorReset(),
		cli.ColorYellow(), reps, cli.ColorReset(),
		DefaultTarget, cli.FormatSize(size))

	updated := cfg
	updated.Repetitions = reps
	return updated, nil
}
