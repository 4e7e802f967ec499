// Package orchestration is the timing engine of the harness. It drives every
// implementation over a sequence of input sizes, either concurrently (timing
// only) or sequentially with a cross-check of two reference implementations,
// and turns the collected timings into a comparison report.
package orchestration

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/fourierbench/internal/cli"
	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/internal/logging"
	"github.com/agbru/fourierbench/internal/signal"
	"github.com/agbru/fourierbench/internal/transform"
	"github.com/agbru/fourierbench/internal/validation"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking benchmark
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

var (
	batchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fourierbench_batch_duration_seconds",
			Help:    "Elapsed time of one timed batch of transform calls",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14),
		},
		[]string{"implementation", "mode"},
	)
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fourierbench_runs_total",
			Help: "The total number of benchmark runs by outcome",
		},
		[]string{"mode", "status"},
	)
)

// RunResult is the outcome of a successful run.
type RunResult struct {
	// Mode is the mode the run executed in.
	Mode Mode
	// Sizes are the benchmarked input lengths, ascending.
	Sizes []int
	// Repetitions is the number of calls per timed batch.
	Repetitions int
	// Labels are the implementation labels in run order.
	Labels []string
	// Timings maps each label to one batch duration per size.
	Timings map[string][]time.Duration
	// Errors holds one MSE per size in validate mode and is nil otherwise.
	Errors []float64
	// Reference is the compared pair in validate mode.
	Reference [2]string
}

// Timing returns the per-size batch durations of label, or nil if label did
// not take part in the run.
func (r *RunResult) Timing(label string) []time.Duration {
	return r.Timings[label]
}

// Fastest returns the label and duration of the quickest implementation at
// the size with index sizeIdx. Ties go to the earlier label.
//
// Parameters:
//   - sizeIdx: The index into Sizes.
//
// Returns:
//   - string: The label of the fastest implementation, or "" if out of range.
//   - time.Duration: Its batch duration.
func (r *RunResult) Fastest(sizeIdx int) (string, time.Duration) {
	if sizeIdx < 0 || sizeIdx >= len(r.Sizes) {
		return "", 0
	}
	best, bestLabel := time.Duration(-1), ""
	for _, label := range r.Labels {
		d := r.Timings[label][sizeIdx]
		if best < 0 || d < best {
			best, bestLabel = d, label
		}
	}
	return bestLabel, best
}

// Option configures a run.
type Option func(*runOptions)

type runOptions struct {
	generator   *signal.Generator
	logger      logging.Logger
	progressOut io.Writer
}

// WithGenerator supplies the generator used for unseeded inputs. Without it,
// the process-wide default generator is used.
func WithGenerator(g *signal.Generator) Option {
	return func(o *runOptions) { o.generator = g }
}

// WithLogger routes engine debug events to logger.
func WithLogger(logger logging.Logger) Option {
	return func(o *runOptions) { o.logger = logger }
}

// WithProgress renders a spinner and progress bar to out while the run is
// in flight.
func WithProgress(out io.Writer) Option {
	return func(o *runOptions) { o.progressOut = out }
}

// Run benchmarks impls over cfg.Sizes in ascending order.
//
// For each size one input sequence is generated and shared read-only by every
// implementation. In concurrent mode each implementation runs in its own
// goroutine and performs cfg.Repetitions back-to-back calls; the elapsed time
// of the whole batch is recorded. All goroutines of a size are joined before
// the next size starts. In validate mode implementations run one after the
// other, once each, and the mean squared error between the reference pair is
// recorded for the size.
//
// The first error aborts the run. In-flight calls are never interrupted:
// ctx is consulted before each size, between repetitions and between
// sequential calls.
//
// Parameters:
//   - ctx: The context for cancellation between calls and for tracing.
//   - impls: The implementations to benchmark, with unique labels.
//   - cfg: The run configuration.
//   - opts: Optional generator, logger and progress display.
//
// Returns:
//   - *RunResult: The collected timings and errors, or nil on failure.
//   - error: An InvalidConfiguration error, a context error, or the first
//     implementation failure wrapped in an apperrors.RunError.
func Run(ctx context.Context, impls []transform.Implementation, cfg RunConfig, opts ...Option) (result *RunResult, err error) {
	o := runOptions{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	labels := transform.Labels(impls)
	if err := cfg.Validate(labels); err != nil {
		runsTotal.WithLabelValues(cfg.Mode.String(), "invalid").Inc()
		return nil, err
	}
	reps := cfg.Repetitions
	if cfg.Mode == ModeValidate {
		reps = 1
	}

	ctx, span := otel.Tracer("fourierbench/orchestration").Start(ctx, "Run",
		trace.WithAttributes(
			attribute.String("mode", cfg.Mode.String()),
			attribute.Int("sizes", len(cfg.Sizes)),
			attribute.Int("implementations", len(impls)),
			attribute.Int("repetitions", reps),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			o.logger.Error("run aborted", err, logging.String("mode", cfg.Mode.String()))
		}
		runsTotal.WithLabelValues(cfg.Mode.String(), status).Inc()
		o.logger.Debug("run finished",
			logging.String("mode", cfg.Mode.String()),
			logging.String("status", status),
			logging.Duration("elapsed", time.Since(start)))
	}()

	var progress chan cli.ProgressUpdate
	var displayWg sync.WaitGroup
	if o.progressOut != nil {
		progress = make(chan cli.ProgressUpdate, len(impls)*ProgressBufferMultiplier)
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, progress, len(impls), o.progressOut)
		defer func() {
			close(progress)
			displayWg.Wait()
		}()
	}

	e := &engine{
		impls:    impls,
		labels:   labels,
		cfg:      cfg,
		reps:     reps,
		logger:   o.logger,
		progress: progress,
	}
	res := &RunResult{
		Mode:        cfg.Mode,
		Sizes:       append([]int(nil), cfg.Sizes...),
		Repetitions: reps,
		Labels:      labels,
		Timings:     make(map[string][]time.Duration, len(impls)),
	}
	if cfg.Mode == ModeValidate {
		res.Errors = make([]float64, 0, len(cfg.Sizes))
		res.Reference = cfg.Reference
	}
	for _, label := range labels {
		res.Timings[label] = make([]time.Duration, 0, len(cfg.Sizes))
	}

	for si, size := range cfg.Sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		input := o.input(size, cfg.Seed)

		_, sizeSpan := otel.Tracer("fourierbench/orchestration").Start(ctx, "Size",
			trace.WithAttributes(attribute.Int("size", size)))
		var elapsed []time.Duration
		var mse float64
		if cfg.Mode == ModeConcurrent {
			elapsed, err = e.runConcurrent(ctx, size, input)
		} else {
			elapsed, mse, err = e.runValidate(ctx, size, input)
		}
		if err != nil {
			sizeSpan.RecordError(err)
			sizeSpan.End()
			return nil, err
		}
		sizeSpan.End()

		for i, label := range labels {
			res.Timings[label] = append(res.Timings[label], elapsed[i])
		}
		if cfg.Mode == ModeValidate {
			res.Errors = append(res.Errors, mse)
			e.logger.Debug("size validated",
				logging.Int("size", size),
				logging.Float64("mse", mse))
		}
		e.report(si, size)
	}
	return res, nil
}

// input returns the shared input sequence for one size. A seed reseeds per
// size so each size's input depends only on (size, seed).
func (o *runOptions) input(size int, seed *int64) []complex128 {
	if seed != nil {
		return signal.Generate(size, seed)
	}
	if o.generator != nil {
		return o.generator.Generate(size)
	}
	return signal.Default().Generate(size)
}

type engine struct {
	impls    []transform.Implementation
	labels   []string
	cfg      RunConfig
	reps     int
	logger   logging.Logger
	progress chan<- cli.ProgressUpdate
}

// runConcurrent launches one goroutine per implementation and waits for all
// of them. Each goroutine writes only its own slot of elapsed. Cancellation is
// observed between repetitions; a call in flight always completes.
func (e *engine) runConcurrent(ctx context.Context, size int, input []complex128) ([]time.Duration, error) {
	g, gctx := errgroup.WithContext(ctx)
	elapsed := make([]time.Duration, len(e.impls))

	for i, impl := range e.impls {
		g.Go(func() error {
			start := time.Now()
			for range e.reps {
				if err := gctx.Err(); err != nil {
					return err
				}
				if _, err := impl.Transform(input); err != nil {
					return apperrors.RunError{Implementation: impl.Name(), Size: size, Cause: err}
				}
			}
			elapsed[i] = time.Since(start)
			e.observe(i, size, elapsed[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return elapsed, nil
}

// runValidate calls each implementation once, in order, on the calling
// goroutine, then compares the outputs of the reference pair. Cancellation is
// observed between implementations.
func (e *engine) runValidate(ctx context.Context, size int, input []complex128) ([]time.Duration, float64, error) {
	elapsed := make([]time.Duration, len(e.impls))
	var ref [2][]complex128

	for i, impl := range e.impls {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		start := time.Now()
		out, err := impl.Transform(input)
		elapsed[i] = time.Since(start)
		if err != nil {
			return nil, 0, apperrors.RunError{Implementation: impl.Name(), Size: size, Cause: err}
		}
		e.observe(i, size, elapsed[i])
		for r, label := range e.cfg.Reference {
			if impl.Name() == label {
				ref[r] = out
			}
		}
	}

	mse, err := validation.MeanSquaredError(ref[0], ref[1])
	if err != nil {
		return nil, 0, apperrors.RunError{
			Implementation: e.cfg.Reference[0] + " vs " + e.cfg.Reference[1],
			Size:           size,
			Cause:          err,
		}
	}
	return elapsed, mse, nil
}

// observe records one batch in the metrics and the debug log.
func (e *engine) observe(i, size int, d time.Duration) {
	batchDuration.WithLabelValues(e.labels[i], e.cfg.Mode.String()).Observe(d.Seconds())
	e.logger.Debug("batch complete",
		logging.String("implementation", e.labels[i]),
		logging.Int("size", size),
		logging.Int("repetitions", e.reps),
		logging.Duration("elapsed", d))
}

// report publishes the progress of every implementation after a size.
func (e *engine) report(sizeIdx, size int) {
	if e.progress == nil {
		return
	}
	value := float64(sizeIdx+1) / float64(len(e.cfg.Sizes))
	for i := range e.impls {
		e.progress <- cli.ProgressUpdate{Index: i, Size: size, Value: value}
	}
}
