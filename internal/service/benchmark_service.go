package service

//go:generate mockgen -source=benchmark_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/internal/logging"
	"github.com/agbru/fourierbench/internal/orchestration"
	"github.com/agbru/fourierbench/internal/transform"
	"github.com/agbru/fourierbench/pkg/models"
)

var (
	// ErrMaxSizeExceeded is returned when a requested size exceeds the
	// configured limit.
	ErrMaxSizeExceeded = errors.New("maximum input size exceeded")
	// ErrMaxRepetitionsExceeded is returned when the requested repetitions
	// exceed the configured limit.
	ErrMaxRepetitionsExceeded = errors.New("maximum repetitions exceeded")
)

// Request describes one benchmark run submitted through the service.
type Request struct {
	// Sizes are the input lengths, positive and strictly increasing.
	Sizes []int
	// Repetitions is the number of calls per batch in concurrent mode.
	Repetitions int
	// Mode is "validate" or "concurrent".
	Mode string
	// Seed makes the inputs reproducible when non-nil.
	Seed *int64
	// Algo selects implementations by label; empty selects all.
	Algo []string
	// Reference is the compared pair in validate mode.
	Reference [2]string
	// Tolerance is the MSE tolerance of the consistency verdict.
	Tolerance float64
}

// Service defines the interface for benchmark services.
// This abstraction enables dependency injection and easier testing/mocking.
type Service interface {
	// Run validates req, runs the benchmark and returns its report.
	//
	// Parameters:
	//   - ctx: The context for cancellation between calls.
	//   - req: The benchmark request.
	//
	// Returns:
	//   - models.Report: The report of the run.
	//   - error: An error if validation or the run fails.
	Run(ctx context.Context, req Request) (models.Report, error)

	// Implementations returns the labels of every registered implementation.
	Implementations() []string
}

// Limits bounds the work a single request may ask for. Zero disables a limit.
type Limits struct {
	MaxSize        int
	MaxRepetitions int
}

// BenchmarkService handles the core logic of a benchmark request.
// It centralizes request validation, implementation selection and execution.
// Implements the Service interface.
type BenchmarkService struct {
	registry *transform.Registry
	limits   Limits
	logger   logging.Logger
}

// Ensure BenchmarkService implements Service interface.
var _ Service = (*BenchmarkService)(nil)

// NewBenchmarkService creates a new instance of BenchmarkService.
//
// Parameters:
//   - registry: The registry to select implementations from.
//   - limits: The per-request limits.
//   - logger: The logger for engine events; nil disables logging.
func NewBenchmarkService(registry *transform.Registry, limits Limits, logger logging.Logger) *BenchmarkService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &BenchmarkService{registry: registry, limits: limits, logger: logger}
}

// Implementations returns the sorted labels of the registry.
func (s *BenchmarkService) Implementations() []string {
	return s.registry.List()
}

// Run checks req against the limits, selects the implementations and runs
// the timing engine.
//
// Parameters:
//   - ctx: The context for cancellation.
//   - req: The benchmark request.
//
// Returns:
//   - models.Report: The report of the run.
//   - error: ErrMaxSizeExceeded, ErrMaxRepetitionsExceeded,
//     transform.ErrUnknownImplementation, a configuration error, or a run error.
func (s *BenchmarkService) Run(ctx context.Context, req Request) (models.Report, error) {
	if s.limits.MaxSize > 0 {
		for _, size := range req.Sizes {
			if size > s.limits.MaxSize {
				return models.Report{}, ErrMaxSizeExceeded
			}
		}
	}
	if s.limits.MaxRepetitions > 0 && req.Repetitions > s.limits.MaxRepetitions {
		return models.Report{}, ErrMaxRepetitionsExceeded
	}

	mode, err := orchestration.ParseMode(req.Mode)
	if err != nil {
		return models.Report{}, err
	}
	if mode == orchestration.ModeValidate {
		for _, label := range req.Reference {
			if label != "" && !s.registry.Has(label) {
				return models.Report{}, fmt.Errorf("%w: reference %s", transform.ErrUnknownImplementation, label)
			}
		}
	}
	impls, err := s.registry.Select(req.Algo)
	if err != nil {
		return models.Report{}, err
	}

	cfg := orchestration.RunConfig{
		Sizes:       req.Sizes,
		Repetitions: req.Repetitions,
		Mode:        mode,
		Seed:        req.Seed,
		Reference:   req.Reference,
	}
	result, err := orchestration.Run(ctx, impls, cfg, orchestration.WithLogger(s.logger))
	if err != nil {
		if apperrors.IsContextError(err) {
			s.logger.Debug("benchmark interrupted", logging.Err(err))
		} else {
			s.logger.Error("benchmark failed", err, logging.Int("sizes", len(req.Sizes)))
		}
		return models.Report{}, err
	}
	return result.Report(req.Tolerance), nil
}
