package orchestration

import (
	"slices"

	"github.com/agbru/fourierbench/internal/config"
	apperrors "github.com/agbru/fourierbench/internal/errors"
)

// Mode selects how a run schedules implementations.
type Mode int

const (
	// ModeConcurrent times repeated batches with one goroutine per
	// implementation and records no errors.
	ModeConcurrent Mode = iota
	// ModeValidate times a single call per implementation sequentially and
	// records the MSE of the reference pair.
	ModeValidate
)

// String returns the canonical name of the mode.
func (m Mode) String() string {
	if m == ModeConcurrent {
		return config.ModeConcurrent
	}
	return config.ModeValidate
}

// ParseMode converts a mode name ("concurrent", "profile", "validate",
// "sequential") into a Mode.
func ParseMode(s string) (Mode, error) {
	name, err := config.NormalizeMode(s)
	if err != nil {
		return ModeValidate, err
	}
	if name == config.ModeConcurrent {
		return ModeConcurrent, nil
	}
	return ModeValidate, nil
}

// RunConfig is the engine's view of a run.
type RunConfig struct {
	// Sizes are the input lengths, positive and strictly increasing.
	Sizes []int
	// Repetitions is the number of calls per batch in concurrent mode.
	// Validate mode always performs a single call.
	Repetitions int
	// Mode selects concurrent timing or sequential validation.
	Mode Mode
	// Seed, when non-nil, reseeds the generator for every size.
	Seed *int64
	// Reference names the two implementations compared in validate mode.
	Reference [2]string
}

// NewRunConfig derives a RunConfig from the application configuration.
//
// Parameters:
//   - cfg: The parsed application configuration.
//
// Returns:
//   - RunConfig: The engine configuration.
//   - error: A ConfigError for an unknown mode.
func NewRunConfig(cfg config.AppConfig) (RunConfig, error) {
	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return RunConfig{}, err
	}
	return RunConfig{
		Sizes:       append([]int(nil), cfg.Sizes...),
		Repetitions: cfg.Repetitions,
		Mode:        mode,
		Seed:        cfg.Seed,
		Reference:   cfg.Reference,
	}, nil
}

// Validate checks that the run can proceed with implementations named labels.
//
// Parameters:
//   - labels: The labels of the implementations, in run order.
//
// Returns:
//   - error: An apperrors.ConfigError (matching ErrInvalidConfiguration) or nil.
func (c RunConfig) Validate(labels []string) error {
	if len(c.Sizes) == 0 {
		return apperrors.NewConfigError("at least one size is required")
	}
	for i, s := range c.Sizes {
		if s <= 0 {
			return apperrors.NewConfigError("sizes must be positive: %d", s)
		}
		if i > 0 && s <= c.Sizes[i-1] {
			return apperrors.NewConfigError("sizes must be strictly increasing: %d follows %d", s, c.Sizes[i-1])
		}
	}
	if c.Repetitions < 1 {
		return apperrors.NewConfigError("repetitions must be at least 1: %d", c.Repetitions)
	}
	if len(labels) == 0 {
		return apperrors.NewConfigError("at least one implementation is required")
	}
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			return apperrors.NewConfigError("duplicate implementation label: '%s'", l)
		}
		seen[l] = struct{}{}
	}

	if c.Mode == ModeValidate {
		a, b := c.Reference[0], c.Reference[1]
		if a == "" || b == "" {
			return apperrors.NewConfigError("validate mode needs a reference pair")
		}
		if a == b {
			return apperrors.NewConfigError("reference pair must name two different implementations: '%s'", a)
		}
		for _, r := range c.Reference {
			if !slices.Contains(labels, r) {
				return apperrors.NewConfigError("reference implementation '%s' is not part of the run", r)
			}
		}
	}
	return nil
}
