// Package config provides the configuration management for the fourierbench
// harness. It defines the data structure for the configuration, handles the
// parsing of command-line arguments, environment variables and the optional
// YAML run file, and performs validation on the resulting values.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/fourierbench/internal/errors"
)

const (
	// EnvPrefix is the prefix for all environment variables used by fourierbench.
	EnvPrefix = "FOURIERBENCH_"
)

// Run modes accepted by -mode.
const (
	// ModeValidate runs implementations sequentially and records the MSE of
	// the reference pair per size.
	ModeValidate = "validate"
	// ModeConcurrent runs one goroutine per implementation per size and only
	// records timings.
	ModeConcurrent = "concurrent"
)

// Default configuration values.
// These can be overridden via the run file, environment variables or flags.
const (
	// DefaultSizes are the input lengths 2^10 to 2^13.
	DefaultSizes = "1024,2048,4096,8192"
	// DefaultRepetitions is the number of calls per batch.
	DefaultRepetitions = 1
	// DefaultMode is the default run mode.
	DefaultMode = ModeValidate
	// DefaultAlgo selects every registered implementation.
	DefaultAlgo = "all"
	// DefaultReference is the pair compared in validate mode.
	DefaultReference = "fft,dft"
	// DefaultTolerance is the MSE above which two implementations disagree.
	DefaultTolerance = 1e-9
	// DefaultTimeout is the default run timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultLogLevel keeps CLI output free of engine logs.
	DefaultLogLevel = "warn"
)

// AppConfig aggregates the harness configuration.
type AppConfig struct {
	// Sizes are the input lengths to benchmark, strictly increasing.
	Sizes []int
	// Repetitions is the number of back-to-back calls per batch in concurrent mode.
	Repetitions int
	// AutoReps estimates Repetitions from a calibration probe.
	AutoReps bool
	// Mode is ModeValidate or ModeConcurrent.
	Mode string
	// Seed, when non-nil, makes the generated inputs reproducible.
	Seed *int64
	// Algo is "all" or a comma-separated list of implementation labels.
	Algo string
	// Reference is the pair of labels whose outputs are compared in validate mode.
	Reference [2]string
	// Tolerance is the largest MSE still considered consistent.
	Tolerance float64
	// Timeout sets the maximum duration of the run.
	Timeout time.Duration
	// JSONOutput, if true, outputs the report in JSON format.
	JSONOutput bool
	// OutputFile, if specified, saves the JSON report to this path.
	OutputFile string
	// Quiet mode - minimal output for scripting purposes.
	Quiet bool
	// NoColor, if true, disables all color output in the CLI.
	// Also respects the NO_COLOR environment variable.
	NoColor bool
	// ServerMode, if true, starts the application as an HTTP server.
	ServerMode bool
	// Port specifies the port to listen on in server mode.
	Port string
	// LogLevel is the minimum zerolog level ("debug", "info", "warn", "error").
	LogLevel string
	// ConfigFile is the optional YAML run file.
	ConfigFile string
}

// AlgoList returns the selected labels, or nil when every implementation is
// selected.
func (c AppConfig) AlgoList() []string {
	if c.Algo == "" || c.Algo == "all" {
		return nil
	}
	return splitList(c.Algo)
}

// Validate checks the semantic consistency of the configuration parameters.
//
// Parameters:
//   - availableAlgos: The registered implementation labels.
//
// Returns:
//   - error: An apperrors.ConfigError if the configuration is invalid,
//     nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
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
	if c.Tolerance < 0 {
		return apperrors.NewConfigError("tolerance cannot be negative: %g", c.Tolerance)
	}
	if c.Mode != ModeValidate && c.Mode != ModeConcurrent {
		return apperrors.NewConfigError("unrecognized mode: '%s'. Valid modes are: '%s' or '%s'", c.Mode, ModeValidate, ModeConcurrent)
	}

	selected := c.AlgoList()
	for _, a := range selected {
		if !slices.Contains(availableAlgos, a) {
			return apperrors.NewConfigError("unrecognized implementation: '%s'. Valid implementations are: 'all' or [%s]", a, strings.Join(availableAlgos, ", "))
		}
	}
	if selected == nil {
		selected = availableAlgos
	}

	if c.Mode == ModeValidate {
		if c.Reference[0] == "" || c.Reference[1] == "" {
			return apperrors.NewConfigError("validate mode needs a reference pair, e.g. -reference fft,dft")
		}
		if c.Reference[0] == c.Reference[1] {
			return apperrors.NewConfigError("reference pair must name two different implementations: '%s'", c.Reference[0])
		}
		for _, r := range c.Reference {
			if !slices.Contains(selected, r) {
				return apperrors.NewConfigError("reference implementation '%s' is not selected", r)
			}
		}
	}
	return nil
}

// ParseConfig parses the command-line arguments and populates an AppConfig.
// Values are resolved with the priority: flags > FOURIERBENCH_* environment
// variables > YAML run file > defaults. After resolution the configuration
// is validated.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//   - availableAlgos: The registered implementation labels.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: An error if flag parsing, file loading or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Implementations to benchmark: 'all' (default) or a comma list of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	sizes := newIntListValue(&config.Sizes, DefaultSizes)
	var seed, reference string
	var profile bool

	fs.Var(sizes, "sizes", "Comma-separated input lengths, strictly increasing.")
	fs.IntVar(&config.Repetitions, "reps", DefaultRepetitions, "Back-to-back calls per timed batch (concurrent mode).")
	fs.BoolVar(&config.AutoReps, "auto-reps", false, "Estimate -reps so the fastest batch at the smallest size takes a measurable time.")
	fs.StringVar(&config.Mode, "mode", DefaultMode, "Run mode: 'validate' (sequential, with MSE) or 'concurrent'.")
	fs.BoolVar(&profile, "profile", false, "Alias for -mode concurrent.")
	fs.StringVar(&seed, "seed", "", "Integer seed for reproducible inputs (random when empty).")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.StringVar(&reference, "reference", DefaultReference, "Pair of implementations compared in validate mode.")
	fs.Float64Var(&config.Tolerance, "tolerance", DefaultTolerance, "Largest MSE still considered consistent.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the run.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output the report in JSON format.")
	fs.StringVar(&config.OutputFile, "output", "", "Output file path for the JSON report.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error or disabled.")
	fs.StringVar(&config.ConfigFile, "config", "", "Path to a YAML run file.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	if !isFlagSet(fs, "config") {
		config.ConfigFile = getEnvString("CONFIG", config.ConfigFile)
	}
	if config.ConfigFile != "" {
		fc, err := LoadFile(config.ConfigFile)
		if err != nil {
			fmt.Fprintln(errorWriter, "Configuration error:", err)
			return AppConfig{}, err
		}
		fc.apply(&config, &seed, &reference, fs)
	}

	applyEnvOverrides(&config, fs, &seed, &reference)

	if err := finalize(&config, seed, reference, profile); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}

// finalize normalizes the string-typed options into their typed fields.
func finalize(config *AppConfig, seed, reference string, profile bool) error {
	config.Algo = strings.ToLower(strings.TrimSpace(config.Algo))
	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))

	mode, err := NormalizeMode(config.Mode)
	if err != nil {
		return err
	}
	if profile {
		mode = ModeConcurrent
	}
	config.Mode = mode

	if seed = strings.TrimSpace(seed); seed != "" {
		v, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return apperrors.NewConfigError("invalid seed '%s': must be an integer", seed)
		}
		config.Seed = &v
	}

	if reference = strings.TrimSpace(reference); reference != "" {
		pair := splitList(reference)
		if len(pair) != 2 {
			return apperrors.NewConfigError("reference must name exactly two implementations, got '%s'", reference)
		}
		config.Reference = [2]string{pair[0], pair[1]}
	}
	return nil
}

// NormalizeMode maps the accepted mode spellings to ModeValidate or
// ModeConcurrent. "profile" and "sequential" are accepted aliases.
//
// Parameters:
//   - mode: The user-supplied mode.
//
// Returns:
//   - string: The canonical mode.
//   - error: A ConfigError for an unknown mode.
func NormalizeMode(mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeValidate, "sequential":
		return ModeValidate, nil
	case ModeConcurrent, "profile":
		return ModeConcurrent, nil
	}
	return "", apperrors.NewConfigError("unrecognized mode: '%s'. Valid modes are: '%s' or '%s'", mode, ModeValidate, ModeConcurrent)
}

// ParseSizes parses a comma-separated list of positive integers.
//
// Parameters:
//   - s: The list, e.g. "1024,2048".
//
// Returns:
//   - []int: The parsed sizes.
//   - error: An error for an empty or malformed entry.
func ParseSizes(s string) ([]int, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, errors.New("empty size list")
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

// splitList splits a comma-separated list, trimming and lowercasing entries
// and dropping empty ones.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// intListValue is a flag.Value for a comma-separated list of integers.
type intListValue struct {
	target *[]int
}

func newIntListValue(target *[]int, def string) *intListValue {
	*target, _ = ParseSizes(def)
	return &intListValue{target: target}
}

func (v *intListValue) String() string {
	if v == nil || v.target == nil {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, n := range *v.target {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func (v *intListValue) Set(s string) error {
	sizes, err := ParseSizes(s)
	if err != nil {
		return err
	}
	*v.target = sizes
	return nil
}
