// Package config provides the configuration management for the fourierbench harness.
// This file contains environment variable utilities for configuration override.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as int, or the default value if not set
// or invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvFloat returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as float64, or the default value if not set
// or invalid.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as bool, or the default value if not set.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as time.Duration, or the default value if not
// set or invalid. Accepts formats like "5m", "30s", "1h30m".
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvSizes returns the environment variable parsed as a size list, or the
// default value if not set or invalid.
func getEnvSizes(key string, defaultVal []int) []int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := ParseSizes(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > run file > Defaults.
//
// Supported environment variables:
//   - FOURIERBENCH_SIZES: Comma-separated input lengths
//   - FOURIERBENCH_REPS: Repetitions per batch (int)
//   - FOURIERBENCH_MODE: Run mode (validate, concurrent)
//   - FOURIERBENCH_SEED: Input seed (int)
//   - FOURIERBENCH_ALGO: Implementation selection (string)
//   - FOURIERBENCH_REFERENCE: Reference pair (string: "fft,dft")
//   - FOURIERBENCH_TOLERANCE: MSE tolerance (float)
//   - FOURIERBENCH_TIMEOUT: Run timeout (duration: "5m", "30s")
//   - FOURIERBENCH_PORT: Port for server mode (string)
//   - FOURIERBENCH_LOG_LEVEL: Log level (string)
//   - FOURIERBENCH_OUTPUT: Output file path (string)
//   - FOURIERBENCH_CONFIG: YAML run file (string)
//   - FOURIERBENCH_AUTO_REPS, _SERVER, _JSON, _QUIET, _NO_COLOR: booleans
//     (true/false, 1/0, yes/no)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet, seed, reference *string) {
	if !isFlagSet(fs, "sizes") {
		config.Sizes = getEnvSizes("SIZES", config.Sizes)
	}
	if !isFlagSet(fs, "reps") {
		config.Repetitions = getEnvInt("REPS", config.Repetitions)
	}
	if !isFlagSet(fs, "tolerance") {
		config.Tolerance = getEnvFloat("TOLERANCE", config.Tolerance)
	}
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
	applyStringOverrides(config, fs, seed, reference)
	applyBooleanOverrides(config, fs)
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet, seed, reference *string) {
	if !isFlagSet(fs, "mode") {
		config.Mode = getEnvString("MODE", config.Mode)
	}
	if !isFlagSet(fs, "seed") {
		*seed = getEnvString("SEED", *seed)
	}
	if !isFlagSet(fs, "algo") {
		config.Algo = getEnvString("ALGO", config.Algo)
	}
	if !isFlagSet(fs, "reference") {
		*reference = getEnvString("REFERENCE", *reference)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "log-level") {
		config.LogLevel = getEnvString("LOG_LEVEL", config.LogLevel)
	}
	if !isFlagSet(fs, "output") && !isFlagSet(fs, "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "auto-reps") {
		config.AutoReps = getEnvBool("AUTO_REPS", config.AutoReps)
	}
	if !isFlagSet(fs, "server") {
		config.ServerMode = getEnvBool("SERVER", config.ServerMode)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
}
