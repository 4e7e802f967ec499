package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/fourierbench/internal/errors"
)

// FileConfig is the schema of the YAML run file selected with -config.
// Every field is optional; a field left out keeps the built-in default.
//
// Example:
//
//	sizes: [256, 512, 1024]
//	mode: concurrent
//	repetitions: 20
//	seed: 42
//	algo: [fft, gonum, godsp]
//	reference: [fft, dft]
//	tolerance: 1e-9
//	timeout: 2m
type FileConfig struct {
	Sizes       []int    `yaml:"sizes"`
	Repetitions *int     `yaml:"repetitions"`
	Mode        *string  `yaml:"mode"`
	Seed        *int64   `yaml:"seed"`
	Algo        []string `yaml:"algo"`
	Reference   []string `yaml:"reference"`
	Tolerance   *float64 `yaml:"tolerance"`
	Timeout     *string  `yaml:"timeout"`
	Port        *string  `yaml:"port"`
	LogLevel    *string  `yaml:"log_level"`
}

// LoadFile reads and decodes a YAML run file. Unknown keys are rejected so
// typos do not silently fall back to defaults.
//
// Parameters:
//   - path: The file to read.
//
// Returns:
//   - FileConfig: The decoded file.
//   - error: A ConfigError if the file cannot be read or decoded.
func LoadFile(path string) (FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("cannot open run file: %v", err)
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, apperrors.NewConfigError("invalid run file %s: %v", path, err)
	}
	if fc.Timeout != nil {
		if _, err := time.ParseDuration(*fc.Timeout); err != nil {
			return FileConfig{}, apperrors.NewConfigError("invalid timeout %q in run file", *fc.Timeout)
		}
	}
	return fc, nil
}

// apply copies the file's values into config for every option whose flag was
// not set explicitly. Environment overrides are applied afterwards.
func (fc FileConfig) apply(config *AppConfig, seed, reference *string, fs *flag.FlagSet) {
	if len(fc.Sizes) > 0 && !isFlagSet(fs, "sizes") {
		config.Sizes = append([]int(nil), fc.Sizes...)
	}
	if fc.Repetitions != nil && !isFlagSet(fs, "reps") {
		config.Repetitions = *fc.Repetitions
	}
	if fc.Mode != nil && !isFlagSet(fs, "mode") {
		config.Mode = *fc.Mode
	}
	if fc.Seed != nil && !isFlagSet(fs, "seed") {
		*seed = strconv.FormatInt(*fc.Seed, 10)
	}
	if len(fc.Algo) > 0 && !isFlagSet(fs, "algo") {
		config.Algo = strings.Join(fc.Algo, ",")
	}
	if len(fc.Reference) > 0 && !isFlagSet(fs, "reference") {
		*reference = strings.Join(fc.Reference, ",")
	}
	if fc.Tolerance != nil && !isFlagSet(fs, "tolerance") {
		config.Tolerance = *fc.Tolerance
	}
	if fc.Timeout != nil && !isFlagSet(fs, "timeout") {
		if d, err := time.ParseDuration(*fc.Timeout); err == nil {
			config.Timeout = d
		}
	}
	if fc.Port != nil && !isFlagSet(fs, "port") {
		config.Port = *fc.Port
	}
	if fc.LogLevel != nil && !isFlagSet(fs, "log-level") {
		config.LogLevel = *fc.LogLevel
	}
}
