package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/internal/foreign"
	"github.com/agbru/fourierbench/internal/orchestration"
	"github.com/agbru/fourierbench/internal/testutil"
	"github.com/agbru/fourierbench/internal/transform"
	"github.com/agbru/fourierbench/pkg/models"
)

// TestNew tests the New function for creating Application instances.
func TestNew(t *testing.T) {
	t.Parallel()
	t.Run("Valid args create application", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		args := []string{"fourierbench", "-sizes", "4,8", "-mode", "concurrent", "-reps", "3"}

		app, err := New(args, &errBuf)

		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if app == nil {
			t.Fatal("New() returned nil application")
		}
		if len(app.Config.Sizes) != 2 || app.Config.Sizes[1] != 8 {
			t.Errorf("Expected sizes [4 8], got %v", app.Config.Sizes)
		}
		if app.Config.Repetitions != 3 {
			t.Errorf("Expected 3 repetitions, got %d", app.Config.Repetitions)
		}
		if app.Registry == nil || app.Logger == nil {
			t.Error("Registry and Logger should not be nil")
		}
	})

	t.Run("Invalid args return error", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		_, err := New([]string{"fourierbench", "-sizes", "8,4"}, &errBuf)
		if !errors.Is(err, apperrors.ErrInvalidConfiguration) {
			t.Fatalf("Expected a configuration error, got %v", err)
		}
		if !strings.Contains(errBuf.String(), "strictly increasing") {
			t.Errorf("Expected the reason on the error writer, got %q", errBuf.String())
		}
	})

	t.Run("Unknown implementation is rejected", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		_, err := New([]string{"fourierbench", "-algo", "nope"}, &errBuf)
		if !errors.Is(err, apperrors.ErrInvalidConfiguration) {
			t.Fatalf("Expected a configuration error, got %v", err)
		}
	})

	t.Run("Help flag", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		_, err := New([]string{"fourierbench", "-h"}, &errBuf)
		if !IsHelpError(err) {
			t.Errorf("Expected a help error, got %v", err)
		}
	})

	t.Run("Empty args use defaults", func(t *testing.T) {
		t.Parallel()
		var errBuf bytes.Buffer
		app, err := New(nil, &errBuf)
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if app.Config.Reference != [2]string{foreign.FFTLabel, foreign.DFTLabel} {
			t.Errorf("Expected the default reference pair, got %v", app.Config.Reference)
		}
	})
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() returned unexpected error: %v", err)
	}
	for _, label := range []string{transform.GonumLabel, transform.GoDSPLabel, foreign.FFTLabel, foreign.DFTLabel} {
		if !r.Has(label) {
			t.Errorf("Expected %q to be registered, got %v", label, r.List())
		}
	}
}

// TestApplicationRun runs the CLI end to end on small sizes. The subtests
// share the process-wide theme and generator and therefore run sequentially.
func TestApplicationRun(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "out", "report.json")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  []string
	}{
		{
			name:     "validate text",
			args:     []string{"-sizes", "4,8", "-seed", "0", "-algo", "fft,dft,gonum", "-no-color"},
			wantCode: apperrors.ExitSuccess,
			wantOut:  []string{"Comparison Summary", "MSE(fft, dft)", "Consistent"},
		},
		{
			name:     "concurrent text",
			args:     []string{"-sizes", "8,16", "-mode", "concurrent", "-reps", "2", "-no-color"},
			wantCode: apperrors.ExitSuccess,
			wantOut:  []string{"concurrent, 2 repetition(s)", "Global Status: Success"},
		},
		{
			name:     "json",
			args:     []string{"-sizes", "4", "-json", "-seed", "1"},
			wantCode: apperrors.ExitSuccess,
			wantOut:  []string{`"durations_ns"`, `"consistent": true`},
		},
		{
			name:     "quiet",
			args:     []string{"-sizes", "4,8", "-q", "-algo", "fft,dft"},
			wantCode: apperrors.ExitSuccess,
			wantOut:  []string{"fft\tdft"},
		},
		{
			name:     "timeout",
			args:     []string{"-sizes", "4", "-timeout", "1ns", "-no-color"},
			wantCode: apperrors.ExitErrorTimeout,
			wantOut:  []string{"Timeout"},
		},
		{
			name:     "output file",
			args:     []string{"-sizes", "4", "-q", "-o", reportPath},
			wantCode: apperrors.ExitSuccess,
		},
		{
			name:     "auto repetitions",
			args:     []string{"-sizes", "4", "-mode", "concurrent", "-auto-reps", "-algo", "gonum", "-no-color"},
			wantCode: apperrors.ExitSuccess,
			wantOut:  []string{"Auto-repetitions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBuf, out bytes.Buffer
			app, err := New(append([]string{"fourierbench"}, tt.args...), &errBuf)
			if err != nil {
				t.Fatalf("New() returned unexpected error: %v (%s)", err, errBuf.String())
			}

			code := app.Run(context.Background(), &out)

			if code != tt.wantCode {
				t.Errorf("Expected exit code %d, got %d\nout: %s\nerr: %s", tt.wantCode, code, out.String(), errBuf.String())
			}
			text := testutil.StripAnsiCodes(out.String())
			for _, w := range tt.wantOut {
				if !strings.Contains(text, w) {
					t.Errorf("Output missing %q:\n%s", w, text)
				}
			}
		})
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("Expected a report file: %v", err)
	}
	var rep models.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("Report file is not valid JSON: %v", err)
	}
	if len(rep.Sizes) != 1 || rep.Sizes[0] != 4 {
		t.Errorf("Unexpected report sizes: %v", rep.Sizes)
	}
}

// TestRunFailureKeepsMachineOutputClean checks that a failed run reports its
// status on the error writer when stdout carries JSON or quiet output.
func TestRunFailureKeepsMachineOutputClean(t *testing.T) {
	for _, flag := range []string{"-json", "-q"} {
		t.Run(flag, func(t *testing.T) {
			var errBuf, out bytes.Buffer
			app, err := New([]string{"fourierbench", "-sizes", "4", "-timeout", "1ns", flag}, &errBuf)
			if err != nil {
				t.Fatalf("New() returned unexpected error: %v", err)
			}

			if code := app.Run(context.Background(), &out); code != apperrors.ExitErrorTimeout {
				t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorTimeout, code)
			}
			if out.Len() != 0 {
				t.Errorf("Expected nothing on stdout, got %q", out.String())
			}
			if !strings.Contains(errBuf.String(), "Timeout") {
				t.Errorf("Expected the status on the error writer, got %q", errBuf.String())
			}
		})
	}
}

// TestReportResultMismatch checks that the exit code reflects an MSE beyond
// tolerance in every output format.
func TestReportResultMismatch(t *testing.T) {
	t.Parallel()
	result := &orchestration.RunResult{
		Mode:        orchestration.ModeValidate,
		Sizes:       []int{4},
		Repetitions: 1,
		Labels:      []string{"fft", "dft"},
		Timings:     map[string][]time.Duration{"fft": {time.Microsecond}, "dft": {2 * time.Microsecond}},
		Errors:      []float64{0.25},
		Reference:   [2]string{"fft", "dft"},
	}
	for _, mode := range []string{"text", "json", "quiet"} {
		t.Run(mode, func(t *testing.T) {
			t.Parallel()
			var out, errBuf bytes.Buffer
			app := &Application{ErrWriter: &errBuf}
			app.Config.Tolerance = 1e-9
			app.Config.JSONOutput = mode == "json"
			app.Config.Quiet = mode == "quiet"

			if code := app.reportResult(result, &out); code != apperrors.ExitErrorMismatch {
				t.Errorf("Expected exit code %d, got %d", apperrors.ExitErrorMismatch, code)
			}
			if out.Len() == 0 {
				t.Error("Expected the report to be written")
			}
		})
	}
}

// TestIsHelpError tests the IsHelpError function.
func TestIsHelpError(t *testing.T) {
	t.Parallel()
	if IsHelpError(nil) {
		t.Error("IsHelpError(nil) should be false")
	}
	if IsHelpError(errors.New("other")) {
		t.Error("IsHelpError should be false for unrelated errors")
	}
}

func TestSetupLifecycle(t *testing.T) {
	t.Parallel()
	t.Run("Timeout cancels the context", func(t *testing.T) {
		t.Parallel()
		ctx, cancels := SetupLifecycle(context.Background(), time.Millisecond)
		defer cancels.Cleanup()

		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			t.Fatal("context should expire after the timeout")
		}
		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			t.Errorf("Expected DeadlineExceeded, got %v", ctx.Err())
		}
	})

	t.Run("Cleanup cancels the context", func(t *testing.T) {
		t.Parallel()
		ctx, cancels := SetupLifecycle(context.Background(), time.Hour)
		cancels.Cleanup()
		if ctx.Err() == nil {
			t.Error("context should be canceled after Cleanup")
		}
	})

	t.Run("Cleanup tolerates missing functions", func(t *testing.T) {
		t.Parallel()
		(&CancelFuncs{}).Cleanup()
	})
}
