package orchestration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/fourierbench/internal/cli"
	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/internal/ui"
	"github.com/agbru/fourierbench/internal/validation"
	"github.com/agbru/fourierbench/pkg/models"
)

// Report converts the result into its serializable form. The consistency
// verdict is only set in validate mode.
//
// Parameters:
//   - tolerance: The MSE tolerance used for the consistency verdict.
//
// Returns:
//   - models.Report: The report.
func (r *RunResult) Report(tolerance float64) models.Report {
	rep := models.Report{
		Mode:            r.Mode.String(),
		Repetitions:     r.Repetitions,
		Sizes:           append([]int(nil), r.Sizes...),
		Implementations: make([]models.Series, 0, len(r.Labels)),
	}
	for _, label := range r.Labels {
		ns := make([]int64, len(r.Timings[label]))
		for i, d := range r.Timings[label] {
			ns[i] = d.Nanoseconds()
		}
		rep.Implementations = append(rep.Implementations, models.Series{Label: label, DurationsNs: ns})
	}
	if r.Mode == ModeValidate {
		rep.Reference = []string{r.Reference[0], r.Reference[1]}
		rep.Errors = append([]float64{}, r.Errors...)
		rep.Tolerance = tolerance
		consistent := r.Consistent(tolerance)
		rep.Consistent = &consistent
	}
	return rep
}

// Consistent reports whether every recorded MSE is within tolerance.
// A run without errors (concurrent mode) is trivially consistent.
func (r *RunResult) Consistent(tolerance float64) bool {
	for _, e := range r.Errors {
		if !validation.Check(e, tolerance) {
			return false
		}
	}
	return true
}

// AnalyzeRunResult prints the comparison table of a run and returns the exit
// code of its outcome.
//
// The table has one row per size and one column per implementation, with the
// fastest implementation of each row highlighted. In validate mode an MSE
// column flags every size whose reference pair disagrees beyond tolerance.
//
// Parameters:
//   - result: The run to analyze.
//   - tolerance: The MSE tolerance.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: ExitSuccess, or ExitErrorMismatch if any MSE exceeds tolerance.
func AnalyzeRunResult(result *RunResult, tolerance float64, out io.Writer) int {
	fmt.Fprintf(out, "\n--- Comparison Summary (%s, %d repetition(s) per batch) ---\n", result.Mode, result.Repetitions)
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	header := []string{"Size"}
	header = append(header, result.Labels...)
	if result.Mode == ModeValidate {
		header = append(header, fmt.Sprintf("MSE(%s, %s)", result.Reference[0], result.Reference[1]), "Status")
	}
	for i, h := range header {
		header[i] = ui.ColorUnderline() + h + ui.ColorReset()
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for si, size := range result.Sizes {
		fastest, _ := result.Fastest(si)
		cells := []string{ui.ColorCyan() + cli.FormatSize(size) + ui.ColorReset()}
		for _, label := range result.Labels {
			color := ui.ColorYellow()
			if label == fastest && len(result.Labels) > 1 {
				color = ui.ColorGreen()
			}
			cells = append(cells, color+cli.FormatExecutionDuration(result.Timings[label][si])+ui.ColorReset())
		}
		if result.Mode == ModeValidate {
			mse := result.Errors[si]
			status := fmt.Sprintf("%s✅ Consistent%s", ui.ColorGreen(), ui.ColorReset())
			if !validation.Check(mse, tolerance) {
				status = fmt.Sprintf("%s❌ Mismatch%s", ui.ColorRed(), ui.ColorReset())
			}
			cells = append(cells, fmt.Sprintf("%.3e", mse), status)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if result.Mode == ModeConcurrent {
		fmt.Fprintf(out, "\nGlobal Status: Success. Timings recorded for %d implementation(s) across %d size(s).\n",
			len(result.Labels), len(result.Sizes))
		return apperrors.ExitSuccess
	}
	if !result.Consistent(tolerance) {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s disagree beyond the tolerance of %g.\n",
			result.Reference[0], result.Reference[1], tolerance)
		return apperrors.ExitErrorMismatch
	}
	fmt.Fprintf(out, "\nGlobal Status: Success. %s and %s agree within %g at every size.\n",
		result.Reference[0], result.Reference[1], tolerance)
	return apperrors.ExitSuccess
}
