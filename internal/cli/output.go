// Package cli provides output utilities for exporting benchmark reports.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/pkg/models"
)

// OutputConfig holds configuration for report output.
type OutputConfig struct {
	// OutputFile is the path to save the JSON report (empty for no file output).
	OutputFile string
	// JSONOutput writes the JSON report to the output writer instead of text.
	JSONOutput bool
	// Quiet mode prints one tab-separated line per size for scripting.
	Quiet bool
}

// WriteReportJSON encodes report as indented JSON.
//
// Parameters:
//   - out: The destination writer.
//   - report: The report to encode.
//
// Returns:
//   - error: An error if encoding or writing fails.
func WriteReportJSON(out io.Writer, report models.Report) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteReportToFile writes report as JSON to path, creating parent
// directories as needed.
//
// Parameters:
//   - report: The report to save.
//   - path: The destination file path.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteReportToFile(report models.Report, path string) error {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.WrapError(err, "failed to create directory %s", dir)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.WrapError(err, "failed to create output file")
	}
	if err := WriteReportJSON(file, report); err != nil {
		file.Close()
		return apperrors.WrapError(err, "failed to write report")
	}
	return file.Close()
}

// FormatQuietReport formats report for quiet mode: a header line of labels,
// then one line per size with the batch durations in nanoseconds and, in
// validate mode, the MSE.
//
// Parameters:
//   - report: The report to format.
//
// Returns:
//   - string: The tab-separated rendering.
func FormatQuietReport(report models.Report) string {
	var b strings.Builder
	b.WriteString("size")
	for _, s := range report.Implementations {
		b.WriteString("\t" + s.Label)
	}
	if report.Errors != nil {
		b.WriteString("\tmse")
	}
	b.WriteByte('\n')

	for i, size := range report.Sizes {
		fmt.Fprintf(&b, "%d", size)
		for _, s := range report.Implementations {
			fmt.Fprintf(&b, "\t%d", s.DurationsNs[i])
		}
		if i < len(report.Errors) {
			fmt.Fprintf(&b, "\t%g", report.Errors[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// DisplayReportWithConfig writes the machine-readable forms of report
// selected by config. It returns handled == false when the caller should
// print the human-readable table instead.
//
// Parameters:
//   - out: The output writer.
//   - report: The report to display.
//   - config: Output configuration.
//
// Returns:
//   - bool: Whether report was rendered to out.
//   - error: An error if encoding or file output fails.
func DisplayReportWithConfig(out io.Writer, report models.Report, config OutputConfig) (handled bool, err error) {
	switch {
	case config.JSONOutput:
		if err := WriteReportJSON(out, report); err != nil {
			return true, err
		}
		handled = true
	case config.Quiet:
		fmt.Fprint(out, FormatQuietReport(report))
		handled = true
	}

	if config.OutputFile != "" {
		if err := WriteReportToFile(report, config.OutputFile); err != nil {
			return handled, err
		}
		if !config.Quiet && !config.JSONOutput {
			fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
				ColorGreen(), ColorCyan(), config.OutputFile, ColorReset())
		}
	}
	return handled, nil
}
