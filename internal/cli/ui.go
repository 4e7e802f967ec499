// The cli package provides the command-line presentation of a benchmark run.
// It handles the asynchronous display of run progress and formats timings
// and reports for a clear and readable presentation.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/agbru/fourierbench/internal/ui"
	"github.com/briandowns/spinner"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
// A zero duration is shown as "< 1µs".
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "< 1µs"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Color functions delegate to the ui package.

// ColorReset returns the reset escape code from the current theme.
func ColorReset() string { return ui.ColorReset() }

// ColorRed returns the error color from the current theme.
func ColorRed() string { return ui.ColorRed() }

// ColorGreen returns the success color from the current theme.
func ColorGreen() string { return ui.ColorGreen() }

// ColorYellow returns the warning color from the current theme.
func ColorYellow() string { return ui.ColorYellow() }

// ColorBlue returns the primary color from the current theme.
func ColorBlue() string { return ui.ColorBlue() }

// ColorMagenta returns the info color from the current theme.
func ColorMagenta() string { return ui.ColorMagenta() }

// ColorCyan returns the secondary color from the current theme.
func ColorCyan() string { return ui.ColorCyan() }

// ColorBold returns the bold escape code from the current theme.
func ColorBold() string { return ui.ColorBold() }

// ColorUnderline returns the underline escape code from the current theme.
func ColorUnderline() string { return ui.ColorUnderline() }

// CLIColorProvider implements apperrors.ColorProvider using the current theme.
type CLIColorProvider struct{}

// Yellow returns the warning color.
func (CLIColorProvider) Yellow() string { return ColorYellow() }

// Reset returns the reset escape code.
func (CLIColorProvider) Reset() string { return ColorReset() }

// ProgressUpdate reports that one implementation finished its batch for one
// size. Value is the fraction of sizes that implementation has completed.
type ProgressUpdate struct {
	// Index is the position of the implementation in the run.
	Index int
	// Size is the input length that was just completed.
	Size int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a real terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressState aggregates the per-implementation progress of a run and
// estimates the remaining time from the average completion rate.
type ProgressState struct {
	progresses []float64
	start      time.Time
	now        func() time.Time
}

// NewProgressState creates a ProgressState tracking n implementations.
//
// Parameters:
//   - n: The number of implementations to track.
//
// Returns:
//   - *ProgressState: A pointer to the new progress state object.
func NewProgressState(n int) *ProgressState {
	return &ProgressState{
		progresses: make([]float64, max(n, 0)),
		start:      time.Now(),
		now:        time.Now,
	}
}

// Update records a new progress value for the implementation at index.
// Out-of-range indices are ignored.
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = value
	}
}

// CalculateAverage computes the average progress across all tracked
// implementations.
//
// Returns:
//   - float64: The average progress (0.0 to 1.0).
func (ps *ProgressState) CalculateAverage() float64 {
	if len(ps.progresses) == 0 {
		return 0.0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(len(ps.progresses))
}

// ETA extrapolates the remaining time from the elapsed time and the average
// progress. It returns 0 while no progress has been made. Sizes grow along a
// run, so the estimate is optimistic early on.
func (ps *ProgressState) ETA() time.Duration {
	progress := ps.CalculateAverage()
	if progress <= 0 || progress >= 1 {
		return 0
	}
	elapsed := ps.now().Sub(ps.start)
	eta := time.Duration(float64(elapsed) * (1 - progress) / progress)
	return min(eta, 24*time.Hour)
}

// FormatETA formats a duration into a human-readable ETA string.
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		return fmt.Sprintf("%dm%ds", int(eta.Minutes()), int(eta.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(eta.Hours()), int(eta.Minutes())%60)
}

// progressBar generates a string representing a textual progress bar.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
//   - length: The total character width of the progress bar.
//
// Returns:
//   - string: A string representation of the progress bar.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0.0), 1.0)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// DisplayProgress manages the asynchronous display of a spinner and progress bar.
// It is designed to run in a dedicated goroutine for the duration of a run.
//
// The function's responsibilities include:
//   - Receiving progress updates from a channel.
//   - Aggregating these updates into an average progress and an ETA.
//   - Periodically refreshing the spinner and progress bar.
//   - Printing a final line once the progress channel is closed.
//
// Parameters:
//   - wg: A WaitGroup to signal when the display routine is complete.
//   - progressChan: The channel receiving progress updates.
//   - numImplementations: The number of implementations contributing to the progress.
//   - out: The io.Writer to which the progress bar is rendered.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numImplementations int, out io.Writer) {
	defer wg.Done()
	if numImplementations <= 0 {
		for range progressChan {
		}
		return
	}

	state := NewProgressState(numImplementations)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	spinnerStopped := false
	defer func() {
		if !spinnerStopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	lastSize := 0
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				spinnerStopped = true
				fmt.Fprintf(out, "Progress: %6.2f%% [%s]\n", state.CalculateAverage()*100, progressBar(state.CalculateAverage(), ProgressBarWidth))
				return
			}
			state.Update(update.Index, update.Value)
			lastSize = max(lastSize, update.Size)
		case <-ticker.C:
			avg := state.CalculateAverage()
			s.UpdateSuffix(fmt.Sprintf(" Progress: %6.2f%% [%s] size %s ETA: %s",
				avg*100, progressBar(avg, ProgressBarWidth), formatNumberString(fmt.Sprint(lastSize)), FormatETA(state.ETA())))
		}
	}
}

// formatNumberString inserts thousand separators into a numeric string.
//
// Parameters:
//   - s: The numeric string to format.
//
// Returns:
//   - string: The formatted string with comma separators.
func formatNumberString(s string) string {
	if len(s) == 0 {
		return ""
	}
	prefix := ""
	if s[0] == '-' {
		prefix = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return prefix + s
	}

	var builder strings.Builder
	builder.Grow(len(prefix) + n + (n-1)/3)
	builder.WriteString(prefix)

	first := n % 3
	if first == 0 {
		first = 3
	}
	builder.WriteString(s[:first])
	for i := first; i < n; i += 3 {
		builder.WriteByte(',')
		builder.WriteString(s[i : i+3])
	}
	return builder.String()
}

// FormatSize renders an input length with thousand separators.
func FormatSize(n int) string {
	return formatNumberString(fmt.Sprint(n))
}
