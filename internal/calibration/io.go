package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/fourierbench/internal/cli"
)

// printProbeResults formats and prints the probe results table.
func printProbeResults(out io.Writer, size int, results []ProbeResult) {
	fmt.Fprintf(out, "\n--- Calibration Probe (size %s) ---\n", cli.FormatSize(size))
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sImplementation%s │ %sSingle Call%s\n", cli.ColorUnderline(), cli.ColorReset(), cli.ColorUnderline(), cli.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 15), strings.Repeat("─", 20))

	fastest := -1
	for i, r := range results {
		if r.Err == nil && (fastest < 0 || r.Duration < results[fastest].Duration) {
			fastest = i
		}
	}
	for i, r := range results {
		durationStr := fmt.Sprintf("%sN/A%s", cli.ColorRed(), cli.ColorReset())
		if r.Err == nil {
			durationStr = cli.FormatExecutionDuration(r.Duration)
		}
		highlight := ""
		if i == fastest {
			highlight = fmt.Sprintf(" %s(Fastest)%s", cli.ColorGreen(), cli.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-14s%s │ %s%s%s%s\n", cli.ColorCyan(), r.Label, cli.ColorReset(), cli.ColorYellow(), durationStr, cli.ColorReset(), highlight)
	}
	tw.Flush()
}
