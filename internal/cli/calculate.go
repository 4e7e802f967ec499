package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/fourierbench/internal/config"
	"github.com/agbru/fourierbench/internal/transform"
)

// GetImplementationsToRun resolves the -algo selection against the registry.
// "all" selects every registered implementation in sorted order; a comma list
// keeps the requested order.
//
// Parameters:
//   - cfg: The application configuration containing the selection.
//   - registry: The registry to resolve labels against.
//
// Returns:
//   - []transform.Implementation: The implementations to benchmark.
//   - error: transform.ErrUnknownImplementation for an unknown label.
func GetImplementationsToRun(cfg config.AppConfig, registry *transform.Registry) ([]transform.Implementation, error) {
	return registry.Select(cfg.AlgoList())
}

// CPUFeatures lists the SIMD features of the host CPU relevant to
// floating-point transform throughput.
//
// Returns:
//   - string: A space-separated list, or "none detected".
func CPUFeatures() string {
	var feats []string
	switch runtime.GOARCH {
	case "amd64", "386":
		for _, f := range []struct {
			name string
			ok   bool
		}{
			{"sse4.1", cpu.X86.HasSSE41},
			{"avx", cpu.X86.HasAVX},
			{"avx2", cpu.X86.HasAVX2},
			{"fma", cpu.X86.HasFMA},
			{"avx512f", cpu.X86.HasAVX512F},
		} {
			if f.ok {
				feats = append(feats, f.name)
			}
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			feats = append(feats, "asimd")
		}
		if cpu.ARM64.HasSVE {
			feats = append(feats, "sve")
		}
	}
	if len(feats) == 0 {
		return "none detected"
	}
	return strings.Join(feats, " ")
}

// PrintExecutionConfig displays the run configuration and the environment.
//
// Parameters:
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	sizes := make([]string, len(cfg.Sizes))
	for i, s := range cfg.Sizes {
		sizes[i] = FormatSize(s)
	}
	writeOut(out, "--- Execution Configuration ---\n")
	writeOut(out, "Benchmarking sizes %s[%s]%s with %s%d%s repetition(s) per batch, timeout %s%s%s.\n",
		ColorMagenta(), strings.Join(sizes, ", "), ColorReset(),
		ColorMagenta(), cfg.Repetitions, ColorReset(),
		ColorYellow(), cfg.Timeout, ColorReset())
	writeOut(out, "Environment: %s%d%s logical processors, Go %s%s%s, %s/%s, CPU features: %s%s%s.\n",
		ColorCyan(), runtime.NumCPU(), ColorReset(), ColorCyan(), runtime.Version(), ColorReset(),
		runtime.GOOS, runtime.GOARCH, ColorCyan(), CPUFeatures(), ColorReset())
	if cfg.Seed != nil {
		writeOut(out, "Input seed: %s%d%s.\n", ColorCyan(), *cfg.Seed, ColorReset())
	}
}

// PrintExecutionMode displays the run mode and the selected implementations.
//
// Parameters:
//   - impls: The implementations that will be benchmarked.
//   - cfg: The application configuration.
//   - out: The writer for standard output.
func PrintExecutionMode(impls []transform.Implementation, cfg config.AppConfig, out io.Writer) {
	labels := make([]string, len(impls))
	for i, impl := range impls {
		labels[i] = ColorGreen() + impl.Name() + ColorReset()
	}
	var modeDesc string
	if cfg.Mode == config.ModeConcurrent {
		modeDesc = "Concurrent timing (one goroutine per implementation per size)"
	} else {
		modeDesc = fmt.Sprintf("Sequential timing with validation of %s%s%s against %s%s%s",
			ColorBlue(), cfg.Reference[0], ColorReset(), ColorBlue(), cfg.Reference[1], ColorReset())
	}
	writeOut(out, "Execution mode: %s.\n", modeDesc)
	writeOut(out, "Implementations: %s.\n", strings.Join(labels, ", "))
	writeOut(out, "\n--- Starting Execution ---\n")
}

// writeOut writes a formatted string to the output writer.
func writeOut(out io.Writer, format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
