// Package app wires the harness together: it parses the configuration, builds
// the implementation registry and dispatches to the CLI benchmark or the
// HTTP server.
package app

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/fourierbench/internal/cli"
)

// Build-time variables set via -ldflags.
//
// Example build command:
//
//	go build -ldflags="-X github.com/agbru/fourierbench/internal/app.Version=v1.2.3 -X github.com/agbru/fourierbench/internal/app.Commit=abc123 -X github.com/agbru/fourierbench/internal/app.BuildDate=2025-01-01T00:00:00Z"
var (
	// Version is the semantic version of the application (e.g., "v1.0.0").
	Version = "dev"
	// Commit is the short Git commit hash (e.g., "abc123").
	Commit = "unknown"
	// BuildDate is the ISO 8601 timestamp of the build (e.g., "2025-01-01T00:00:00Z").
	BuildDate = "unknown"
)

// HasVersionFlag checks if any argument is a version flag.
// This allows --version to work in any position (e.g., "fourierbench --server --version").
//
// Parameters:
//   - args: The command-line arguments to check (typically os.Args[1:]).
//
// Returns:
//   - bool: True if a version flag is found, false otherwise.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--version" || arg == "-version" || arg == "-V" {
			return true
		}
	}
	return false
}

// PrintVersion outputs version information to the given writer: the
// application version, commit hash, build date, Go version, platform and the
// SIMD features that matter for transform throughput.
//
// Parameters:
//   - out: The writer to output version information to.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "fourierbench %s\n", Version)
	fmt.Fprintf(out, "  Commit:       %s\n", Commit)
	fmt.Fprintf(out, "  Built:        %s\n", BuildDate)
	fmt.Fprintf(out, "  Go version:   %s\n", runtime.Version())
	fmt.Fprintf(out, "  OS/Arch:      %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "  CPU features: %s\n", cli.CPUFeatures())
}
