/*
Package models defines the shared data structures exchanged by the benchmark
harness with the outside world.

These models are used for:
- **JSON Reports**: the `-json` / `-output` CLI output and the `/benchmark`
  HTTP response share one schema.
- **Implementation Listing**: the `/implementations` endpoint.
*/
package models

// Series is the timing column of one implementation: one batch duration per
// benchmarked size, in the same order as Report.Sizes.
type Series struct {
	Label       string  `json:"label"`        // Implementation label (e.g. "fft").
	DurationsNs []int64 `json:"durations_ns"` // Batch duration per size, in nanoseconds.
}

// Report is the serializable outcome of a benchmark run.
type Report struct {
	Mode            string    `json:"mode"`                // "concurrent" or "validate".
	Repetitions     int       `json:"repetitions"`         // Calls per batch.
	Sizes           []int     `json:"sizes"`               // Input lengths, ascending.
	Implementations []Series  `json:"implementations"`     // One series per implementation, in run order.
	Reference       []string  `json:"reference,omitempty"` // The compared pair in validate mode.
	Errors          []float64 `json:"errors,omitempty"`    // Per-size MSE of the reference pair (validate mode only).
	Tolerance       float64   `json:"tolerance,omitempty"` // MSE tolerance applied by the consistency check.
	Consistent      *bool     `json:"consistent,omitempty"` // Whether every MSE is within tolerance (validate mode only).
}

// ImplementationList is the response of the implementation listing endpoint.
type ImplementationList struct {
	Implementations []string `json:"implementations"`
}
