// Package validation quantifies the numerical disagreement between two
// transform outputs.
package validation

import (
	"math"

	apperrors "github.com/agbru/fourierbench/internal/errors"
)

// MeanSquaredError returns Σ|a_i − b_i|² / n over two equal-length sequences.
// Two empty sequences have an error of 0.
//
// Parameters:
//   - a: The first sequence.
//   - b: The second sequence.
//
// Returns:
//   - float64: The mean squared error, always >= 0.
//   - error: A *apperrors.ShapeMismatchError if the lengths differ.
func MeanSquaredError(a, b []complex128) (float64, error) {
	if len(a) != len(b) {
		return 0, apperrors.NewShapeMismatchError("mean squared error", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += real(d)*real(d) + imag(d)*imag(d)
	}
	return sum / float64(len(a)), nil
}

// Check reports whether mse is within tolerance. NaN never passes.
func Check(mse, tolerance float64) bool {
	return !math.IsNaN(mse) && mse <= tolerance
}
