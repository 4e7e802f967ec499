package validation

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/fourierbench/internal/errors"
)

func TestMeanSquaredError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b []complex128
		want float64
	}{
		{"Empty", []complex128{}, []complex128{}, 0},
		{"Identical", []complex128{1 + 2i, 3 - 4i}, []complex128{1 + 2i, 3 - 4i}, 0},
		{"RealOffset", []complex128{1}, []complex128{3}, 4},
		{"ImagOffset", []complex128{1i, 0}, []complex128{0, 0}, 0.5},
		{"Mixed", []complex128{3 + 4i, 0}, []complex128{0, 0}, 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := MeanSquaredError(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-15 {
				t.Errorf("MSE = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeanSquaredErrorShapeMismatch(t *testing.T) {
	t.Parallel()
	_, err := MeanSquaredError([]complex128{1, 2}, []complex128{1})
	if !errors.Is(err, apperrors.ErrShapeMismatch) {
		t.Fatalf("expected ShapeMismatch, got %v", err)
	}
}

func TestMeanSquaredErrorProperties(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	pair := func(xs []float64) ([]complex128, []complex128) {
		n := len(xs) / 4
		a := make([]complex128, n)
		b := make([]complex128, n)
		for i := range n {
			a[i] = complex(xs[4*i], xs[4*i+1])
			b[i] = complex(xs[4*i+2], xs[4*i+3])
		}
		return a, b
	}
	values := gen.SliceOf(gen.Float64Range(-1e6, 1e6))

	properties.Property("MSE is symmetric", prop.ForAll(
		func(xs []float64) bool {
			a, b := pair(xs)
			ab, err1 := MeanSquaredError(a, b)
			ba, err2 := MeanSquaredError(b, a)
			return err1 == nil && err2 == nil && ab == ba
		},
		values,
	))

	properties.Property("MSE of a sequence with itself is zero", prop.ForAll(
		func(xs []float64) bool {
			a, _ := pair(xs)
			mse, err := MeanSquaredError(a, a)
			return err == nil && mse == 0
		},
		values,
	))

	properties.Property("MSE is non-negative", prop.ForAll(
		func(xs []float64) bool {
			a, b := pair(xs)
			mse, err := MeanSquaredError(a, b)
			return err == nil && mse >= 0
		},
		values,
	))

	properties.TestingRun(t)
}

func TestCheck(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mse, tol float64
		want     bool
	}{
		{0, 0, true},
		{1e-12, 1e-9, true},
		{1e-9, 1e-9, true},
		{1e-6, 1e-9, false},
		{math.NaN(), 1, false},
		{math.Inf(1), 1, false},
	}
	for _, tt := range tests {
		if got := Check(tt.mse, tt.tol); got != tt.want {
			t.Errorf("Check(%v, %v) = %v, want %v", tt.mse, tt.tol, got, tt.want)
		}
	}
}
