// Package transform defines the Implementation abstraction shared by every
// Fourier transform the harness benchmarks, together with the native library
// baselines and a registry to look implementations up by label.
package transform

//go:generate mockgen -source=transform.go -destination=mocks/mock_transform.go -package=mocks

// Implementation is a single Fourier transform variant under benchmark.
// Native Go transforms and foreign kernels wrapped by the boundary adapter
// both satisfy it, and the timing engine treats them identically.
type Implementation interface {
	// Name returns the unique label of the implementation (e.g. "fft").
	//
	// Returns:
	//   - string: The label used in reports and on the command line.
	Name() string

	// Transform computes the forward transform of in. Implementations must
	// not mutate in, which is shared read-only between concurrent callers.
	//
	// Parameters:
	//   - in: The input sequence.
	//
	// Returns:
	//   - []complex128: A new sequence of the same length as in.
	//   - error: A shape mismatch or foreign call failure, if any.
	Transform(in []complex128) ([]complex128, error)
}

// TransformFunc is the signature of a plain transform function.
type TransformFunc func(in []complex128) ([]complex128, error)

type funcImpl struct {
	name string
	fn   TransformFunc
}

func (f *funcImpl) Name() string { return f.name }

func (f *funcImpl) Transform(in []complex128) ([]complex128, error) { return f.fn(in) }

// Func adapts a plain function into a labelled Implementation.
// It panics if fn is nil.
//
// Parameters:
//   - name: The label of the implementation.
//   - fn: The transform function.
//
// Returns:
//   - Implementation: The adapted implementation.
func Func(name string, fn TransformFunc) Implementation {
	if fn == nil {
		panic("transform: the transform function cannot be nil")
	}
	return &funcImpl{name: name, fn: fn}
}

// Labels returns the labels of impls in order.
func Labels(impls []Implementation) []string {
	labels := make([]string, len(impls))
	for i, impl := range impls {
		labels[i] = impl.Name()
	}
	return labels
}
