package foreign

import (
	"math"
	"math/bits"
	"sync"
	"unsafe"

	"github.com/agbru/fourierbench/internal/codec"
	"github.com/agbru/fourierbench/internal/transform"
)

// Labels of the built-in kernels.
const (
	DFTLabel = "dft"
	FFTLabel = "fft"
)

var (
	kernelsMu sync.RWMutex
	// tagged holds kernels contributed by build-tagged files at init time.
	tagged []Kernel
)

func addKernel(k Kernel) {
	kernelsMu.Lock()
	tagged = append(tagged, k)
	kernelsMu.Unlock()
}

// Kernels returns the built-in Go kernels followed by any kernels compiled in
// through build tags (e.g. the C kernels of -tags cfourier).
//
// Returns:
//   - []Kernel: A fresh slice of kernel descriptors.
func Kernels() []Kernel {
	kernelsMu.RLock()
	defer kernelsMu.RUnlock()
	out := []Kernel{
		{Label: DFTLabel, Call: dftKernel},
		{Label: FFTLabel, Call: fftKernel},
	}
	return append(out, tagged...)
}

// Register wraps every available kernel and adds it to r.
//
// Parameters:
//   - r: The registry to populate.
//
// Returns:
//   - error: The first registration error, if any.
func Register(r *transform.Registry) error {
	for _, k := range Kernels() {
		if err := r.Register(Wrap(k)); err != nil {
			return err
		}
	}
	return nil
}

// dftKernel is the O(n²) reference transform X_j = Σ x_k e^{-2πi jk/n}.
// The twiddle index is reduced modulo n so large sizes keep full precision.
func dftKernel(data unsafe.Pointer, count int64) unsafe.Pointer {
	n := int(count)
	if n <= 0 {
		return nil
	}
	src := codec.View(data, n)
	out := make([]float64, 2*n)
	step := -2 * math.Pi / float64(n)

	for j := range n {
		var re, im float64
		for k := range n {
			s, c := math.Sincos(step * float64((j*k)%n))
			xr, xi := src[2*k], src[2*k+1]
			re += xr*c - xi*s
			im += xr*s + xi*c
		}
		out[2*j] = re
		out[2*j+1] = im
	}
	return unsafe.Pointer(&out[0])
}

// fftKernel is an in-place radix-2 decimation-in-frequency FFT followed by a
// bit-reversal permutation. It only accepts power-of-two counts and returns
// nil otherwise.
func fftKernel(data unsafe.Pointer, count int64) unsafe.Pointer {
	n := int(count)
	if n <= 0 || n&(n-1) != 0 {
		return nil
	}
	x, err := codec.Decode(codec.View(data, n), n)
	if err != nil {
		return nil
	}

	theta := math.Pi / float64(n)
	phi := complex(math.Cos(theta), -math.Sin(theta))
	for k := n; k > 1; {
		span := k
		k >>= 1
		phi *= phi
		t := complex(1, 0)
		for l := range k {
			for a := l; a < n; a += span {
				b := a + k
				d := x[a] - x[b]
				x[a] += x[b]
				x[b] = d * t
			}
			t *= phi
		}
	}

	m := bits.TrailingZeros(uint(n))
	for a := range n {
		b := int(bits.Reverse64(uint64(a)) >> (64 - m))
		if b > a {
			x[a], x[b] = x[b], x[a]
		}
	}

	out := codec.Encode(x)
	return unsafe.Pointer(&out[0])
}
