// Package codec converts complex sequences to and from the interleaved
// float64 layout ("flat buffer") that foreign kernels consume and produce.
//
// A flat buffer of a sequence of n elements holds 2n doubles: element 2i is
// the real part of element i and element 2i+1 its imaginary part. Buffers are
// transient; the codec never retains one after returning.
package codec

import (
	"unsafe"

	apperrors "github.com/agbru/fourierbench/internal/errors"
)

// Encode flattens seq into an interleaved buffer of 2*len(seq) doubles.
// An empty sequence yields an empty buffer.
//
// Parameters:
//   - seq: The sequence to encode. It is not modified.
//
// Returns:
//   - []float64: A newly allocated flat buffer.
func Encode(seq []complex128) []float64 {
	buf := make([]float64, 2*len(seq))
	for i, v := range seq {
		buf[2*i] = real(v)
		buf[2*i+1] = imag(v)
	}
	return buf
}

// Decode rebuilds count complex values from an interleaved buffer.
//
// Parameters:
//   - buf: The flat buffer, which must hold exactly 2*count doubles.
//   - count: The number of logical elements.
//
// Returns:
//   - []complex128: A newly allocated sequence; buf is not retained.
//   - error: A *apperrors.ShapeMismatchError if the lengths disagree.
func Decode(buf []float64, count int) ([]complex128, error) {
	if count < 0 || len(buf) != 2*count {
		return nil, apperrors.NewShapeMismatchError("decode", 2*max(count, 0), len(buf))
	}
	out := make([]complex128, count)
	for i := range out {
		out[i] = complex(buf[2*i], buf[2*i+1])
	}
	return out, nil
}

// View exposes 2*count doubles starting at ptr as a slice without copying.
// The memory stays owned by whoever allocated it; the slice must not outlive
// that owner's release of the buffer.
func View(ptr unsafe.Pointer, count int) []float64 {
	if ptr == nil || count <= 0 {
		return nil
	}
	return unsafe.Slice((*float64)(ptr), 2*count)
}
