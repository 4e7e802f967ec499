// Package foreign adapts kernels that speak the raw flat-buffer ABI into
// transform.Implementation values, so the timing engine can call them exactly
// like native Go transforms.
//
// A kernel receives a pointer to 2*count contiguous doubles (the interleaved
// layout produced by the codec package) and the logical element count, and
// returns a pointer to 2*count doubles in the same layout, or nil on failure.
package foreign

import (
	"runtime"
	"unsafe"

	"github.com/agbru/fourierbench/internal/codec"
	apperrors "github.com/agbru/fourierbench/internal/errors"
	"github.com/agbru/fourierbench/internal/transform"
)

// Callable is the boundary ABI of a foreign kernel.
type Callable func(data unsafe.Pointer, count int64) unsafe.Pointer

// Kernel describes a foreign transform.
type Kernel struct {
	// Label is the implementation label reported by the adapter.
	Label string
	// Call is the kernel entry point.
	Call Callable
	// Release frees a result buffer allocated by the foreign side. It is nil
	// when the result lives in Go-managed memory.
	Release func(unsafe.Pointer)
}

type adapter struct {
	kernel Kernel
}

// Wrap adapts k into a transform.Implementation. The returned implementation:
//   - returns an empty sequence for empty input without invoking the kernel,
//   - encodes the input and calls the kernel with the logical element count,
//   - fails with a *apperrors.ForeignCallError if the kernel returns nil,
//   - decodes exactly count elements from the result and releases the buffer.
//
// Wrap panics if k.Call is nil.
//
// Parameters:
//   - k: The kernel to adapt.
//
// Returns:
//   - transform.Implementation: The adapted kernel.
func Wrap(k Kernel) transform.Implementation {
	if k.Call == nil {
		panic("foreign: the kernel entry point cannot be nil")
	}
	return &adapter{kernel: k}
}

// Name returns the kernel label.
func (a *adapter) Name() string { return a.kernel.Label }

// Transform runs the kernel on in across the flat-buffer boundary.
func (a *adapter) Transform(in []complex128) ([]complex128, error) {
	if len(in) == 0 {
		return []complex128{}, nil
	}
	buf := codec.Encode(in)
	count := len(buf) / 2

	res := a.kernel.Call(unsafe.Pointer(&buf[0]), int64(count))
	runtime.KeepAlive(buf)
	if res == nil {
		return nil, apperrors.NewForeignCallError(a.kernel.Label, count)
	}
	if a.kernel.Release != nil {
		defer a.kernel.Release(res)
	}
	return codec.Decode(codec.View(res, count), count)
}
