package transform

import (
	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Labels of the native library baselines.
const (
	GonumLabel = "gonum"
	GoDSPLabel = "godsp"
)

// NewGonum returns the gonum complex FFT baseline. It accepts any length.
func NewGonum() Implementation {
	return Func(GonumLabel, func(in []complex128) ([]complex128, error) {
		if len(in) == 0 {
			return []complex128{}, nil
		}
		return fourier.NewCmplxFFT(len(in)).Coefficients(nil, in), nil
	})
}

// NewGoDSP returns the go-dsp FFT baseline. Power-of-two lengths use its
// radix-2 path and other lengths fall back to Bluestein's algorithm.
func NewGoDSP() Implementation {
	return Func(GoDSPLabel, func(in []complex128) ([]complex128, error) {
		if len(in) == 0 {
			return []complex128{}, nil
		}
		return dspfft.FFT(in), nil
	})
}
