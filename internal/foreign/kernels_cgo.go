//go:build cfourier && cgo

// This file provides C implementations of the reference DFT and the radix-2
// FFT, conditionally compiled with the "cfourier" build tag. The build tag
// keeps the default build free of a C toolchain requirement:
//   - go build                    uses only the Go kernels
//   - go build -tags=cfourier     adds "c-dft" and "c-fft"
//
// Results are allocated with malloc on the C side and handed back to free
// through Kernel.Release after the adapter has decoded them.

package foreign

/*
#cgo LDFLAGS: -lm
#include <math.h>
#include <stdlib.h>
#include <string.h>

static const double fb_pi = 3.14159265358979323846;

static double* fb_dft(const double* data, long size) {
	if (size <= 0) {
		return NULL;
	}
	double* out = (double*)malloc(sizeof(double) * 2 * (size_t)size);
	if (out == NULL) {
		return NULL;
	}
	double step = -2.0 * fb_pi / (double)size;
	for (long j = 0; j < size; j++) {
		double re = 0.0, im = 0.0;
		for (long k = 0; k < size; k++) {
			double arg = step * (double)((j * k) % size);
			double c = cos(arg), s = sin(arg);
			re += data[2 * k] * c - data[2 * k + 1] * s;
			im += data[2 * k] * s + data[2 * k + 1] * c;
		}
		out[2 * j] = re;
		out[2 * j + 1] = im;
	}
	return out;
}

static double* fb_fft(const double* data, long size) {
	if (size <= 0 || (size & (size - 1)) != 0) {
		return NULL;
	}
	double* x = (double*)malloc(sizeof(double) * 2 * (size_t)size);
	if (x == NULL) {
		return NULL;
	}
	memcpy(x, data, sizeof(double) * 2 * (size_t)size);

	double theta = fb_pi / (double)size;
	double pr = cos(theta), pi = -sin(theta);
	long k = size;
	while (k > 1) {
		long n = k;
		k >>= 1;
		double sq = pr * pr - pi * pi;
		pi = 2.0 * pr * pi;
		pr = sq;
		double tr = 1.0, ti = 0.0;
		for (long l = 0; l < k; l++) {
			for (long a = l; a < size; a += n) {
				long b = a + k;
				double dr = x[2 * a] - x[2 * b];
				double di = x[2 * a + 1] - x[2 * b + 1];
				x[2 * a] += x[2 * b];
				x[2 * a + 1] += x[2 * b + 1];
				x[2 * b] = dr * tr - di * ti;
				x[2 * b + 1] = dr * ti + di * tr;
			}
			double u = tr * pr - ti * pi;
			ti = tr * pi + ti * pr;
			tr = u;
		}
	}

	int m = 0;
	while ((1L << m) < size) {
		m++;
	}
	for (long a = 0; a < size; a++) {
		long b = 0;
		for (int i = 0; i < m; i++) {
			if (a & (1L << i)) {
				b |= 1L << (m - 1 - i);
			}
		}
		if (b > a) {
			double tr = x[2 * a], ti = x[2 * a + 1];
			x[2 * a] = x[2 * b];
			x[2 * a + 1] = x[2 * b + 1];
			x[2 * b] = tr;
			x[2 * b + 1] = ti;
		}
	}
	return x;
}
*/
import "C"

import "unsafe"

// Labels of the C kernels.
const (
	CDFTLabel = "c-dft"
	CFFTLabel = "c-fft"
)

func init() {
	addKernel(Kernel{Label: CDFTLabel, Call: cDFT, Release: cFree})
	addKernel(Kernel{Label: CFFTLabel, Call: cFFT, Release: cFree})
}

func cDFT(data unsafe.Pointer, count int64) unsafe.Pointer {
	return unsafe.Pointer(C.fb_dft((*C.double)(data), C.long(count)))
}

func cFFT(data unsafe.Pointer, count int64) unsafe.Pointer {
	return unsafe.Pointer(C.fb_fft((*C.double)(data), C.long(count)))
}

func cFree(p unsafe.Pointer) {
	C.free(p)
}
