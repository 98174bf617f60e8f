// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// The functions in this file operate on whole blocks of samples in place,
// mirroring the vector kernels used by the waveform extractor.

// Int16ToFloat64 widens src into dst, growing dst when needed, and returns it.
func Int16ToFloat64(dst []float64, src []int16) []float64 {
	if cap(dst) < len(src) {
		dst = make([]float64, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

// Abs rectifies x in place.
func Abs(x []float64) {
	for i, v := range x {
		x[i] = math.Abs(v)
	}
}

// AmplitudeToDB converts linear amplitudes to decibels relative to ref:
// 20*log10(x/ref). Zero amplitude maps to -Inf.
func AmplitudeToDB(x []float64, ref float64) {
	for i, v := range x {
		x[i] = 20 * math.Log10(v/ref)
	}
}

// Clip clamps every value of x into [lo, hi] in place.
func Clip(x []float64, lo, hi float64) {
	for i, v := range x {
		switch {
		case v < lo:
			x[i] = lo
		case v > hi:
			x[i] = hi
		}
	}
}

// WindowMean averages a stream in consecutive windows of a fixed size. Only
// the running sum of the open window is kept, so memory does not grow with
// the window.
type WindowMean struct {
	size int
	sum  float64
	n    int
}

// NewWindowMean returns a WindowMean over windows of size values; size is at least 1.
func NewWindowMean(size int) *WindowMean {
	return &WindowMean{size: max(1, size)}
}

// Add feeds x in order and appends the mean of every window it completes to dst.
func (w *WindowMean) Add(dst, x []float64) []float64 {
	for _, v := range x {
		w.sum += v
		w.n++
		if w.n == w.size {
			dst = w.Flush(dst)
		}
	}
	return dst
}

// Flush appends the mean of the open window, averaged over the values it
// holds, and starts a new one. An empty window appends nothing.
func (w *WindowMean) Flush(dst []float64) []float64 {
	if w.n == 0 {
		return dst
	}
	dst = append(dst, w.sum/float64(w.n))
	w.sum, w.n = 0, 0
	return dst
}

// Scale multiplies x in place by c.
func Scale(c float64, x []float64) {
	floats.Scale(c, x)
}

// Max returns the largest value of x, never less than floor.
func Max(x []float64, floor float64) float64 {
	if len(x) == 0 {
		return floor
	}
	return math.Max(floor, floats.Max(x))
}
