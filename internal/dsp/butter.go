// Package dsp provides the band-pass filtering primitive used by the step
// counter: digital Butterworth design and zero-phase (forward-backward)
// application.
//
// Cutoff frequencies passed to ButterBandpass are normalized to the Nyquist
// frequency, so 1.0 corresponds to fs/2. Bandpass takes physical cutoffs in
// Hz together with the sampling rate and performs the normalization itself.
package dsp

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// Default gait band and filter order.
const (
	DefaultLowCut  = 0.5 // Hz
	DefaultHighCut = 3.0 // Hz
	DefaultOrder   = 4

	// MaxOrder bounds the prototype order. Polynomial coefficients of higher
	// order band-pass designs lose too much precision to be useful.
	MaxOrder = 12
)

var (
	// ErrInvalidSampleRate reports a sampling rate that is not a positive finite number.
	ErrInvalidSampleRate = errors.New("invalid sampling frequency")
	// ErrInvalidCutoff reports band edges outside 0 < low < high < Nyquist.
	ErrInvalidCutoff = errors.New("invalid cutoff frequency")
	// ErrInvalidOrder reports a prototype order outside [1, MaxOrder].
	ErrInvalidOrder = errors.New("invalid filter order")
	// ErrSignalTooShort reports a signal no longer than the filtfilt padding.
	ErrSignalTooShort = errors.New("signal too short for zero-phase filtering")
)

// Coefficients holds transfer function polynomials in descending powers of
// z^-1. A[0] is always 1 for designed filters.
type Coefficients struct {
	B []float64
	A []float64
}

// Len returns the number of taps, max(len(B), len(A)).
func (c Coefficients) Len() int {
	if len(c.A) > len(c.B) {
		return len(c.A)
	}
	return len(c.B)
}

// ButterBandpass designs a digital Butterworth band-pass filter of the given
// prototype order. low and high are normalized to Nyquist and must satisfy
// 0 < low < high < 1. The resulting polynomials have 2*order+1 taps.
func ButterBandpass(order int, low, high float64) (Coefficients, error) {
	if order < 1 || order > MaxOrder {
		return Coefficients{}, fmt.Errorf("%w: order %d outside [1, %d]", ErrInvalidOrder, order, MaxOrder)
	}
	if err := checkNormalizedBand(low, high); err != nil {
		return Coefficients{}, err
	}

	// Pre-warp the band edges for the bilinear transform (design rate fs=2).
	const fs2 = 4.0
	wl := fs2 * math.Tan(math.Pi*low/2)
	wh := fs2 * math.Tan(math.Pi*high/2)
	bw := wh - wl
	wo := math.Sqrt(wl * wh)

	// Low-pass prototype poles on the unit circle, left half plane.
	proto := make([]complex128, order)
	for i := range proto {
		m := float64(2*i - order + 1)
		proto[i] = -cmplx.Exp(complex(0, math.Pi*m/float64(2*order)))
	}

	// Low-pass to band-pass: every prototype pole splits into two, and
	// order zeros land at the origin.
	poles := make([]complex128, 0, 2*order)
	for _, p := range proto {
		p = p * complex(bw/2, 0)
		d := cmplx.Sqrt(p*p - complex(wo*wo, 0))
		poles = append(poles, p+d)
	}
	for _, p := range proto {
		p = p * complex(bw/2, 0)
		d := cmplx.Sqrt(p*p - complex(wo*wo, 0))
		poles = append(poles, p-d)
	}
	zeros := make([]complex128, order)
	gain := math.Pow(bw, float64(order))

	// Bilinear transform. The zeros at the analog origin map to +1 and the
	// surplus poles contribute zeros at -1.
	num := complex(1, 0)
	den := complex(1, 0)
	dz := make([]complex128, 0, 2*order)
	for _, z := range zeros {
		num *= complex(fs2, 0) - z
		dz = append(dz, (complex(fs2, 0)+z)/(complex(fs2, 0)-z))
	}
	pz := make([]complex128, len(poles))
	for i, p := range poles {
		den *= complex(fs2, 0) - p
		pz[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
	}
	for i := 0; i < len(poles)-len(zeros); i++ {
		dz = append(dz, -1)
	}
	gain *= real(num / den)

	b := realPoly(dz)
	for i := range b {
		b[i] *= gain
	}
	return Coefficients{B: b, A: realPoly(pz)}, nil
}

// FrequencyResponse evaluates H(e^{jπw}) at a frequency w normalized to
// Nyquist.
func FrequencyResponse(c Coefficients, w float64) complex128 {
	zinv := cmplx.Exp(complex(0, -math.Pi*w))
	return polyval(c.B, zinv) / polyval(c.A, zinv)
}

func checkNormalizedBand(low, high float64) error {
	switch {
	case math.IsNaN(low) || math.IsNaN(high):
		return fmt.Errorf("%w: NaN cutoff", ErrInvalidCutoff)
	case low <= 0:
		return fmt.Errorf("%w: low cutoff %g must be positive", ErrInvalidCutoff, low)
	case low >= high:
		return fmt.Errorf("%w: low cutoff %g must be below high cutoff %g", ErrInvalidCutoff, low, high)
	case high >= 1:
		return fmt.Errorf("%w: high cutoff %g must be below Nyquist", ErrInvalidCutoff, high)
	}
	return nil
}

// realPoly expands prod(x - r) and returns the real part of its coefficients,
// highest power first. Roots are expected in conjugate pairs.
func realPoly(roots []complex128) []float64 {
	c := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(c)+1)
		for i, v := range c {
			next[i] += v
			next[i+1] -= v * r
		}
		c = next
	}
	out := make([]float64, len(c))
	for i, v := range c {
		out[i] = real(v)
	}
	return out
}

// polyval evaluates sum(p[i] * x^i), the convention used for z^-1 polynomials.
func polyval(p []float64, x complex128) complex128 {
	var acc complex128
	for i := len(p) - 1; i >= 0; i-- {
		acc = acc*x + complex(p[i], 0)
	}
	return acc
}
