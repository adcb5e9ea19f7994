package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Filter runs x through the IIR filter c in direct form II transposed and
// returns a new slice. zi is the initial delay-line state and may be nil for
// a filter at rest; otherwise it must have c.Len()-1 elements.
func Filter(c Coefficients, x []float64, zi []float64) []float64 {
	b, a := normalize(c)
	n := len(a)

	state := make([]float64, n-1)
	if zi != nil {
		copy(state, zi)
	}

	y := make([]float64, len(x))
	for i, xi := range x {
		yi := b[0]*xi + first(state)
		for k := 0; k < n-2; k++ {
			state[k] = b[k+1]*xi + state[k+1] - a[k+1]*yi
		}
		if n > 1 {
			state[n-2] = b[n-1]*xi - a[n-1]*yi
		}
		y[i] = yi
	}
	return y
}

// FilterInitialState returns the delay-line state that makes the filter's
// response to a unit step start in steady state. Scale it by the first input
// sample to suppress the start-up transient.
func FilterInitialState(c Coefficients) ([]float64, error) {
	b, a := normalize(c)
	n := len(a)
	if n < 2 {
		return nil, nil
	}

	// Solve (I - companion(a)^T) zi = b[1:] - a[1:]*b[0].
	m := mat.NewDense(n-1, n-1, nil)
	for i := 0; i < n-1; i++ {
		m.Set(i, i, 1)
		m.Set(i, 0, m.At(i, 0)+a[i+1])
		if i+1 < n-1 {
			m.Set(i, i+1, m.At(i, i+1)-1)
		}
	}
	rhs := mat.NewVecDense(n-1, nil)
	for i := 0; i < n-1; i++ {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(m, rhs); err != nil {
		return nil, fmt.Errorf("solve initial filter state: %w", err)
	}
	return mat.Col(nil, 0, &zi), nil
}

// PadLen returns the number of samples FiltFilt extends each end of the
// input by. Inputs must be strictly longer than this.
func PadLen(c Coefficients) int {
	return 3 * c.Len()
}

// FiltFilt applies c forward and then backward so that the output has zero
// phase distortion. Both ends are extended by odd reflection before
// filtering, and each pass starts from the steady-state initial conditions
// scaled to the first sample it sees.
func FiltFilt(c Coefficients, x []float64) ([]float64, error) {
	padLen := PadLen(c)
	if len(x) <= padLen {
		return nil, fmt.Errorf("%w: got %d samples, need more than %d", ErrSignalTooShort, len(x), padLen)
	}

	zi, err := FilterInitialState(c)
	if err != nil {
		return nil, err
	}

	ext := oddExtend(x, padLen)

	state := scaled(zi, ext[0])
	y := Filter(c, ext, state)

	reverse(y)
	state = scaled(zi, y[0])
	y = Filter(c, y, state)
	reverse(y)

	out := make([]float64, len(x))
	copy(out, y[padLen:padLen+len(x)])
	return out, nil
}

// Bandpass removes content outside [low, high] Hz from x, sampled at fs Hz,
// with a zero-phase Butterworth filter of the given prototype order. The
// returned slice has the same length as x.
func Bandpass(x []float64, fs, low, high float64, order int) ([]float64, error) {
	if err := CheckBand(fs, low, high); err != nil {
		return nil, err
	}
	nyq := 0.5 * fs
	c, err := ButterBandpass(order, low/nyq, high/nyq)
	if err != nil {
		return nil, err
	}
	return FiltFilt(c, x)
}

// CheckBand reports whether the physical band [low, high] Hz can be realized
// at sampling rate fs: fs must be positive and finite and
// 0 < low < high < fs/2.
func CheckBand(fs, low, high float64) error {
	if !(fs > 0) || math.IsInf(fs, 0) {
		return fmt.Errorf("%w: %g Hz must be positive and finite", ErrInvalidSampleRate, fs)
	}
	nyq := 0.5 * fs
	if high >= nyq {
		return fmt.Errorf("%w: high cutoff %g Hz must be below Nyquist %g Hz (fs %g Hz)", ErrInvalidCutoff, high, nyq, fs)
	}
	if low <= 0 || low >= high || math.IsNaN(low) || math.IsNaN(high) {
		return fmt.Errorf("%w: need 0 < low < high, got low %g Hz high %g Hz", ErrInvalidCutoff, low, high)
	}
	return nil
}

func normalize(c Coefficients) (b, a []float64) {
	n := c.Len()
	b = make([]float64, n)
	a = make([]float64, n)
	copy(b, c.B)
	copy(a, c.A)
	if a[0] != 1 && a[0] != 0 {
		floats.Scale(1/a[0], b)
		floats.Scale(1/a[0], a)
	}
	return b, a
}

func oddExtend(x []float64, n int) []float64 {
	last := len(x) - 1
	ext := make([]float64, 0, len(x)+2*n)
	for i := n; i >= 1; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	for i := 1; i <= n; i++ {
		ext = append(ext, 2*x[last]-x[last-i])
	}
	return ext
}

func scaled(v []float64, k float64) []float64 {
	out := make([]float64, len(v))
	floats.ScaleTo(out, k, v)
	return out
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func first(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}
