// Package testutil provides shared test utilities and fixtures.
//
// It holds synthetic accelerometer generators and the assertions on peak
// index sequences that several packages check, so each test file does not
// roll its own.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// Gravity is standard gravity in m/s², used as the resting offset on the
// vertical axis of synthetic recordings.
const Gravity = 9.80665

// Sine returns n samples of amp*sin(2π·freq·t + phase) at sampling rate fs.
func Sine(n int, fs, freq, amp, phase float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / fs
		out[i] = amp * math.Sin(2*math.Pi*freq*t+phase)
	}
	return out
}

// Constant returns n copies of v.
func Constant(n int, v float64) []float64 {
	out := make([]float64, n)
	if v != 0 {
		floats.AddConst(v, out)
	}
	return out
}

// Walk returns a synthetic walking recording: gravity plus a sinusoid at
// cadence Hz with amplitude amp on the z axis, and constant offsets on x and
// y. Over seconds at fs it produces roughly cadence*seconds steps.
func Walk(fs, seconds, cadence, amp float64) (x, y, z []float64) {
	n := int(math.Round(fs * seconds))
	x = Constant(n, 0.3)
	y = Constant(n, 0.5)
	z = Sine(n, fs, cadence, amp, 0)
	floats.AddConst(Gravity, z)
	return x, y, z
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertPeakSpacing checks that peaks is strictly increasing and that any
// two consecutive indices are at least minGap apart.
func AssertPeakSpacing(t *testing.T, peaks []int, minGap int) {
	t.Helper()
	for i := 1; i < len(peaks); i++ {
		if peaks[i] <= peaks[i-1] {
			t.Errorf("peaks not strictly increasing at %d: %d after %d", i, peaks[i], peaks[i-1])
		}
		if gap := peaks[i] - peaks[i-1]; gap < minGap {
			t.Errorf("peaks %d and %d only %d samples apart, want >= %d", peaks[i-1], peaks[i], gap, minGap)
		}
	}
}

// MaxAbsDiff returns the largest absolute element-wise difference between a
// and b over the index range [from, to).
func MaxAbsDiff(a, b []float64, from, to int) float64 {
	worst := 0.0
	for i := from; i < to; i++ {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}
	return worst
}
