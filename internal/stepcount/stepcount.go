// Package stepcount estimates the number of steps in a triaxial
// accelerometer recording.
//
// The pipeline collapses the three axes into a magnitude signal, removes its
// mean (gravity and sensor offset), band-pass filters it to the gait band
// with a zero-phase Butterworth filter, and then counts peaks that rise
// above half the filtered signal's standard deviation and are at least
// 0.35 s apart.
//
// Every call is independent: nothing is cached between calls and the
// functions are safe to run concurrently on different recordings.
//
// A constant recording, such as a device lying still under gravity, has a
// magnitude with no variance. It centers to exact zeros and filters to all
// zeros, which gives a zero threshold; because peaks must strictly exceed the threshold this counts no
// steps and marks the result Degenerate. A recording that is merely close to
// flat can still produce peaks from numerical noise. Those counts are
// artifacts of the input and are not corrected here.
package stepcount

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/dsp"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/monitoring"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/peaks"
)

// Defaults for the detection stage.
const (
	DefaultThresholdFactor = 0.5
	DefaultMinStepInterval = 0.35 // seconds
)

var (
	// ErrInvalidInput is matched by every precondition failure, alongside the
	// more specific sentinel that names the violated precondition.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLengthMismatch reports x, y and z sequences of different lengths.
	ErrLengthMismatch = errors.New("axis lengths differ")
)

// Options tunes the pipeline. Zero fields take the package defaults.
type Options struct {
	LowCut          float64 // Hz
	HighCut         float64 // Hz
	Order           int
	ThresholdFactor float64 // multiples of the filtered signal's std dev
	MinStepInterval float64 // seconds
}

// DefaultOptions returns the documented defaults: a 0.5–3 Hz fourth-order
// band, a 0.5σ threshold and a 0.35 s refractory interval.
func DefaultOptions() Options {
	return Options{
		LowCut:          dsp.DefaultLowCut,
		HighCut:         dsp.DefaultHighCut,
		Order:           dsp.DefaultOrder,
		ThresholdFactor: DefaultThresholdFactor,
		MinStepInterval: DefaultMinStepInterval,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LowCut == 0 {
		o.LowCut = d.LowCut
	}
	if o.HighCut == 0 {
		o.HighCut = d.HighCut
	}
	if o.Order == 0 {
		o.Order = d.Order
	}
	if o.ThresholdFactor == 0 {
		o.ThresholdFactor = d.ThresholdFactor
	}
	if o.MinStepInterval == 0 {
		o.MinStepInterval = d.MinStepInterval
	}
	return o
}

// Result is the output of one pipeline run. Peaks and Heights are parallel;
// Filtered has one sample per input sample.
type Result struct {
	Steps       int
	Peaks       []int
	Heights     []float64
	Filtered    []float64
	Threshold   float64
	MinDistance int
	SampleRate  float64

	// Degenerate is set when the filtered signal has no variance, so the
	// threshold collapsed to zero and the count says nothing about gait.
	Degenerate bool
}

// Duration returns the length of the recording in seconds.
func (r *Result) Duration() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(len(r.Filtered)) / r.SampleRate
}

// Count runs the step counting pipeline on x, y and z sampled at fs Hz.
func Count(x, y, z []float64, fs float64, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := validate(x, y, z, fs, opts); err != nil {
		return nil, err
	}

	mag, err := Magnitude(x, y, z)
	if err != nil {
		return nil, err
	}
	centered := Center(mag)

	filtered, err := dsp.Bandpass(centered, fs, opts.LowCut, opts.HighCut, opts.Order)
	if err != nil {
		return nil, fmt.Errorf("band-pass filter: %w", err)
	}

	threshold := Threshold(filtered, opts.ThresholdFactor)
	distance := MinDistance(fs, opts.MinStepInterval)

	found := peaks.Find(filtered, peaks.Options{
		MinHeight: peaks.Height(threshold),
		Distance:  distance,
	})

	res := &Result{
		Steps:       found.Len(),
		Peaks:       found.Indices,
		Heights:     found.Heights,
		Filtered:    filtered,
		Threshold:   threshold,
		MinDistance: distance,
		SampleRate:  fs,
		Degenerate:  threshold == 0,
	}

	if res.Degenerate {
		monitoring.Logf("stepcount: filtered signal has zero variance over %d samples; step count is not meaningful", len(filtered))
	}
	monitoring.Debugf("stepcount: n=%d fs=%g threshold=%.6g distance=%d steps=%d", len(filtered), fs, threshold, distance, res.Steps)

	return res, nil
}

// Magnitude returns the per-sample Euclidean norm of the three axes.
func Magnitude(x, y, z []float64) ([]float64, error) {
	if len(x) != len(y) || len(x) != len(z) {
		return nil, fmt.Errorf("%w: %w: x=%d y=%d z=%d", ErrInvalidInput, ErrLengthMismatch, len(x), len(y), len(z))
	}
	out := make([]float64, len(x))
	for i := range out {
		out[i] = math.Sqrt(x[i]*x[i] + y[i]*y[i] + z[i]*z[i])
	}
	return out, nil
}

// Center returns a copy of s with its arithmetic mean subtracted. A constant
// s centers to exact zeros rather than to the rounding residue of the mean.
func Center(s []float64) []float64 {
	out := make([]float64, len(s))
	if len(s) == 0 || floats.Min(s) == floats.Max(s) {
		return out
	}
	mean := stat.Mean(s, nil)
	for i, v := range s {
		out[i] = v - mean
	}
	return out
}

// Threshold returns factor times the population standard deviation of s.
func Threshold(s []float64, factor float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return factor * stat.PopStdDev(s, nil)
}

// MinDistance converts a minimum step interval in seconds to whole samples
// at fs, rounding down.
func MinDistance(fs, interval float64) int {
	return int(math.Floor(interval * fs))
}

func validate(x, y, z []float64, fs float64, opts Options) error {
	if len(x) != len(y) || len(x) != len(z) {
		return fmt.Errorf("%w: %w: x=%d y=%d z=%d", ErrInvalidInput, ErrLengthMismatch, len(x), len(y), len(z))
	}
	if err := dsp.CheckBand(fs, opts.LowCut, opts.HighCut); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if opts.Order < 1 || opts.Order > dsp.MaxOrder {
		return fmt.Errorf("%w: %w: order %d outside [1, %d]", ErrInvalidInput, dsp.ErrInvalidOrder, opts.Order, dsp.MaxOrder)
	}
	if opts.ThresholdFactor < 0 || math.IsNaN(opts.ThresholdFactor) {
		return fmt.Errorf("%w: threshold factor %g must be non-negative", ErrInvalidInput, opts.ThresholdFactor)
	}
	if opts.MinStepInterval < 0 || math.IsNaN(opts.MinStepInterval) {
		return fmt.Errorf("%w: minimum step interval %g s must be non-negative", ErrInvalidInput, opts.MinStepInterval)
	}
	return nil
}
