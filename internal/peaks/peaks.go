// Package peaks finds local maxima in a sampled signal, optionally gated by
// a minimum height and thinned so that no two kept peaks are closer than a
// given number of samples.
package peaks

import (
	"gonum.org/v1/gonum/floats"
)

// Options controls which local maxima Find keeps.
type Options struct {
	// MinHeight, when non-nil, drops maxima whose value does not strictly
	// exceed it. A threshold equal to the peak value rejects the peak.
	MinHeight *float64

	// Distance is the minimum gap in samples between kept peaks. When two
	// maxima are closer, the higher one survives. Values below 2 disable the
	// check, since distinct maxima are always at least 2 samples apart.
	Distance int
}

// Height returns a pointer to h for use as Options.MinHeight.
func Height(h float64) *float64 { return &h }

// Result lists the kept peaks in ascending index order with their values.
type Result struct {
	Indices []int
	Heights []float64
}

// Len returns the number of peaks.
func (r Result) Len() int { return len(r.Indices) }

// Find returns the peaks of x selected by opts.
func Find(x []float64, opts Options) Result {
	idx := LocalMaxima(x)

	if opts.MinHeight != nil {
		floor := *opts.MinHeight
		kept := idx[:0]
		for _, i := range idx {
			if x[i] > floor {
				kept = append(kept, i)
			}
		}
		idx = kept
	}

	if opts.Distance > 1 && len(idx) > 1 {
		idx = selectByDistance(x, idx, opts.Distance)
	}

	res := Result{
		Indices: make([]int, len(idx)),
		Heights: make([]float64, len(idx)),
	}
	for n, i := range idx {
		res.Indices[n] = i
		res.Heights[n] = x[i]
	}
	return res
}

// LocalMaxima returns the indices of all samples that are higher than both
// neighbours. A flat-topped maximum (plateau) is reported once, at its middle
// sample, rounding towards the left for even widths. The first and last
// samples are never maxima.
func LocalMaxima(x []float64) []int {
	var out []int
	last := len(x) - 1
	for i := 1; i < last; i++ {
		if !(x[i-1] < x[i]) {
			continue
		}
		ahead := i + 1
		for ahead < last && x[ahead] == x[i] {
			ahead++
		}
		if x[ahead] < x[i] {
			out = append(out, (i+ahead-1)/2)
			i = ahead
		}
	}
	return out
}

// selectByDistance walks the candidates from highest to lowest and discards
// any lower candidate within distance samples of one already kept. Equal
// heights are resolved in favour of the later index.
func selectByDistance(x []float64, idx []int, distance int) []int {
	heights := make([]float64, len(idx))
	for n, i := range idx {
		heights[n] = x[i]
	}
	order := make([]int, len(idx))
	floats.ArgsortStable(heights, order)

	keep := make([]bool, len(idx))
	for n := range keep {
		keep[n] = true
	}

	for p := len(order) - 1; p >= 0; p-- {
		j := order[p]
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && idx[j]-idx[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < len(idx) && idx[k]-idx[j] < distance; k++ {
			keep[k] = false
		}
	}

	out := make([]int, 0, len(idx))
	for n, i := range idx {
		if keep[n] {
			out = append(out, i)
		}
	}
	return out
}
