// Package dataset turns recordings on disk into the three equal-length axis
// sequences and sampling rate the step counter consumes.
//
// Two layouts are supported: the UCI HAR "Inertial Signals" text files,
// where a recording is assembled by concatenating the fixed-length windows
// of one subject and activity, and plain CSV files with one row per sample.
// Nothing here depends on process-wide state; every location and selection
// is passed in explicitly.
package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWindows means no HAR window matches the subject and activity.
	ErrNoWindows = errors.New("no windows match the selection")
	// ErrMalformed covers unparsable numbers, ragged rows and row counts that disagree.
	ErrMalformed = errors.New("malformed data file")
	// ErrUnknownSplit is returned for a HAR split other than train or test.
	ErrUnknownSplit = errors.New("unknown dataset split")
	// ErrMissingColumns means a CSV header lacks an x, y or z column.
	ErrMissingColumns = errors.New("missing accelerometer columns")
)

// Recording is one continuous (or pseudo-continuous) triaxial recording.
type Recording struct {
	X, Y, Z    []float64
	SampleRate float64

	// Source describes where the samples came from, for reports.
	Source string

	// Windows is the number of dataset windows concatenated into the
	// recording, or 0 when the source is continuous.
	Windows int
}

// Len returns the number of samples per axis.
func (r *Recording) Len() int { return len(r.X) }

// Duration returns the recording length in seconds.
func (r *Recording) Duration() float64 {
	if r.SampleRate <= 0 {
		return 0
	}
	return float64(r.Len()) / r.SampleRate
}

func (r *Recording) String() string {
	return fmt.Sprintf("%s (%d samples, %.1fs at %gHz)", r.Source, r.Len(), r.Duration(), r.SampleRate)
}
