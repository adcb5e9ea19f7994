package stepcount

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/testutil"
)

func TestCountWithChart(t *testing.T) {
	t.Parallel()

	x, y, z := testutil.Walk(50, 10, 2, 2)
	res, p, err := CountWithChart(x, y, z, 50, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, p)

	assert.Equal(t, fmt.Sprintf("Detected Steps: %d", res.Steps), p.Title.Text)
	assert.Equal(t, "Time (s)", p.X.Label.Text)
	assert.Equal(t, "Acceleration", p.Y.Label.Text)

	// The time axis spans the recording.
	assert.InDelta(t, 0, p.X.Min, 1e-9)
	assert.InDelta(t, 9.98, p.X.Max, 1e-9)

	wt, err := p.WriterTo(6*vg.Inch, 3*vg.Inch, "png")
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = wt.WriteTo(&buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestCountWithChart_MatchesCount(t *testing.T) {
	t.Parallel()

	x, y, z := testutil.Walk(50, 10, 1.7, 1)
	plain, err := Count(x, y, z, 50, DefaultOptions())
	require.NoError(t, err)
	charted, _, err := CountWithChart(x, y, z, 50, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, plain.Peaks, charted.Peaks)
	assert.Equal(t, plain.Filtered, charted.Filtered)
}

func TestCountWithChart_Error(t *testing.T) {
	t.Parallel()

	res, p, err := CountWithChart(make([]float64, 10), make([]float64, 9), make([]float64, 10), 50, DefaultOptions())
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Nil(t, res)
	assert.Nil(t, p)
}

func TestChart_NoPeaks(t *testing.T) {
	t.Parallel()

	res := &Result{Filtered: make([]float64, 100), SampleRate: 50}
	p, err := Chart(res)
	require.NoError(t, err)
	assert.Equal(t, "Detected Steps: 0", p.Title.Text)
}

func TestChart_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Chart(nil)
	assert.Error(t, err)

	_, err = Chart(&Result{Filtered: []float64{1, 2}})
	assert.Error(t, err)
}
