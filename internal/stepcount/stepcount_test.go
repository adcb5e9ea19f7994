package stepcount

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/dsp"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/monitoring"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/testutil"
)

func TestCount_Sinusoid(t *testing.T) {
	t.Parallel()

	// 2Hz for 10s at 50Hz: about 20 steps.
	x, y, z := testutil.Walk(50, 10, 2, 2)
	res, err := Count(x, y, z, 50, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 20, res.Steps, 2)
	assert.Equal(t, len(res.Peaks), res.Steps)
	assert.Len(t, res.Heights, res.Steps)
	assert.Len(t, res.Filtered, 500)
	assert.Equal(t, 17, res.MinDistance)
	assert.False(t, res.Degenerate)
	assert.Greater(t, res.Threshold, 0.0)
	testutil.AssertPeakSpacing(t, res.Peaks, res.MinDistance)

	for i, idx := range res.Peaks {
		assert.Greater(t, res.Filtered[idx], res.Threshold)
		assert.Equal(t, res.Filtered[idx], res.Heights[i])
	}
}

func TestCount_Cadences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fs      float64
		seconds float64
		cadence float64
	}{
		{50, 20, 1.0},
		{50, 20, 1.8},
		{100, 15, 2.2},
		{32, 30, 1.5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1fHz@%gHz", tt.cadence, tt.fs), func(t *testing.T) {
			t.Parallel()
			x, y, z := testutil.Walk(tt.fs, tt.seconds, tt.cadence, 1.5)
			res, err := Count(x, y, z, tt.fs, Options{})
			require.NoError(t, err)

			want := tt.cadence * tt.seconds
			assert.InDelta(t, want, res.Steps, 2)
			testutil.AssertPeakSpacing(t, res.Peaks, MinDistance(tt.fs, DefaultMinStepInterval))
		})
	}
}

func TestCount_ZeroSignal(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()
	var logged []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, v...))
	})

	zeros := make([]float64, 500)
	res, err := Count(zeros, zeros, zeros, 50, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Steps)
	assert.Empty(t, res.Peaks)
	assert.Equal(t, 0.0, res.Threshold)
	assert.True(t, res.Degenerate)
	for i, v := range res.Filtered {
		require.Equal(t, 0.0, v, "sample %d", i)
	}
	require.Len(t, logged, 1)
	assert.Contains(t, logged[0], "zero variance")
}

func TestCount_ConstantSignal(t *testing.T) {
	original := monitoring.Logf
	defer func() { monitoring.Logf = original }()

	tests := []struct {
		name    string
		x, y, z float64
	}{
		{"at rest under gravity", 0.3, 0.5, testutil.Gravity},
		{"unit axes", 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logged []string
			monitoring.SetLogger(func(format string, v ...interface{}) {
				logged = append(logged, fmt.Sprintf(format, v...))
			})

			const n = 500
			res, err := Count(testutil.Constant(n, tt.x), testutil.Constant(n, tt.y), testutil.Constant(n, tt.z), 50, DefaultOptions())
			require.NoError(t, err)

			assert.Equal(t, 0, res.Steps)
			assert.Empty(t, res.Peaks)
			assert.Equal(t, 0.0, res.Threshold)
			assert.True(t, res.Degenerate)
			for i, v := range res.Filtered {
				require.Equal(t, 0.0, v, "sample %d", i)
			}
			require.Len(t, logged, 1)
			assert.Contains(t, logged[0], "zero variance")
		})
	}
}

func TestCount_LengthMismatch(t *testing.T) {
	t.Parallel()

	x := make([]float64, 500)
	y := make([]float64, 400)
	z := make([]float64, 500)

	res, err := Count(x, y, z, 50, DefaultOptions())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Contains(t, err.Error(), "y=400")
}

func TestCount_InvalidSampleRate(t *testing.T) {
	t.Parallel()

	x, y, z := testutil.Walk(50, 10, 2, 1)
	for _, fs := range []float64{0, -50, math.NaN(), math.Inf(1)} {
		_, err := Count(x, y, z, fs, DefaultOptions())
		assert.ErrorIs(t, err, ErrInvalidInput, "fs=%v", fs)
		assert.ErrorIs(t, err, dsp.ErrInvalidSampleRate, "fs=%v", fs)
	}
}

func TestCount_SampleRateBelowBand(t *testing.T) {
	t.Parallel()

	x, y, z := testutil.Walk(5, 100, 1, 1)
	_, err := Count(x, y, z, 5, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, dsp.ErrInvalidCutoff)

	// Exactly 2x the high cutoff is still not enough.
	x, y, z = testutil.Walk(6, 100, 1, 1)
	_, err = Count(x, y, z, 6, DefaultOptions())
	assert.ErrorIs(t, err, dsp.ErrInvalidCutoff)
}

func TestCount_InvalidOptions(t *testing.T) {
	t.Parallel()

	x, y, z := testutil.Walk(50, 10, 2, 1)
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"inverted band", Options{LowCut: 4, HighCut: 3}, dsp.ErrInvalidCutoff},
		{"negative low", Options{LowCut: -1}, dsp.ErrInvalidCutoff},
		{"order too high", Options{Order: dsp.MaxOrder + 1}, dsp.ErrInvalidOrder},
		{"negative order", Options{Order: -2}, dsp.ErrInvalidOrder},
		{"negative factor", Options{ThresholdFactor: -1}, ErrInvalidInput},
		{"negative interval", Options{MinStepInterval: -0.1}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Count(x, y, z, 50, tt.opts)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCount_TooShort(t *testing.T) {
	t.Parallel()

	x, y, z := testutil.Walk(50, 0.5, 2, 1)
	_, err := Count(x, y, z, 50, DefaultOptions())
	assert.ErrorIs(t, err, dsp.ErrSignalTooShort)
}

func TestCount_Idempotent(t *testing.T) {
	t.Parallel()

	x, y, z := testutil.Walk(50, 10, 2, 2)
	first, err := Count(x, y, z, 50, DefaultOptions())
	require.NoError(t, err)
	second, err := Count(x, y, z, 50, DefaultOptions())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Count() mismatch (-first +second):\n%s", diff)
	}
}

func TestCount_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	x, y, z := testutil.Walk(50, 10, 2, 2)
	xc := append([]float64(nil), x...)
	_, err := Count(x, y, z, 50, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, xc, x)
}

func TestCount_Concurrent(t *testing.T) {
	t.Parallel()

	x, y, z := testutil.Walk(50, 10, 2, 2)
	want, err := Count(x, y, z, 50, DefaultOptions())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Count(x, y, z, 50, DefaultOptions())
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		require.NotNil(t, got, "worker %d", i)
		assert.Equal(t, want.Peaks, got.Peaks, "worker %d", i)
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultOptions(), Options{}.withDefaults())

	custom := Options{LowCut: 0.8, ThresholdFactor: 0.7}.withDefaults()
	assert.Equal(t, 0.8, custom.LowCut)
	assert.Equal(t, dsp.DefaultHighCut, custom.HighCut)
	assert.Equal(t, dsp.DefaultOrder, custom.Order)
	assert.Equal(t, 0.7, custom.ThresholdFactor)
	assert.Equal(t, DefaultMinStepInterval, custom.MinStepInterval)
}

func TestMagnitude(t *testing.T) {
	t.Parallel()

	m, err := Magnitude([]float64{3, 0, 1}, []float64{4, 0, 2}, []float64{0, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 0, 3}, m)

	_, err = Magnitude([]float64{1}, []float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	m, err = Magnitude(nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestCenter(t *testing.T) {
	t.Parallel()

	in := []float64{1, 2, 3, 6}
	out := Center(in)
	assert.Equal(t, []float64{-2, -1, 0, 3}, out)
	assert.Equal(t, []float64{1, 2, 3, 6}, in)
	assert.Empty(t, Center(nil))

	// Mean of repeated 9.80665 is not exact in floating point.
	flat := Center(testutil.Constant(500, 9.80665))
	for i, v := range flat {
		require.Equal(t, 0.0, v, "sample %d", i)
	}
}

func TestThreshold(t *testing.T) {
	t.Parallel()

	// Population std of {1,-1,1,-1} is 1.
	assert.InDelta(t, 0.5, Threshold([]float64{1, -1, 1, -1}, 0.5), 1e-15)
	assert.Equal(t, 0.0, Threshold(make([]float64, 10), 0.5))
	assert.Equal(t, 0.0, Threshold(nil, 0.5))
}

func TestMinDistance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 17, MinDistance(50, 0.35))
	assert.Equal(t, 35, MinDistance(100, 0.35))
	assert.Equal(t, 11, MinDistance(32, 0.35))
	assert.Equal(t, 2, MinDistance(7, 0.35))
}

func TestResult_Duration(t *testing.T) {
	t.Parallel()

	r := &Result{Filtered: make([]float64, 500), SampleRate: 50}
	assert.Equal(t, 10.0, r.Duration())
	assert.Equal(t, 0.0, (&Result{}).Duration())
}
