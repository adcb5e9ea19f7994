package stepcount

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// CountWithChart runs Count and builds the chart for its result. The chart
// is returned unrendered; saving or displaying it is up to the caller.
func CountWithChart(x, y, z []float64, fs float64, opts Options) (*Result, *plot.Plot, error) {
	res, err := Count(x, y, z, fs, opts)
	if err != nil {
		return nil, nil, err
	}
	p, err := Chart(res)
	if err != nil {
		return res, nil, err
	}
	return res, p, nil
}

// Chart plots the filtered signal against time with a cross at every
// detected step, titled with the step count.
func Chart(res *Result) (*plot.Plot, error) {
	if res == nil {
		return nil, fmt.Errorf("chart: nil result")
	}
	if res.SampleRate <= 0 {
		return nil, fmt.Errorf("chart: invalid sample rate %g", res.SampleRate)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Detected Steps: %d", res.Steps)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Acceleration"
	p.Add(plotter.NewGrid())

	signal := make(plotter.XYs, len(res.Filtered))
	for i, v := range res.Filtered {
		signal[i] = plotter.XY{X: float64(i) / res.SampleRate, Y: v}
	}
	line, err := plotter.NewLine(signal)
	if err != nil {
		return nil, fmt.Errorf("chart: signal line: %w", err)
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("Filtered signal", line)

	if len(res.Peaks) > 0 {
		marks := make(plotter.XYs, len(res.Peaks))
		for i, idx := range res.Peaks {
			marks[i] = plotter.XY{X: float64(idx) / res.SampleRate, Y: res.Filtered[idx]}
		}
		steps, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("chart: step markers: %w", err)
		}
		steps.GlyphStyle.Shape = draw.CrossGlyph{}
		steps.GlyphStyle.Color = color.RGBA{R: 255, G: 127, B: 14, A: 255}
		steps.GlyphStyle.Radius = vg.Points(4)
		p.Add(steps)
		p.Legend.Add("Detected steps", steps)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p, nil
}
