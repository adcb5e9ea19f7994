package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/monitoring"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/stepcount"
)

// ErrNoResult is returned when asked to report a nil result.
var ErrNoResult = errors.New("no result to report")

// SaveHTML writes an interactive chart of the filtered signal with the
// detected steps overlaid. A data-zoom slider allows scrolling through
// long recordings.
func (w *Writer) SaveHTML(res *stepcount.Result, title, path string) error {
	line, err := htmlChart(res, title)
	if err != nil {
		return fmt.Errorf("save html %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return fmt.Errorf("render html %s: %w", path, err)
	}

	if err := w.ensureDir(path); err != nil {
		return err
	}
	if err := w.fs.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	monitoring.Debugf("report: wrote html chart to %s (%d bytes)", path, buf.Len())
	return nil
}

func htmlChart(res *stepcount.Result, title string) (*charts.Line, error) {
	if res == nil {
		return nil, ErrNoResult
	}
	if res.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %g", res.SampleRate)
	}
	if title == "" {
		title = "Step Counter"
	}

	signal := make([]opts.LineData, len(res.Filtered))
	for i, v := range res.Filtered {
		signal[i] = opts.LineData{Value: []interface{}{float64(i) / res.SampleRate, v}}
	}
	marks := make([]opts.ScatterData, len(res.Peaks))
	for i, idx := range res.Peaks {
		marks[i] = opts.ScatterData{Value: []interface{}{float64(idx) / res.SampleRate, res.Filtered[idx]}}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("Detected Steps: %d  threshold=%.4g  min distance=%d samples", res.Steps, res.Threshold, res.MinDistance)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Time (s)", Min: 0, Max: res.Duration()}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Acceleration"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: 100},
			opts.DataZoom{Type: "inside", Start: 0, End: 100},
		),
	)
	line.AddSeries("Filtered signal", signal, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	scatter := charts.NewScatter()
	scatter.AddSeries("Detected steps", marks, charts.WithScatterChartOpts(opts.ScatterChart{Symbol: "pin", SymbolSize: 14}))
	line.Overlap(scatter)

	return line, nil
}
