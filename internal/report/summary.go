package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/stepcount"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/timeutil"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/version"
)

// Clock stamps summaries. Tests may replace it.
var Clock timeutil.Clock = timeutil.RealClock{}

// Summary is the JSON record of one run.
type Summary struct {
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	Version     string    `json:"version"`
	Source      string    `json:"source"`
	SampleRate  float64   `json:"sample_rate_hz"`
	Samples     int       `json:"samples"`
	Duration    float64   `json:"duration_s"`
	Steps       int       `json:"steps"`
	Threshold   float64   `json:"threshold"`
	MinDistance int       `json:"min_distance_samples"`
	Degenerate  bool      `json:"degenerate"`
	Options     Options   `json:"options"`

	// ProcessingTimeMs is filled in by the caller when it times the run.
	ProcessingTimeMs int64 `json:"processing_time_ms,omitempty"`
}

// Options mirrors stepcount.Options with JSON names matching the tuning file.
type Options struct {
	LowCutHz        float64 `json:"low_cut_hz"`
	HighCutHz       float64 `json:"high_cut_hz"`
	FilterOrder     int     `json:"filter_order"`
	ThresholdFactor float64 `json:"threshold_factor"`
	MinStepInterval float64 `json:"min_step_interval_s"`
}

// NewSummary describes res, computed from source with opts.
func NewSummary(source string, res *stepcount.Result, opts stepcount.Options) Summary {
	s := Summary{
		RunID:     uuid.NewString(),
		CreatedAt: Clock.Now().UTC(),
		Version:   version.Version,
		Source:    source,
		Options: Options{
			LowCutHz:        opts.LowCut,
			HighCutHz:       opts.HighCut,
			FilterOrder:     opts.Order,
			ThresholdFactor: opts.ThresholdFactor,
			MinStepInterval: opts.MinStepInterval,
		},
	}
	if res == nil {
		return s
	}
	s.SampleRate = res.SampleRate
	s.Samples = len(res.Filtered)
	s.Duration = res.Duration()
	s.Steps = res.Steps
	s.Threshold = res.Threshold
	s.MinDistance = res.MinDistance
	s.Degenerate = res.Degenerate
	return s
}

// SaveSummary writes s as indented JSON.
func (w *Writer) SaveSummary(s Summary, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	data = append(data, '\n')

	if err := w.ensureDir(path); err != nil {
		return err
	}
	if err := w.fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
