package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/dsp"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/stepcount"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// TuningConfig holds the step counter's tuning parameters. Fields are
// pointers so a partial file only overrides what it names.
type TuningConfig struct {
	// Band-pass filter
	LowCutHz    *float64 `json:"low_cut_hz,omitempty"`
	HighCutHz   *float64 `json:"high_cut_hz,omitempty"`
	FilterOrder *int     `json:"filter_order,omitempty"`

	// Peak detection
	ThresholdFactor *float64 `json:"threshold_factor,omitempty"`
	MinStepInterval *string  `json:"min_step_interval,omitempty"` // duration string like "350ms"
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a config with every field set to the
// built-in defaults. It matches config/tuning.defaults.json.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		LowCutHz:        ptrFloat64(dsp.DefaultLowCut),
		HighCutHz:       ptrFloat64(dsp.DefaultHighCut),
		FilterOrder:     ptrInt(dsp.DefaultOrder),
		ThresholdFactor: ptrFloat64(stepcount.DefaultThresholdFactor),
		MinStepInterval: ptrString(formatSeconds(stepcount.DefaultMinStepInterval)),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file fall back to the defaults through the Get* methods.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON %s: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", cleanPath, err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching the current
// directory and its parents up to the repository root. It panics if the
// file cannot be loaded and is intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks the fields that are set. The sample rate is not known
// here, so the upper cutoff is checked against Nyquist later by the
// pipeline itself.
func (c *TuningConfig) Validate() error {
	if c.LowCutHz != nil && *c.LowCutHz <= 0 {
		return fmt.Errorf("low_cut_hz must be positive, got %g", *c.LowCutHz)
	}
	if c.HighCutHz != nil && *c.HighCutHz <= 0 {
		return fmt.Errorf("high_cut_hz must be positive, got %g", *c.HighCutHz)
	}
	if low, high := c.GetLowCutHz(), c.GetHighCutHz(); low >= high {
		return fmt.Errorf("low_cut_hz (%g) must be below high_cut_hz (%g)", low, high)
	}

	if c.FilterOrder != nil {
		if *c.FilterOrder < 1 || *c.FilterOrder > dsp.MaxOrder {
			return fmt.Errorf("filter_order must be between 1 and %d, got %d", dsp.MaxOrder, *c.FilterOrder)
		}
	}

	// Zero in stepcount.Options selects the default, so a zero here could
	// never take effect.
	if c.ThresholdFactor != nil && *c.ThresholdFactor <= 0 {
		return fmt.Errorf("threshold_factor must be positive (0 would select the default %g), got %g", stepcount.DefaultThresholdFactor, *c.ThresholdFactor)
	}

	if c.MinStepInterval != nil && *c.MinStepInterval != "" {
		d, err := time.ParseDuration(*c.MinStepInterval)
		if err != nil {
			return fmt.Errorf("invalid min_step_interval '%s': %w", *c.MinStepInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("min_step_interval must be positive (0 would select the default %s), got %s", secondsToDuration(stepcount.DefaultMinStepInterval), d)
		}
	}

	return nil
}

// GetLowCutHz returns the low_cut_hz value or the default.
func (c *TuningConfig) GetLowCutHz() float64 {
	if c.LowCutHz == nil {
		return dsp.DefaultLowCut
	}
	return *c.LowCutHz
}

// GetHighCutHz returns the high_cut_hz value or the default.
func (c *TuningConfig) GetHighCutHz() float64 {
	if c.HighCutHz == nil {
		return dsp.DefaultHighCut
	}
	return *c.HighCutHz
}

// GetFilterOrder returns the filter_order value or the default.
func (c *TuningConfig) GetFilterOrder() int {
	if c.FilterOrder == nil {
		return dsp.DefaultOrder
	}
	return *c.FilterOrder
}

// GetThresholdFactor returns the threshold_factor value or the default.
func (c *TuningConfig) GetThresholdFactor() float64 {
	if c.ThresholdFactor == nil {
		return stepcount.DefaultThresholdFactor
	}
	return *c.ThresholdFactor
}

// GetMinStepInterval parses and returns the MinStepInterval as a time.Duration.
func (c *TuningConfig) GetMinStepInterval() time.Duration {
	def := secondsToDuration(stepcount.DefaultMinStepInterval)
	if c.MinStepInterval == nil || *c.MinStepInterval == "" {
		return def
	}
	d, err := time.ParseDuration(*c.MinStepInterval)
	if err != nil {
		return def // default on parse error
	}
	return d
}

// Options converts the config into pipeline options.
func (c *TuningConfig) Options() stepcount.Options {
	return stepcount.Options{
		LowCut:          c.GetLowCutHz(),
		HighCut:         c.GetHighCutHz(),
		Order:           c.GetFilterOrder(),
		ThresholdFactor: c.GetThresholdFactor(),
		MinStepInterval: c.GetMinStepInterval().Seconds(),
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

func formatSeconds(s float64) string {
	return secondsToDuration(s).String()
}
