package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/sprint.report/internal/units"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
const DefaultConfigPath = "config/analysis.defaults.json"

// AnalysisConfig holds the runtime settings of the analysis pipeline. Fields
// are pointers so a partial file only overrides what it names; the Get*
// methods supply defaults for the rest.
type AnalysisConfig struct {
	// Frames below this overall confidence are rejected before analysis.
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty"`
	// Ask the detector for its slower, more accurate model.
	UseAccurateModel *bool `json:"use_accurate_model,omitempty"`
	// Scale from detector distance units to metres, used only when reporting
	// hip velocity in physical units. 0 disables conversion.
	MetresPerUnit *float64 `json:"metres_per_unit,omitempty"`
	// Default units for reported hip velocity (mps, mph, kmph, kph).
	DisplayUnits *string `json:"display_units,omitempty"`
	// Maximum metrics rows returned by list endpoints.
	MaxRecentMetrics *int `json:"max_recent_metrics,omitempty"`
	// Dev-mode capture interval as a duration string like "100ms".
	CaptureInterval *string `json:"capture_interval,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyAnalysisConfig returns a config with every field unset.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// DefaultAnalysisConfig returns a config with every field set to its default.
func DefaultAnalysisConfig() *AnalysisConfig {
	c := EmptyAnalysisConfig()
	return &AnalysisConfig{
		ConfidenceThreshold: ptrFloat64(c.GetConfidenceThreshold()),
		UseAccurateModel:    ptrBool(c.GetUseAccurateModel()),
		MetresPerUnit:       ptrFloat64(c.GetMetresPerUnit()),
		DisplayUnits:        ptrString(c.GetDisplayUnits()),
		MaxRecentMetrics:    ptrInt(c.GetMaxRecentMetrics()),
		CaptureInterval:     ptrString(c.GetCaptureInterval().String()),
	}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// one of its parents. Panics if the file cannot be loaded; intended for tests.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *AnalysisConfig) Validate() error {
	if c.ConfidenceThreshold != nil {
		if *c.ConfidenceThreshold < 0 || *c.ConfidenceThreshold > 1 {
			return fmt.Errorf("confidence_threshold must be between 0 and 1, got %f", *c.ConfidenceThreshold)
		}
	}

	if c.MetresPerUnit != nil && *c.MetresPerUnit < 0 {
		return fmt.Errorf("metres_per_unit must be non-negative, got %f", *c.MetresPerUnit)
	}

	if c.DisplayUnits != nil && !units.IsValid(*c.DisplayUnits) {
		return fmt.Errorf("display_units must be one of %s, got %q", units.GetValidUnitsString(), *c.DisplayUnits)
	}

	if c.MaxRecentMetrics != nil && *c.MaxRecentMetrics <= 0 {
		return fmt.Errorf("max_recent_metrics must be positive, got %d", *c.MaxRecentMetrics)
	}

	if c.CaptureInterval != nil && *c.CaptureInterval != "" {
		d, err := time.ParseDuration(*c.CaptureInterval)
		if err != nil {
			return fmt.Errorf("invalid capture_interval '%s': %w", *c.CaptureInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("capture_interval must be positive, got %s", d)
		}
	}

	return nil
}

// GetConfidenceThreshold returns the confidence_threshold value or the default.
func (c *AnalysisConfig) GetConfidenceThreshold() float64 {
	if c.ConfidenceThreshold == nil {
		return 0.5
	}
	return *c.ConfidenceThreshold
}

// GetUseAccurateModel returns the use_accurate_model value or the default.
func (c *AnalysisConfig) GetUseAccurateModel() bool {
	if c.UseAccurateModel == nil {
		return false
	}
	return *c.UseAccurateModel
}

// GetMetresPerUnit returns the metres_per_unit value or the default (no
// conversion).
func (c *AnalysisConfig) GetMetresPerUnit() float64 {
	if c.MetresPerUnit == nil {
		return 0
	}
	return *c.MetresPerUnit
}

// GetDisplayUnits returns the display_units value or the default.
func (c *AnalysisConfig) GetDisplayUnits() string {
	if c.DisplayUnits == nil || *c.DisplayUnits == "" {
		return units.MPS
	}
	return *c.DisplayUnits
}

// GetMaxRecentMetrics returns the max_recent_metrics value or the default.
func (c *AnalysisConfig) GetMaxRecentMetrics() int {
	if c.MaxRecentMetrics == nil {
		return 500
	}
	return *c.MaxRecentMetrics
}

// GetCaptureInterval parses and returns CaptureInterval as a time.Duration.
func (c *AnalysisConfig) GetCaptureInterval() time.Duration {
	if c.CaptureInterval == nil || *c.CaptureInterval == "" {
		return 100 * time.Millisecond
	}
	d, err := time.ParseDuration(*c.CaptureInterval)
	if err != nil || d <= 0 {
		return 100 * time.Millisecond
	}
	return d
}
