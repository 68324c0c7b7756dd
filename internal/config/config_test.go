package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultAnalysisConfig(t *testing.T) {
	cfg := DefaultAnalysisConfig()

	if cfg.ConfidenceThreshold == nil || *cfg.ConfidenceThreshold != 0.5 {
		t.Errorf("Expected ConfidenceThreshold 0.5, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.UseAccurateModel == nil || *cfg.UseAccurateModel {
		t.Errorf("Expected UseAccurateModel false, got %v", cfg.UseAccurateModel)
	}
	if cfg.DisplayUnits == nil || *cfg.DisplayUnits != "mps" {
		t.Errorf("Expected DisplayUnits 'mps', got %v", cfg.DisplayUnits)
	}
	if cfg.CaptureInterval == nil || *cfg.CaptureInterval != "100ms" {
		t.Errorf("Expected CaptureInterval '100ms', got %v", cfg.CaptureInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestEmptyConfigGetters(t *testing.T) {
	cfg := EmptyAnalysisConfig()

	if got := cfg.GetConfidenceThreshold(); got != 0.5 {
		t.Errorf("GetConfidenceThreshold() = %f, want 0.5", got)
	}
	if got := cfg.GetMetresPerUnit(); got != 0 {
		t.Errorf("GetMetresPerUnit() = %f, want 0", got)
	}
	if got := cfg.GetMaxRecentMetrics(); got != 500 {
		t.Errorf("GetMaxRecentMetrics() = %d, want 500", got)
	}
	if got := cfg.GetCaptureInterval(); got != 100*time.Millisecond {
		t.Errorf("GetCaptureInterval() = %v, want 100ms", got)
	}
	bad := "soon"
	cfg.CaptureInterval = &bad
	if got := cfg.GetCaptureInterval(); got != 100*time.Millisecond {
		t.Errorf("GetCaptureInterval() on parse error = %v, want 100ms", got)
	}
}

func TestLoadAnalysisConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "analysis.json")

	testJSON := `{
  "confidence_threshold": 0.65,
  "use_accurate_model": true,
  "metres_per_unit": 0.004,
  "display_units": "kph"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadAnalysisConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := cfg.GetConfidenceThreshold(); got != 0.65 {
		t.Errorf("GetConfidenceThreshold() = %f, want 0.65", got)
	}
	if !cfg.GetUseAccurateModel() {
		t.Error("GetUseAccurateModel() = false, want true")
	}
	if got := cfg.GetMetresPerUnit(); got != 0.004 {
		t.Errorf("GetMetresPerUnit() = %f, want 0.004", got)
	}
	if got := cfg.GetDisplayUnits(); got != "kph" {
		t.Errorf("GetDisplayUnits() = %q, want kph", got)
	}
	// unset fields fall back to defaults
	if got := cfg.GetMaxRecentMetrics(); got != 500 {
		t.Errorf("GetMaxRecentMetrics() = %d, want 500", got)
	}
}

func TestLoadAnalysisConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"wrong extension", write("cfg.yaml", "{}"), ".json extension"},
		{"missing file", filepath.Join(tmpDir, "nope.json"), "failed to stat"},
		{"bad json", write("bad.json", "{"), "failed to parse"},
		{"threshold range", write("thr.json", `{"confidence_threshold": 1.5}`), "confidence_threshold"},
		{"negative scale", write("scale.json", `{"metres_per_unit": -1}`), "metres_per_unit"},
		{"bad units", write("units.json", `{"display_units": "knots"}`), "display_units"},
		{"zero limit", write("limit.json", `{"max_recent_metrics": 0}`), "max_recent_metrics"},
		{"bad interval", write("interval.json", `{"capture_interval": "fast"}`), "capture_interval"},
		{"negative interval", write("neg.json", `{"capture_interval": "-1s"}`), "capture_interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAnalysisConfig(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if got := cfg.GetConfidenceThreshold(); got != 0.5 {
		t.Errorf("default confidence_threshold = %f, want 0.5", got)
	}
	if got := cfg.GetDisplayUnits(); got != "mps" {
		t.Errorf("default display_units = %q, want mps", got)
	}
}
