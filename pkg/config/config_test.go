package config

import (
	"os"
	"path/filepath"
	"testing"

	"vesselmetrics/internal/models"
	"vesselmetrics/pkg/geometry"
)

// TestDefaultConfig verifies the defaults are valid
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config is invalid: %v", err)
	}
	if cfg.Straighten.Resolution != geometry.DefaultResolution {
		t.Errorf("Expected resolution %d, got %d", geometry.DefaultResolution, cfg.Straighten.Resolution)
	}
	if !cfg.Straighten.Enabled {
		t.Error("Expected straightening enabled by default")
	}
	if cfg.Metrics.Unit != "mm" {
		t.Errorf("Expected unit mm, got %s", cfg.Metrics.Unit)
	}
}

// TestLoadConfigMissingFile verifies defaults are returned for a missing file
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Straighten.Resolution != geometry.DefaultResolution {
		t.Errorf("Expected default resolution, got %d", cfg.Straighten.Resolution)
	}
}

// TestSaveAndLoadConfig verifies values survive a save and load
func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vesselmetrics.yaml")

	cfg := DefaultConfig()
	cfg.Straighten.Resolution = 250
	cfg.Metrics.Unit = "cm"
	cfg.Plot.Axis = "z"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Straighten.Resolution != 250 || loaded.Metrics.Unit != "cm" || loaded.Plot.Axis != "z" {
		t.Errorf("Loaded config differs: %+v", loaded)
	}

	params, err := loaded.EngineParams()
	if err != nil {
		t.Fatalf("EngineParams failed: %v", err)
	}
	if params.Axis != models.AxisZ || params.Resolution != 250 || params.Unit != "cm" {
		t.Errorf("Unexpected engine params: %+v", params)
	}
}

// TestLoadConfigPartial verifies unspecified values keep their defaults
func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("metrics:\n  unit: cm\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Metrics.Unit != "cm" {
		t.Errorf("Expected unit cm, got %s", cfg.Metrics.Unit)
	}
	if cfg.Straighten.Resolution != geometry.DefaultResolution {
		t.Errorf("Expected default resolution, got %d", cfg.Straighten.Resolution)
	}
}

// TestLoadConfigInvalid verifies bad values are rejected
func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	testCases := map[string]string{
		"resolution.yaml": "straighten:\n  resolution: 0\n",
		"axis.yaml":       "plot:\n  axis: w\n",
		"size.yaml":       "plot:\n  width: -1\n",
		"format.yaml":     "plot:\n  format: bmp\n",
		"syntax.yaml":     "straighten: [\n",
	}

	for name, content := range testCases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		}
	}
}

// TestPlotFormat verifies the plot format reaches the plot parameters
func TestPlotFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("plot:\n  format: html\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got := cfg.PlotParams().Format; got != "html" {
		t.Errorf("Expected html plot format, got %q", got)
	}
	if DefaultConfig().Plot.Format != "" {
		t.Errorf("Expected empty default plot format, got %q", DefaultConfig().Plot.Format)
	}
}

// TestParseAxis verifies axis names
func TestParseAxis(t *testing.T) {
	testCases := map[string]models.Axis{
		"":          models.ArcLength,
		"arclength": models.ArcLength,
		"X":         models.AxisX,
		"a":         models.AxisY,
		" z ":       models.AxisZ,
	}
	for name, want := range testCases {
		got, err := ParseAxis(name)
		if err != nil {
			t.Errorf("ParseAxis(%q) failed: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAxis(%q): expected %v, got %v", name, want, got)
		}
	}
}
