// Package config provides configuration loading and management for vesselmetrics.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"vesselmetrics/internal/models"
	"vesselmetrics/pkg/engine"
	"vesselmetrics/pkg/geometry"
	"vesselmetrics/pkg/visualization"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Straightening parameters
	Straighten struct {
		// Enabled relocates interior control points onto the chord before measuring
		Enabled bool `yaml:"enabled"`

		// Resolution is the number of chord subdivisions used for projection
		Resolution int `yaml:"resolution"`
	} `yaml:"straighten"`

	// Metrics parameters
	Metrics struct {
		// Unit is the physical length unit shown in tables
		Unit string `yaml:"unit"`

		// UseHostArcLength prefers the curve provider's own length queries
		UseHostArcLength bool `yaml:"useHostArcLength"`
	} `yaml:"metrics"`

	// Plot parameters
	Plot struct {
		// Width and Height are the plot size in inches
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`

		// Axis is the x axis of the diameter plot: arclength, x, y or z
		Axis string `yaml:"axis"`

		// Format is html or an image format; empty follows the file extension
		Format string `yaml:"format"`

		Title  string `yaml:"title"`
		XTitle string `yaml:"xTitle"`
		YTitle string `yaml:"yTitle"`
	} `yaml:"plot"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Straighten.Enabled = true
	cfg.Straighten.Resolution = geometry.DefaultResolution

	cfg.Metrics.Unit = "mm"
	cfg.Metrics.UseHostArcLength = false

	cfg.Plot.Width = 8
	cfg.Plot.Height = 4
	cfg.Plot.Axis = models.ArcLength.String()
	cfg.Plot.Title = "Diameter"
	cfg.Plot.XTitle = "Distance (mm)"
	cfg.Plot.YTitle = "Diameter (mm)"

	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Straighten.Resolution < 1 {
		return fmt.Errorf("straighten.resolution must be at least 1, got %d", c.Straighten.Resolution)
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("plot size must be positive, got %gx%g", c.Plot.Width, c.Plot.Height)
	}
	if _, err := ParseAxis(c.Plot.Axis); err != nil {
		return err
	}
	if !visualization.IsPlotFormat(c.Plot.Format) {
		return fmt.Errorf("plot.format must be one of %s, got %q",
			strings.Join(visualization.PlotFormats, ", "), c.Plot.Format)
	}
	return nil
}

// ParseAxis converts an axis name to models.Axis.
func ParseAxis(name string) (models.Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "arclength", "distance":
		return models.ArcLength, nil
	case "x", "r":
		return models.AxisX, nil
	case "y", "a":
		return models.AxisY, nil
	case "z", "s":
		return models.AxisZ, nil
	default:
		return 0, fmt.Errorf("unknown plot axis %q", name)
	}
}

// EngineParams converts the configuration to engine parameters.
func (c *Config) EngineParams() (*engine.Params, error) {
	axis, err := ParseAxis(c.Plot.Axis)
	if err != nil {
		return nil, err
	}
	return &engine.Params{
		Straighten:       c.Straighten.Enabled,
		Resolution:       c.Straighten.Resolution,
		Unit:             c.Metrics.Unit,
		UseHostArcLength: c.Metrics.UseHostArcLength,
		Axis:             axis,
		XTitle:           c.Plot.XTitle,
		YTitle:           c.Plot.YTitle,
	}, nil
}

// PlotParams converts the configuration to plot sink parameters.
func (c *Config) PlotParams() visualization.PlotParams {
	return visualization.PlotParams{
		Title:  c.Plot.Title,
		Width:  c.Plot.Width,
		Height: c.Plot.Height,
		Format: c.Plot.Format,
	}
}
