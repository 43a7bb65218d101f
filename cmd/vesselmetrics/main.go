package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"vesselmetrics/pkg/config"
	"vesselmetrics/pkg/engine"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vesselmetrics",
	Short: "One-dimensional vessel length and diameter measurements",
	Long: `vesselmetrics measures vessel curves and centerlines.
It straightens a control point curve onto the chord between its endpoints,
reports cumulative and partial lengths for every pair of control points, and
plots centerline diameter against distance.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "vesselmetrics.yaml", "Path to YAML configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress")
}

// loadConfig reads the configuration file and applies global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// newEngine builds an engine from cfg, logging progress when verbose.
func newEngine(cfg *config.Config) (*engine.Engine, error) {
	params, err := cfg.EngineParams()
	if err != nil {
		return nil, err
	}
	e := engine.NewEngine(params)
	if cfg.Output.Verbose {
		e.SetLogger(log.Printf)
	}
	return e, nil
}

func main() {
	log.SetFlags(0)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
