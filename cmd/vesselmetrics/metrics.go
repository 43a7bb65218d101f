package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vesselmetrics/pkg/markup"
	"vesselmetrics/pkg/visualization"
)

var (
	noStraighten bool
	csvOutput    string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics <curve.json>",
	Short: "Print cumulative and partial lengths of a curve",
	Long: `Read a markups curve, straighten it onto the chord between its first and
last control points, and print one row per consecutive pair of points.`,
	Args: cobra.ExactArgs(1),
	RunE: runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)

	metricsCmd.Flags().BoolVar(&noStraighten, "no-straighten", false, "Measure the curve as given")
	metricsCmd.Flags().StringVar(&csvOutput, "csv", "", "Also write the table as CSV to this file")
}

func runMetrics(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noStraighten {
		cfg.Straighten.Enabled = false
	}
	e, err := newEngine(cfg)
	if err != nil {
		return err
	}

	curve, err := markup.ReadCurveFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	res, err := e.Recompute(curve, visualization.NewTextTable(out))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal length: %.3f %s\n", res.TotalLength, cfg.Metrics.Unit)

	if csvOutput != "" {
		f, err := os.Create(csvOutput)
		if err != nil {
			return fmt.Errorf("failed to create csv file: %w", err)
		}
		defer f.Close()
		if err := visualization.NewCSVTable(f).WriteRows(res.Rows, cfg.Metrics.Unit); err != nil {
			return err
		}
		fmt.Fprintf(out, "Table saved to: %s\n", csvOutput)
	}
	return nil
}
