package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vesselmetrics/pkg/config"
	"vesselmetrics/pkg/engine"
	"vesselmetrics/pkg/markup"
	"vesselmetrics/pkg/visualization"
)

var (
	plotOutput string
	plotAxis   string
	plotFormat string
	segmentTag string
)

var diameterCmd = &cobra.Command{
	Use:   "diameter <centerline.csv>",
	Short: "Summarize and plot centerline diameter",
	Long: `Read a centerline table with x, y, z and Radius columns, build the
distance/diameter series and report the narrowest point.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiameter,
}

func init() {
	rootCmd.AddCommand(diameterCmd)

	diameterCmd.Flags().StringVar(&plotOutput, "plot", "", "Write the plot to this file (.png, .svg, .pdf or .html)")
	diameterCmd.Flags().StringVar(&plotFormat, "format", "", "Plot format: html, png, svg, pdf, ... (default from config or extension)")
	diameterCmd.Flags().StringVar(&plotAxis, "axis", "", "X axis: arclength, x, y or z (default from config)")
	diameterCmd.Flags().StringVar(&segmentTag, "tag", "", "Only use rows whose Tag column equals this value")
}

func runDiameter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if plotAxis != "" {
		if _, err := config.ParseAxis(plotAxis); err != nil {
			return err
		}
		cfg.Plot.Axis = plotAxis
	}
	if plotFormat != "" {
		cfg.Plot.Format = plotFormat
	}
	e, err := newEngine(cfg)
	if err != nil {
		return err
	}

	cl, err := markup.ReadCenterlineFile(args[0], markup.CSVOptions{Tag: segmentTag})
	if err != nil {
		return err
	}

	var sink engine.PlotSink
	if plotOutput != "" {
		ps, err := visualization.NewPlotSink(plotOutput, cfg.PlotParams())
		if err != nil {
			return err
		}
		defer ps.Close()
		sink = ps
	}

	res, err := e.Diameter(cl, sink)
	if err != nil {
		return err
	}

	sum := res.Summary
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Diameter Summary")
	fmt.Fprintln(out, "================")
	fmt.Fprintf(out, "Samples:            %d\n", res.Series.Len())
	fmt.Fprintf(out, "Minimum diameter:   %.3f %s (sample %d, x=%.3f)\n", sum.MinDiameter, cfg.Metrics.Unit, sum.MinIndex, sum.MinDistance)
	fmt.Fprintf(out, "Maximum diameter:   %.3f %s\n", sum.MaxDiameter, cfg.Metrics.Unit)
	fmt.Fprintf(out, "Mean diameter:      %.3f ± %.3f %s\n", sum.MeanDiameter, sum.StdDev, cfg.Metrics.Unit)
	fmt.Fprintf(out, "Reference diameter: %.3f %s\n", sum.ReferenceDiameter, cfg.Metrics.Unit)
	fmt.Fprintf(out, "Stenosis:           %.1f%%\n", sum.Stenosis)
	if plotOutput != "" {
		fmt.Fprintf(out, "Plot saved to: %s\n", plotOutput)
	}
	return nil
}
