package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vesselmetrics/pkg/markup"
	"vesselmetrics/pkg/straighten"
)

var straightenOutput string

var straightenCmd = &cobra.Command{
	Use:   "straighten <curve.json>",
	Short: "Relocate interior control points onto the endpoint chord",
	Args:  cobra.ExactArgs(1),
	RunE:  runStraighten,
}

func init() {
	rootCmd.AddCommand(straightenCmd)

	straightenCmd.Flags().StringVarP(&straightenOutput, "output", "o", "", "Write the straightened curve as markups JSON")
}

func runStraighten(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	curve, err := markup.ReadCurveFile(args[0])
	if err != nil {
		return err
	}
	points, err := curve.ControlPoints()
	if err != nil {
		return err
	}

	s := straighten.NewStraightener(straighten.Params{Resolution: cfg.Straighten.Resolution})
	if err := s.Straighten(points); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, p := range points {
		fmt.Fprintf(out, "%3d  %10.4f %10.4f %10.4f\n", i, p.X, p.Y, p.Z)
	}

	if straightenOutput != "" {
		f, err := os.Create(straightenOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		if err := markup.WriteCurveJSON(f, curve.Name(), points); err != nil {
			return err
		}
		fmt.Fprintf(out, "Straightened curve saved to: %s\n", straightenOutput)
	}
	return nil
}
