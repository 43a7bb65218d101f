// Package metrics derives the one-dimensional length table of a curve:
// cumulative and partial arclength for every consecutive pair of control
// points, absolute and as a percentage of the total length.
package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"vesselmetrics/internal/models"
	"vesselmetrics/pkg/geometry"
)

// LengthFunc returns the arclength of a curve between control point
// indices i and j (i <= j).
type LengthFunc func(i, j int) (float64, error)

// PolylineLength measures lengths directly on the control point polyline.
func PolylineLength(points []r3.Vec) LengthFunc {
	return func(i, j int) (float64, error) {
		return geometry.ArcLengthBetween(points, i, j)
	}
}

// ComputeMetrics returns one row per consecutive pair of points using the
// polyline arclength.
func ComputeMetrics(points models.ControlPointSequence) ([]models.MetricRow, error) {
	return ComputeMetricsWith(points, PolylineLength(points))
}

// ComputeMetricsWith returns one row per consecutive pair of points, with
// all lengths taken from length. This lets a host that owns a smoother
// curve representation supply its own arclength.
func ComputeMetricsWith(points models.ControlPointSequence, length LengthFunc) ([]models.MetricRow, error) {
	if err := models.CheckSequence(points); err != nil {
		return nil, err
	}
	if length == nil {
		return nil, &models.MissingInputError{Reason: "no arclength function"}
	}
	n := len(points)

	total, err := length(0, n-1)
	if err != nil {
		return nil, fmt.Errorf("failed to measure total length: %w", err)
	}
	if total == 0 {
		return nil, &models.DivisionByZeroError{Reason: "total arclength is zero"}
	}

	rows := make([]models.MetricRow, 0, n-1)
	for i := 1; i < n; i++ {
		cumulative, err := length(0, i)
		if err != nil {
			return nil, fmt.Errorf("failed to measure length to point %d: %w", i, err)
		}
		partial, err := length(i-1, i)
		if err != nil {
			return nil, fmt.Errorf("failed to measure length of pair %d-%d: %w", i-1, i, err)
		}
		rows = append(rows, models.MetricRow{
			Index:         i,
			Cumulative:    cumulative,
			CumulativePct: 100 * cumulative / total,
			Partial:       partial,
			PartialPct:    100 * partial / total,
		})
	}
	return rows, nil
}

// TotalLength returns the total length reported by the last row, or zero
// for an empty table.
func TotalLength(rows []models.MetricRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].Cumulative
}
