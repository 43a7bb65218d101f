// Package series builds the distance/diameter series plotted along a
// vessel centerline.
package series

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"vesselmetrics/internal/models"
	"vesselmetrics/pkg/geometry"
)

// CumulativeSeries returns the running arclength of points: zero at the
// first point, then the previous value plus the distance to the next point.
func CumulativeSeries(points []r3.Vec) ([]float64, error) {
	if len(points) == 0 {
		return nil, &models.MissingInputError{Reason: "point sequence is empty"}
	}
	steps := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		steps[i] = geometry.Distance(points[i-1], points[i])
	}
	return floats.CumSum(make([]float64, len(steps)), steps), nil
}

// AxisSeries returns one coordinate of every point, for plotting diameter
// against a patient axis rather than arclength.
func AxisSeries(points []r3.Vec, axis models.Axis) ([]float64, error) {
	if len(points) == 0 {
		return nil, &models.MissingInputError{Reason: "point sequence is empty"}
	}
	out := make([]float64, len(points))
	for i, p := range points {
		switch axis {
		case models.AxisX:
			out[i] = p.X
		case models.AxisY:
			out[i] = p.Y
		case models.AxisZ:
			out[i] = p.Z
		default:
			return nil, fmt.Errorf("axis %v is not a coordinate axis", axis)
		}
	}
	return out, nil
}

// Diameters returns 2*radius for every radius, index aligned.
func Diameters(radii []float64) []float64 {
	out := make([]float64, len(radii))
	copy(out, radii)
	floats.Scale(2, out)
	return out
}

// DiameterSeries pairs positions with radii and returns the x series
// selected by axis together with diameter = 2*radius. Both slices have the
// same length and follow traversal order.
func DiameterSeries(points []r3.Vec, radii []float64, axis models.Axis) (models.DistanceDiameterSeries, error) {
	if radii == nil {
		return models.DistanceDiameterSeries{}, &models.MissingInputError{Reason: "radius attribute is absent"}
	}
	if len(points) != len(radii) {
		return models.DistanceDiameterSeries{}, fmt.Errorf("got %d points but %d radius values", len(points), len(radii))
	}

	var (
		xs  []float64
		err error
	)
	if axis == models.ArcLength {
		xs, err = CumulativeSeries(points)
	} else {
		xs, err = AxisSeries(points, axis)
	}
	if err != nil {
		return models.DistanceDiameterSeries{}, err
	}
	return models.DistanceDiameterSeries{Distance: xs, Diameter: Diameters(radii)}, nil
}

// FromSamples splits radius samples into positions and radii.
func FromSamples(samples []models.RadiusSample) ([]r3.Vec, []float64) {
	points := make([]r3.Vec, len(samples))
	radii := make([]float64, len(samples))
	for i, s := range samples {
		points[i] = s.Position
		radii[i] = s.Radius
	}
	return points, radii
}

// Summary describes the diameter profile of a series.
type Summary struct {
	MinDiameter  float64
	MaxDiameter  float64
	MeanDiameter float64
	StdDev       float64

	// MinIndex and MinDistance locate the narrowest sample
	MinIndex    int
	MinDistance float64

	// ReferenceDiameter is the mean of the first and last diameters
	ReferenceDiameter float64

	// Stenosis is the percent diameter reduction of the narrowest sample
	// relative to ReferenceDiameter
	Stenosis float64
}

// Summarize computes the diameter statistics of s.
func Summarize(s models.DistanceDiameterSeries) (Summary, error) {
	n := len(s.Diameter)
	if n == 0 {
		return Summary{}, &models.MissingInputError{Reason: "diameter series is empty"}
	}
	if len(s.Distance) != n {
		return Summary{}, fmt.Errorf("series is not index aligned: %d distances, %d diameters", len(s.Distance), n)
	}

	minIdx := floats.MinIdx(s.Diameter)
	mean, std := stat.MeanStdDev(s.Diameter, nil)
	if n == 1 {
		std = 0
	}
	sum := Summary{
		MinDiameter:       s.Diameter[minIdx],
		MaxDiameter:       floats.Max(s.Diameter),
		MeanDiameter:      mean,
		StdDev:            std,
		MinIndex:          minIdx,
		MinDistance:       s.Distance[minIdx],
		ReferenceDiameter: (s.Diameter[0] + s.Diameter[n-1]) / 2,
	}
	if sum.ReferenceDiameter <= 0 {
		return Summary{}, &models.DivisionByZeroError{Reason: "reference diameter is not positive"}
	}
	sum.Stenosis = 100 * (1 - sum.MinDiameter/sum.ReferenceDiameter)
	return sum, nil
}
