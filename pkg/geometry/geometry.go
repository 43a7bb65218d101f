// Package geometry provides the polyline helpers shared by the
// straightening, metrics and series packages.
package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"vesselmetrics/internal/models"
)

// DefaultResolution is the number of chord subdivisions used when the
// caller does not configure one.
const DefaultResolution = 1000

// Distance returns the Euclidean distance between two points.
func Distance(p, q r3.Vec) float64 {
	return r3.Norm(r3.Sub(p, q))
}

// SquaredDistance returns the squared Euclidean distance between two points.
func SquaredDistance(p, q r3.Vec) float64 {
	return r3.Norm2(r3.Sub(p, q))
}

// ArcLength returns the sum of consecutive pairwise distances along points.
func ArcLength(points []r3.Vec) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// ArcLengthBetween returns the polyline length from index i to index j,
// both inclusive. The order of i and j does not matter.
func ArcLengthBetween(points []r3.Vec, i, j int) (float64, error) {
	if i > j {
		i, j = j, i
	}
	if i < 0 || j >= len(points) {
		return 0, fmt.Errorf("index range [%d, %d] outside sequence of %d points", i, j, len(points))
	}
	return ArcLength(points[i : j+1]), nil
}

// ResampleChord builds the straight reference segment from start to end and
// samples it at resolution+1 evenly spaced points, both endpoints included.
// Coincident endpoints have no direction and are rejected.
func ResampleChord(start, end r3.Vec, resolution int) (models.ReferenceChord, error) {
	if resolution < 1 {
		return models.ReferenceChord{}, fmt.Errorf("chord resolution must be at least 1, got %d", resolution)
	}
	if start == end {
		return models.ReferenceChord{}, &models.DegenerateInputError{Reason: "chord endpoints coincide"}
	}

	dir := r3.Sub(end, start)
	samples := make([]r3.Vec, resolution+1)
	for i := 0; i <= resolution; i++ {
		t := float64(i) / float64(resolution)
		samples[i] = r3.Add(start, r3.Scale(t, dir))
	}
	// Pin the last sample so rounding never moves the far endpoint.
	samples[resolution] = end

	return models.ReferenceChord{Start: start, End: end, Samples: samples}, nil
}
