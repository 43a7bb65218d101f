package models

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// ControlPointSequence is an ordered list of world-coordinate positions
// defining a curve. Index order is traversal order.
type ControlPointSequence []r3.Vec

// Clone returns an independent copy of the sequence. Recomputations work
// on a clone so that edits made by the curve provider while a computation
// runs are never observed half-way.
func (s ControlPointSequence) Clone() ControlPointSequence {
	if s == nil {
		return nil
	}
	out := make(ControlPointSequence, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sequences hold the same positions in the same
// order.
func (s ControlPointSequence) Equal(other ControlPointSequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// ReferenceChord is the straight segment between the first and last
// control points together with its resampled points.
type ReferenceChord struct {
	// Start and End are the chord endpoints
	Start, End r3.Vec

	// Samples holds Resolution+1 evenly spaced points from Start to End
	Samples []r3.Vec
}

// ProjectedDistance pairs the sort key of an interior control point with
// the chord sample it resolved to.
type ProjectedDistance struct {
	// Key is the squared distance from the resolved sample to the chord start
	Key float64

	// Point is the resolved sample position
	Point r3.Vec

	// Index is the position of the control point in the input sequence
	Index int
}

// MetricRow describes one consecutive pair (i-1, i) of control points.
type MetricRow struct {
	// Index is the index i of the second point of the pair
	Index int

	// Cumulative is the arclength from the first point to point i
	Cumulative float64

	// CumulativePct is Cumulative as a percentage of the total arclength
	CumulativePct float64

	// Partial is the arclength between points i-1 and i
	Partial float64

	// PartialPct is Partial as a percentage of the total arclength
	PartialPct float64
}

// RadiusAttribute is the name of the per-point radius array centerline
// filters write.
const RadiusAttribute = "Radius"

// RadiusSample is a centerline point with its inscribed sphere radius.
type RadiusSample struct {
	Position r3.Vec
	Radius   float64
}

// DistanceDiameterSeries is an index-aligned pair of x values (usually
// cumulative arclength) and diameters.
type DistanceDiameterSeries struct {
	Distance []float64
	Diameter []float64
}

// Len returns the number of samples in the series.
func (s DistanceDiameterSeries) Len() int {
	return len(s.Distance)
}

// Axis selects what the x values of a diameter series represent.
type Axis int

const (
	ArcLength Axis = iota
	AxisX
	AxisY
	AxisZ
)

// String returns the command line name of the axis.
func (a Axis) String() string {
	switch a {
	case ArcLength:
		return "arclength"
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}
