// Package straighten relocates the interior control points of a curve onto
// the straight chord joining its endpoints, ordered along that chord.
//
// The procedure is:
//  1. build the chord from the first to the last control point
//  2. resample the chord into Resolution+1 evenly spaced points
//  3. resolve every interior point to its closest chord sample
//  4. sort the resolved samples by their squared distance to the chord start
//  5. write the sorted samples back into the interior positions
//
// The sort key in step 4 is measured from the resolved sample to the chord
// start, not from the original control point. On strongly curved input two
// points can resolve to samples in an order that differs from their order
// along the curve; that ordering is kept as is so measurements stay
// comparable with previously reported values.
package straighten

import (
	"fmt"
	"sort"

	"vesselmetrics/internal/models"
	"vesselmetrics/pkg/geometry"
	"vesselmetrics/pkg/locator"
)

// Params configures the straightening step.
type Params struct {
	// Resolution is the number of chord subdivisions. Higher values make the
	// nearest-sample projection closer to a continuous projection.
	Resolution int
}

// DefaultParams returns the parameters used when none are configured.
func DefaultParams() Params {
	return Params{Resolution: geometry.DefaultResolution}
}

// Straightener runs the straightening procedure with fixed parameters.
type Straightener struct {
	params Params
}

// NewStraightener creates a straightener. A non-positive resolution falls
// back to geometry.DefaultResolution.
func NewStraightener(params Params) *Straightener {
	if params.Resolution < 1 {
		params.Resolution = geometry.DefaultResolution
	}
	return &Straightener{params: params}
}

// Straighten is a convenience wrapper using DefaultParams.
func Straighten(points models.ControlPointSequence) error {
	return NewStraightener(DefaultParams()).Straighten(points)
}

// Straighten relocates the interior points of points in place. The first
// and last points are never touched. A two point sequence is already
// straight and is left unchanged.
func (s *Straightener) Straighten(points models.ControlPointSequence) error {
	if err := models.CheckSequence(points); err != nil {
		return err
	}
	n := len(points)
	if n == 2 {
		return nil
	}

	projected, err := s.Project(points)
	if err != nil {
		return err
	}

	sort.SliceStable(projected, func(i, j int) bool {
		return projected[i].Key < projected[j].Key
	})

	for i, p := range projected {
		points[i+1] = p.Point
	}
	return nil
}

// Project resolves every interior point of points to its closest chord
// sample and returns the projections in input order. points is not
// modified.
func (s *Straightener) Project(points models.ControlPointSequence) ([]models.ProjectedDistance, error) {
	if err := models.CheckSequence(points); err != nil {
		return nil, err
	}
	n := len(points)

	chord, err := geometry.ResampleChord(points[0], points[n-1], s.params.Resolution)
	if err != nil {
		return nil, err
	}
	if len(chord.Samples) == 0 {
		return nil, &models.DegenerateInputError{Reason: "resampled chord is empty"}
	}

	loc, err := locator.New(chord.Samples)
	if err != nil {
		return nil, fmt.Errorf("failed to index chord samples: %w", err)
	}

	projected := make([]models.ProjectedDistance, 0, n-2)
	for i := 1; i < n-1; i++ {
		_, sample, _ := loc.Closest(points[i])
		projected = append(projected, models.ProjectedDistance{
			Key:   geometry.SquaredDistance(sample, chord.Start),
			Point: sample,
			Index: i,
		})
	}
	return projected, nil
}
