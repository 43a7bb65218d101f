// Package markup holds in-memory curve and centerline objects and reads
// them from files.
package markup

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"vesselmetrics/internal/models"
	"vesselmetrics/pkg/series"
)

// Curve is an editable list of control points. Every edit sends a
// notification on each subscribed channel; a notification is dropped if
// the subscriber has not drained the previous one, since a recomputation
// always reads the latest state.
type Curve struct {
	mu     sync.Mutex
	name   string
	points models.ControlPointSequence
	subs   []chan struct{}
}

// NewCurve creates a curve with the given control points.
func NewCurve(name string, points models.ControlPointSequence) *Curve {
	return &Curve{name: name, points: points.Clone()}
}

// Name returns the curve name.
func (c *Curve) Name() string {
	return c.name
}

// ControlPoints returns a copy of the current control points.
func (c *Curve) ControlPoints() (models.ControlPointSequence, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.points == nil {
		return nil, &models.MissingInputError{Reason: fmt.Sprintf("curve %q has no control points", c.name)}
	}
	return c.points.Clone(), nil
}

// SetControlPoints replaces all control points. Setting the points the
// curve already holds is not an edit and sends no notification.
func (c *Curve) SetControlPoints(points models.ControlPointSequence) error {
	c.mu.Lock()
	if c.points != nil && c.points.Equal(points) {
		c.mu.Unlock()
		return nil
	}
	c.points = points.Clone()
	c.mu.Unlock()
	c.notify()
	return nil
}

// AddControlPoint appends a point.
func (c *Curve) AddControlPoint(p r3.Vec) {
	c.mu.Lock()
	c.points = append(c.points, p)
	c.mu.Unlock()
	c.notify()
}

// InsertControlPoint inserts p before index i.
func (c *Curve) InsertControlPoint(i int, p r3.Vec) error {
	c.mu.Lock()
	if i < 0 || i > len(c.points) {
		c.mu.Unlock()
		return fmt.Errorf("insert index %d out of range [0, %d]", i, len(c.points))
	}
	c.points = append(c.points, r3.Vec{})
	copy(c.points[i+1:], c.points[i:])
	c.points[i] = p
	c.mu.Unlock()
	c.notify()
	return nil
}

// RemoveControlPoint deletes the point at index i.
func (c *Curve) RemoveControlPoint(i int) error {
	c.mu.Lock()
	if i < 0 || i >= len(c.points) {
		c.mu.Unlock()
		return fmt.Errorf("remove index %d out of range [0, %d)", i, len(c.points))
	}
	c.points = append(c.points[:i], c.points[i+1:]...)
	c.mu.Unlock()
	c.notify()
	return nil
}

// MoveControlPoint sets the position of the point at index i.
func (c *Curve) MoveControlPoint(i int, p r3.Vec) error {
	c.mu.Lock()
	if i < 0 || i >= len(c.points) {
		c.mu.Unlock()
		return fmt.Errorf("move index %d out of range [0, %d)", i, len(c.points))
	}
	c.points[i] = p
	c.mu.Unlock()
	c.notify()
	return nil
}

// Subscribe returns a channel receiving one value per batch of edits.
func (c *Curve) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

// Close closes every subscription channel.
func (c *Curve) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
}

func (c *Curve) notify() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Centerline is a polyline with named per-point attributes.
type Centerline struct {
	positions  []r3.Vec
	attributes map[string][]float64
}

// NewCenterline creates a centerline from positions.
func NewCenterline(positions []r3.Vec) *Centerline {
	return &Centerline{positions: positions, attributes: make(map[string][]float64)}
}

// NewCenterlineFromSamples creates a centerline with a Radius attribute.
func NewCenterlineFromSamples(samples []models.RadiusSample) *Centerline {
	positions, radii := series.FromSamples(samples)
	cl := NewCenterline(positions)
	cl.attributes[models.RadiusAttribute] = radii
	return cl
}

// SetAttribute stores a per-point attribute. The value count must match
// the number of positions.
func (c *Centerline) SetAttribute(name string, values []float64) error {
	if len(values) != len(c.positions) {
		return fmt.Errorf("attribute %q has %d values for %d points", name, len(values), len(c.positions))
	}
	c.attributes[name] = values
	return nil
}

// Positions returns the centerline points.
func (c *Centerline) Positions() []r3.Vec {
	return c.positions
}

// PointAttribute returns the named attribute.
func (c *Centerline) PointAttribute(name string) ([]float64, bool) {
	v, ok := c.attributes[name]
	return v, ok
}
