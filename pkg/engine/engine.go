// Package engine runs the curve measurement pipeline each time the curve
// changes: snapshot the control points, straighten, derive the metric
// table and hand it to a sink. It also builds the diameter series of a
// centerline.
//
// Every call is synchronous and works on its own snapshot. Change
// notification wiring belongs to the caller; Watch is a small helper for
// callers that deliver notifications over a channel.
package engine

import (
	"context"
	"fmt"

	"vesselmetrics/internal/models"
	"vesselmetrics/pkg/geometry"
	"vesselmetrics/pkg/metrics"
	"vesselmetrics/pkg/series"
	"vesselmetrics/pkg/straighten"
)

// Params holds the pipeline configuration.
type Params struct {
	// Straighten enables relocating interior points onto the chord before
	// measuring.
	Straighten bool

	// Resolution is the number of chord subdivisions used by straightening.
	Resolution int

	// Unit is the physical length unit passed to table sinks.
	Unit string

	// UseHostArcLength prefers the provider's own arclength when it
	// implements ArcLengthProvider. It is ignored when straightening moved
	// any point, since the provider still holds the old positions.
	UseHostArcLength bool

	// Axis selects the x values of the diameter series.
	Axis models.Axis

	// XTitle and YTitle label the diameter plot.
	XTitle string
	YTitle string
}

// DefaultParams returns the parameters used by the command line tool when
// no configuration file is present.
func DefaultParams() *Params {
	return &Params{
		Straighten: true,
		Resolution: geometry.DefaultResolution,
		Unit:       "mm",
		Axis:       models.ArcLength,
		XTitle:     "Distance (mm)",
		YTitle:     "Diameter (mm)",
	}
}

// Result is the outcome of one recomputation.
type Result struct {
	// Points is the sequence the rows were measured on
	Points models.ControlPointSequence

	// Rows has one entry per consecutive pair of Points
	Rows []models.MetricRow

	// TotalLength is the arclength used as the percentage denominator
	TotalLength float64

	// HostLength reports whether lengths came from the provider
	HostLength bool

	// WroteBack reports whether Points were written to the provider
	WroteBack bool
}

// DiameterResult is the outcome of one diameter series computation.
type DiameterResult struct {
	Series  models.DistanceDiameterSeries
	Summary series.Summary
}

// Engine runs the measurement pipeline.
type Engine struct {
	params       *Params
	straightener *straighten.Straightener
	logf         func(format string, args ...any)
}

// NewEngine creates an engine. A nil params uses DefaultParams.
func NewEngine(params *Params) *Engine {
	if params == nil {
		params = DefaultParams()
	}
	return &Engine{
		params:       params,
		straightener: straighten.NewStraightener(straighten.Params{Resolution: params.Resolution}),
		logf:         func(string, ...any) {},
	}
}

// SetLogger installs a progress logger such as log.Printf.
func (e *Engine) SetLogger(logf func(format string, args ...any)) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	e.logf = logf
}

// Recompute measures the current curve of provider and writes the rows to
// sink when sink is not nil. When straightening moved any point and the
// provider is a CurveWriter, the relocated points are written back last,
// once the table has been delivered. If measuring or the sink fails the
// provider is left untouched and the caller decides whether previously
// displayed results stay.
func (e *Engine) Recompute(provider CurveProvider, sink TableSink) (*Result, error) {
	if provider == nil {
		return nil, &models.MissingInputError{Reason: "no curve provider"}
	}
	current, err := provider.ControlPoints()
	if err != nil {
		return nil, fmt.Errorf("failed to read control points: %w", err)
	}
	points := current.Clone()
	if err := models.CheckSequence(points); err != nil {
		return nil, err
	}
	e.logf("Measuring curve with %d control points", len(points))

	if e.params.Straighten {
		if err := e.straightener.Straighten(points); err != nil {
			return nil, fmt.Errorf("failed to straighten curve: %w", err)
		}
		e.logf("Straightened %d interior points", max(len(points)-2, 0))
	}
	moved := !points.Equal(current)

	// The provider measures its own points, so its lengths only apply
	// while those are the points being measured.
	length := metrics.PolylineLength(points)
	host := false
	if hp, ok := provider.(ArcLengthProvider); ok && e.params.UseHostArcLength && !moved {
		length = func(i, j int) (float64, error) {
			if i == 0 && j == len(points)-1 {
				return hp.CurveLength(), nil
			}
			return hp.CurveLengthBetween(i, j), nil
		}
		host = true
	}

	rows, err := metrics.ComputeMetricsWith(points, length)
	if err != nil {
		return nil, fmt.Errorf("failed to compute metrics: %w", err)
	}
	res := &Result{
		Points:      points,
		Rows:        rows,
		TotalLength: metrics.TotalLength(rows),
		HostLength:  host,
	}
	e.logf("Total length %.3f %s", res.TotalLength, e.params.Unit)

	if sink != nil {
		if err := sink.WriteRows(rows, e.params.Unit); err != nil {
			return nil, fmt.Errorf("failed to write metrics table: %w", err)
		}
	}

	if w, ok := provider.(CurveWriter); ok && moved {
		if err := w.SetControlPoints(points.Clone()); err != nil {
			return nil, fmt.Errorf("failed to write straightened points: %w", err)
		}
		res.WroteBack = true
		e.logf("Wrote %d straightened points back to the curve", len(points))
	}
	return res, nil
}

// Diameter builds the diameter series of model and hands it to sink when
// sink is not nil.
func (e *Engine) Diameter(model CenterlineModel, sink PlotSink) (*DiameterResult, error) {
	if model == nil {
		return nil, &models.MissingInputError{Reason: "no centerline model"}
	}
	positions := model.Positions()
	if len(positions) == 0 {
		return nil, &models.MissingInputError{Reason: "centerline has no points"}
	}
	radii, ok := model.PointAttribute(models.RadiusAttribute)
	if !ok {
		return nil, &models.MissingInputError{Reason: fmt.Sprintf("centerline has no %q attribute", models.RadiusAttribute)}
	}

	s, err := series.DiameterSeries(positions, radii, e.params.Axis)
	if err != nil {
		return nil, fmt.Errorf("failed to build diameter series: %w", err)
	}
	sum, err := series.Summarize(s)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize diameter series: %w", err)
	}
	e.logf("Diameter series with %d samples, minimum %.3f at %.3f", s.Len(), sum.MinDiameter, sum.MinDistance)

	if sink != nil {
		if err := sink.PlotSeries(s, e.params.XTitle, e.params.YTitle); err != nil {
			return nil, fmt.Errorf("failed to plot diameter series: %w", err)
		}
	}
	return &DiameterResult{Series: s, Summary: sum}, nil
}

// Watch calls Recompute once per value received on changes until ctx is
// done or changes is closed. Notifications are handled one at a time.
// Successful results go to onResult and failures to onError; either may be
// nil. The notification caused by writing straightened points back is
// consumed here, so one edit leads to one recomputation.
func (e *Engine) Watch(ctx context.Context, provider CurveProvider, sink TableSink, changes <-chan struct{}, onResult func(*Result), onError func(error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			for {
				res, err := e.Recompute(provider, sink)
				if err != nil {
					if onError != nil {
						onError(err)
					}
					break
				}
				if onResult != nil {
					onResult(res)
				}
				if !res.WroteBack || !skipEcho(provider, changes, res.Points) {
					break
				}
			}
		}
	}
}

// skipEcho drops a pending notification following a write-back of points
// and reports whether the curve changed again in the meantime, in which
// case the dropped notification was not only ours.
func skipEcho(provider CurveProvider, changes <-chan struct{}, points models.ControlPointSequence) bool {
	select {
	case <-changes:
	default:
		return false
	}
	current, err := provider.ControlPoints()
	if err != nil {
		return true
	}
	return !current.Equal(points)
}
