package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"vesselmetrics/internal/models"
	"vesselmetrics/pkg/markup"
)

type tableRecorder struct {
	rows  [][]models.MetricRow
	units []string
	err   error
}

func (r *tableRecorder) WriteRows(rows []models.MetricRow, unit string) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, rows)
	r.units = append(r.units, unit)
	return nil
}

type plotRecorder struct {
	series []models.DistanceDiameterSeries
	xTitle string
}

func (r *plotRecorder) PlotSeries(s models.DistanceDiameterSeries, xTitle, yTitle string) error {
	r.series = append(r.series, s)
	r.xTitle = xTitle
	return nil
}

// staticCurve is a read-only provider with its own length measurement.
type staticCurve struct {
	points models.ControlPointSequence
	scale  float64
}

func (c *staticCurve) ControlPoints() (models.ControlPointSequence, error) {
	return c.points, nil
}

func (c *staticCurve) CurveLength() float64 {
	return c.CurveLengthBetween(0, len(c.points)-1)
}

func (c *staticCurve) CurveLengthBetween(i, j int) float64 {
	return c.scale * float64(j-i)
}

func zigZag() models.ControlPointSequence {
	return models.ControlPointSequence{
		{X: 0}, {X: 1, Y: 5}, {X: 2}, {X: 3, Y: 5}, {X: 4},
	}
}

func TestRecomputeStraightensAndWritesBack(t *testing.T) {
	curve := markup.NewCurve("C", zigZag())
	sink := &tableRecorder{}

	res, err := NewEngine(nil).Recompute(curve, sink)
	require.NoError(t, err)

	require.Len(t, res.Rows, 4)
	assert.InDelta(t, 4.0, res.TotalLength, 1e-6)
	assert.False(t, res.HostLength)
	assert.True(t, res.WroteBack)
	require.Len(t, sink.rows, 1)
	assert.Equal(t, "mm", sink.units[0])

	// The provider accepted the relocated points
	points, err := curve.ControlPoints()
	require.NoError(t, err)
	for i, p := range points {
		assert.InDelta(t, float64(i), p.X, 1e-6)
		assert.InDelta(t, 0.0, p.Y, 1e-6)
	}
}

func TestRecomputeWithoutStraightening(t *testing.T) {
	params := DefaultParams()
	params.Straighten = false
	curve := &staticCurve{points: models.ControlPointSequence{{X: 0}, {X: 3, Y: 4}}}

	res, err := NewEngine(params).Recompute(curve, nil)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.InDelta(t, 5.0, res.Rows[0].Cumulative, 1e-12)
}

func TestRecomputeHostArcLength(t *testing.T) {
	params := DefaultParams()
	params.UseHostArcLength = true
	params.Straighten = false
	curve := &staticCurve{points: zigZag(), scale: 2}

	res, err := NewEngine(params).Recompute(curve, nil)
	require.NoError(t, err)
	assert.True(t, res.HostLength)
	assert.InDelta(t, 8.0, res.TotalLength, 1e-12)
	assert.InDelta(t, 25.0, res.Rows[0].PartialPct, 1e-12)

	// A straightened copy the provider never saw cannot use host lengths
	params.Straighten = true
	res, err = NewEngine(params).Recompute(curve, nil)
	require.NoError(t, err)
	assert.False(t, res.HostLength)
	assert.InDelta(t, 4.0, res.TotalLength, 1e-6)

	// Read-only provider keeps its own points
	assert.Equal(t, 5.0, curve.points[1].Y)
	assert.False(t, res.WroteBack)

	// Straightening that moves nothing keeps host lengths
	straight := &staticCurve{points: models.ControlPointSequence{{X: 0}, {X: 1}, {X: 2}}, scale: 3}
	res, err = NewEngine(params).Recompute(straight, nil)
	require.NoError(t, err)
	assert.True(t, res.HostLength)
	assert.InDelta(t, 6.0, res.TotalLength, 1e-12)
}

func TestRecomputeSinkFailureLeavesCurve(t *testing.T) {
	curve := markup.NewCurve("C", zigZag())
	ch := curve.Subscribe()
	sinkErr := errors.New("display gone")

	_, err := NewEngine(nil).Recompute(curve, &tableRecorder{err: sinkErr})
	require.ErrorIs(t, err, sinkErr)

	points, err := curve.ControlPoints()
	require.NoError(t, err)
	assert.Equal(t, zigZag(), points)
	select {
	case <-ch:
		t.Fatal("failed recomputation must not edit the curve")
	default:
	}
}

func TestRecomputeStraightCurveNotRewritten(t *testing.T) {
	curve := markup.NewCurve("C", models.ControlPointSequence{{X: 0}, {X: 1}, {X: 2}})
	ch := curve.Subscribe()

	res, err := NewEngine(nil).Recompute(curve, nil)
	require.NoError(t, err)
	assert.False(t, res.WroteBack)
	select {
	case <-ch:
		t.Fatal("unchanged points must not be written back")
	default:
	}
}

func TestRecomputeErrors(t *testing.T) {
	e := NewEngine(nil)

	_, err := e.Recompute(nil, nil)
	assert.True(t, models.IsMissingInput(err))

	_, err = e.Recompute(markup.NewCurve("empty", nil), nil)
	assert.True(t, models.IsMissingInput(err))

	_, err = e.Recompute(markup.NewCurve("one", models.ControlPointSequence{{X: 1}}), nil)
	assert.True(t, models.IsDegenerate(err))

	closed := models.ControlPointSequence{{X: 0}, {X: 1, Y: 1}, {X: 0}}
	_, err = e.Recompute(markup.NewCurve("closed", closed), nil)
	assert.True(t, models.IsDegenerate(err))

	params := DefaultParams()
	params.Straighten = false
	_, err = NewEngine(params).Recompute(markup.NewCurve("same", make(models.ControlPointSequence, 4)), nil)
	assert.True(t, models.IsDivisionByZero(err))

	sinkErr := errors.New("display gone")
	_, err = e.Recompute(markup.NewCurve("C", zigZag()), &tableRecorder{err: sinkErr})
	assert.ErrorIs(t, err, sinkErr)
}

func TestDiameter(t *testing.T) {
	cl := markup.NewCenterlineFromSamples([]models.RadiusSample{
		{Position: r3.Vec{X: 0, Y: 0, Z: 0}, Radius: 1},
		{Position: r3.Vec{X: 3, Y: 4, Z: 0}, Radius: 2},
		{Position: r3.Vec{X: 3, Y: 4, Z: 3}, Radius: 1.5},
	})
	sink := &plotRecorder{}

	res, err := NewEngine(nil).Diameter(cl, sink)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 5, 8}, res.Series.Distance)
	assert.Equal(t, []float64{2, 4, 3}, res.Series.Diameter)
	assert.Equal(t, 0, res.Summary.MinIndex)
	require.Len(t, sink.series, 1)
	assert.Equal(t, "Distance (mm)", sink.xTitle)
}

func TestDiameterAxis(t *testing.T) {
	params := DefaultParams()
	params.Axis = models.AxisZ
	cl := markup.NewCenterlineFromSamples([]models.RadiusSample{
		{Position: r3.Vec{Z: 10}, Radius: 1},
		{Position: r3.Vec{Z: 12}, Radius: 1},
	})

	res, err := NewEngine(params).Diameter(cl, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 12}, res.Series.Distance)
}

func TestDiameterMissingRadius(t *testing.T) {
	cl := markup.NewCenterline([]r3.Vec{{X: 0}, {X: 1}})

	_, err := NewEngine(nil).Diameter(cl, nil)
	assert.True(t, models.IsMissingInput(err))

	_, err = NewEngine(nil).Diameter(markup.NewCenterline(nil), nil)
	assert.True(t, models.IsMissingInput(err))
}

func TestWatch(t *testing.T) {
	curve := markup.NewCurve("C", models.ControlPointSequence{{X: 0}, {X: 2}})
	changes := make(chan struct{})
	e := NewEngine(nil)

	var (
		results []*Result
		errs    []error
	)
	handled := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(context.Background(), curve, nil, changes,
			func(r *Result) {
				results = append(results, r)
				handled <- struct{}{}
			},
			func(err error) {
				errs = append(errs, err)
				handled <- struct{}{}
			})
	}()

	changes <- struct{}{}
	<-handled
	require.NoError(t, curve.RemoveControlPoint(1))
	changes <- struct{}{}
	<-handled
	curve.AddControlPoint(r3.Vec{X: 6})
	changes <- struct{}{}
	<-handled
	close(changes)

	require.NoError(t, <-done)
	require.Len(t, results, 2)
	require.Len(t, errs, 1)
	assert.InDelta(t, 2.0, results[0].TotalLength, 1e-12)
	assert.True(t, models.IsDegenerate(errs[0]))
	assert.InDelta(t, 6.0, results[1].TotalLength, 1e-12)
}

func TestWatchSubscribedCurveGoesIdle(t *testing.T) {
	curve := markup.NewCurve("C", zigZag())
	changes := curve.Subscribe()
	e := NewEngine(nil)

	results := make(chan *Result, 64)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, curve, nil, changes,
			func(r *Result) { results <- r },
			func(err error) { t.Errorf("unexpected error: %v", err) })
	}()

	require.NoError(t, curve.MoveControlPoint(2, r3.Vec{X: 2, Y: -3}))
	select {
	case res := <-results:
		assert.True(t, res.WroteBack)
	case <-time.After(5 * time.Second):
		t.Fatal("edit was not recomputed")
	}
	select {
	case <-results:
		t.Fatal("write-back triggered another recomputation")
	case <-time.After(100 * time.Millisecond):
	}

	// A later edit is still picked up
	require.NoError(t, curve.MoveControlPoint(1, r3.Vec{X: 1, Y: 7}))
	select {
	case <-results:
	case <-time.After(5 * time.Second):
		t.Fatal("second edit was not recomputed")
	}
	select {
	case <-results:
		t.Fatal("second write-back triggered another recomputation")
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	points, err := curve.ControlPoints()
	require.NoError(t, err)
	for _, p := range points {
		assert.InDelta(t, 0.0, p.Y, 1e-6)
	}
}

func TestWatchCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewEngine(nil).Watch(ctx, markup.NewCurve("C", nil), nil, make(chan struct{}), nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
