package engine

import (
	"gonum.org/v1/gonum/spatial/r3"

	"vesselmetrics/internal/models"
)

// CurveProvider supplies the current control points of a curve in world
// coordinates. Implementations may return their internal slice; the
// engine copies it before use.
type CurveProvider interface {
	ControlPoints() (models.ControlPointSequence, error)
}

// ArcLengthProvider is implemented by providers that can measure their own
// curve, for example along a spline through the control points.
type ArcLengthProvider interface {
	CurveLength() float64
	CurveLengthBetween(i, j int) float64
}

// CurveWriter is implemented by providers that accept relocated control
// points back after straightening.
type CurveWriter interface {
	SetControlPoints(points models.ControlPointSequence) error
}

// CenterlineModel exposes positions and named per-point attributes of a
// centerline, index aligned.
type CenterlineModel interface {
	Positions() []r3.Vec
	PointAttribute(name string) ([]float64, bool)
}

// TableSink displays metric rows.
type TableSink interface {
	WriteRows(rows []models.MetricRow, unit string) error
}

// PlotSink displays a distance/diameter series.
type PlotSink interface {
	PlotSeries(series models.DistanceDiameterSeries, xTitle, yTitle string) error
}
