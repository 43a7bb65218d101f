package visualization

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"vesselmetrics/internal/models"
)

// PlotParams controls the size and title of rendered plots.
type PlotParams struct {
	// Title is drawn above the plot
	Title string

	// Width and Height are the image size in inches
	Width  float64
	Height float64

	// Format is html or an image format (png, svg, pdf, eps, jpg, tif).
	// Empty picks the format from the file extension.
	Format string
}

// PlotFormats lists the accepted values of PlotParams.Format.
var PlotFormats = []string{"png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff", "html"}

// IsPlotFormat reports whether format is empty or one of PlotFormats.
func IsPlotFormat(format string) bool {
	if format == "" {
		return true
	}
	for _, f := range PlotFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// DefaultPlotParams returns an 8x4 inch diameter plot.
func DefaultPlotParams() PlotParams {
	return PlotParams{Title: "Diameter", Width: 8, Height: 4}
}

// FilePlot renders a series to an image file. Without an explicit format
// the file extension decides (png, svg, pdf, ...).
type FilePlot struct {
	path   string
	params PlotParams
}

// NewFilePlot creates a plot sink writing to path.
func NewFilePlot(path string, params PlotParams) *FilePlot {
	return &FilePlot{path: path, params: params}
}

// PlotSeries implements engine.PlotSink.
func (f *FilePlot) PlotSeries(s models.DistanceDiameterSeries, xTitle, yTitle string) error {
	p, err := newDiameterPlot(s, f.params.Title, xTitle, yTitle)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}
	w, h := vg.Length(f.params.Width)*vg.Inch, vg.Length(f.params.Height)*vg.Inch
	if f.params.Format == "" {
		if err := p.Save(w, h, f.path); err != nil {
			return fmt.Errorf("failed to save plot: %w", err)
		}
		return nil
	}

	wt, err := p.WriterTo(w, h, strings.ToLower(f.params.Format))
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	out, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	if _, err := wt.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return out.Close()
}

// newDiameterPlot builds a scatter of diameter against distance.
func newDiameterPlot(s models.DistanceDiameterSeries, title, xTitle, yTitle string) (*plot.Plot, error) {
	if len(s.Distance) != len(s.Diameter) {
		return nil, fmt.Errorf("series is not index aligned: %d x values, %d diameters", len(s.Distance), len(s.Diameter))
	}
	if len(s.Distance) == 0 {
		return nil, &models.MissingInputError{Reason: "diameter series is empty"}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, s.Len())
	for i := range pts {
		pts[i].X = s.Distance[i]
		pts[i].Y = s.Diameter[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %w", err)
	}
	scatter.GlyphStyle.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)
	return p, nil
}

// HTMLPlot renders a series as an interactive HTML chart.
type HTMLPlot struct {
	w      io.Writer
	params PlotParams
}

// NewHTMLPlot creates a plot sink writing an HTML page to w.
func NewHTMLPlot(w io.Writer, params PlotParams) *HTMLPlot {
	return &HTMLPlot{w: w, params: params}
}

// PlotSeries implements engine.PlotSink.
func (h *HTMLPlot) PlotSeries(s models.DistanceDiameterSeries, xTitle, yTitle string) error {
	if len(s.Distance) != len(s.Diameter) {
		return fmt.Errorf("series is not index aligned: %d x values, %d diameters", len(s.Distance), len(s.Diameter))
	}
	if len(s.Distance) == 0 {
		return &models.MissingInputError{Reason: "diameter series is empty"}
	}

	data := make([]opts.ScatterData, s.Len())
	for i := range data {
		data[i] = opts.ScatterData{Value: []interface{}{s.Distance[i], s.Diameter[i]}}
	}

	// 96 px per inch matches the browser default
	width := fmt.Sprintf("%dpx", int(h.params.Width*96))
	height := fmt.Sprintf("%dpx", int(h.params.Height*96))

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: h.params.Title, Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: h.params.Title, Subtitle: fmt.Sprintf("samples=%d", s.Len())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xTitle, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yTitle, NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries(strings.ToLower(yTitle), data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	if err := scatter.Render(h.w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// NewPlotSink picks a sink from params.Format, or from the file extension
// of path when no format is set: html renders an interactive chart,
// anything else an image.
func NewPlotSink(path string, params PlotParams) (PlotSinkCloser, error) {
	if !IsPlotFormat(params.Format) {
		return nil, fmt.Errorf("unsupported plot format %q", params.Format)
	}
	html := strings.EqualFold(params.Format, "html")
	if params.Format == "" {
		html = strings.EqualFold(filepath.Ext(path), ".html")
	}
	if html {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create plot file: %w", err)
		}
		return &htmlFileSink{HTMLPlot: NewHTMLPlot(f, params), f: f}, nil
	}
	return nopCloser{NewFilePlot(path, params)}, nil
}

// PlotSinkCloser is a plot sink owning a resource that must be released.
type PlotSinkCloser interface {
	PlotSeries(s models.DistanceDiameterSeries, xTitle, yTitle string) error
	Close() error
}

type htmlFileSink struct {
	*HTMLPlot
	f *os.File
}

func (s *htmlFileSink) Close() error { return s.f.Close() }

type nopCloser struct{ *FilePlot }

func (nopCloser) Close() error { return nil }
