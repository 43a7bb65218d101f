package markup

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"vesselmetrics/internal/models"
)

// Coordinate systems used by markups files.
const (
	RAS = "RAS"
	LPS = "LPS"
)

type markupsFile struct {
	Schema  string         `json:"@schema,omitempty"`
	Markups []markupObject `json:"markups"`
}

type markupObject struct {
	Type             string         `json:"type,omitempty"`
	Name             string         `json:"name,omitempty"`
	CoordinateSystem string         `json:"coordinateSystem,omitempty"`
	ControlPoints    []controlPoint `json:"controlPoints"`
}

type controlPoint struct {
	ID       string     `json:"id,omitempty"`
	Label    string     `json:"label,omitempty"`
	Position [3]float64 `json:"position"`
}

// ReadCurveJSON reads the first markup of a markups JSON document and
// returns it as a curve in RAS coordinates. LPS positions are converted by
// negating X and Y.
func ReadCurveJSON(r io.Reader) (*Curve, error) {
	var doc markupsFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("error parsing markups document: %w", err)
	}
	if len(doc.Markups) == 0 {
		return nil, &models.MissingInputError{Reason: "markups document contains no markup"}
	}
	m := doc.Markups[0]
	if len(m.ControlPoints) == 0 {
		return nil, &models.MissingInputError{Reason: fmt.Sprintf("markup %q has no control points", m.Name)}
	}

	lps := false
	switch strings.ToUpper(m.CoordinateSystem) {
	case "", RAS:
	case LPS:
		lps = true
	default:
		return nil, fmt.Errorf("unsupported coordinate system %q", m.CoordinateSystem)
	}

	points := make(models.ControlPointSequence, len(m.ControlPoints))
	for i, cp := range m.ControlPoints {
		p := r3.Vec{X: cp.Position[0], Y: cp.Position[1], Z: cp.Position[2]}
		if lps {
			p.X, p.Y = -p.X, -p.Y
		}
		points[i] = p
	}
	return NewCurve(m.Name, points), nil
}

// ReadCurveFile reads a markups JSON file.
func ReadCurveFile(path string) (*Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening curve file: %w", err)
	}
	defer f.Close()
	return ReadCurveJSON(f)
}

// WriteCurveJSON writes points as a single RAS curve markup.
func WriteCurveJSON(w io.Writer, name string, points models.ControlPointSequence) error {
	obj := markupObject{
		Type:             "Curve",
		Name:             name,
		CoordinateSystem: RAS,
		ControlPoints:    make([]controlPoint, len(points)),
	}
	for i, p := range points {
		obj.ControlPoints[i] = controlPoint{
			ID:       strconv.Itoa(i + 1),
			Label:    fmt.Sprintf("%s-%d", name, i+1),
			Position: [3]float64{p.X, p.Y, p.Z},
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(markupsFile{Markups: []markupObject{obj}}); err != nil {
		return fmt.Errorf("error writing markups document: %w", err)
	}
	return nil
}

// CSVOptions controls how centerline tables are read.
type CSVOptions struct {
	// Tag keeps only rows whose Tag column equals this value. Empty keeps
	// every row.
	Tag string
}

// ReadCenterlineCSV reads a centerline table with a header row. Columns
// x, y, z (case-insensitive) hold positions and the Radius column holds
// radii; a Tag column is optional.
func ReadCenterlineCSV(r io.Reader, opts CSVOptions) (*Centerline, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.MissingInputError{Reason: "centerline table is empty"}
	}
	if err != nil {
		return nil, fmt.Errorf("error reading centerline header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{"x", "y", "z"} {
		if _, ok := cols[name]; !ok {
			return nil, &models.MissingInputError{Reason: fmt.Sprintf("centerline table has no %q column", name)}
		}
	}
	radiusCol, ok := cols[strings.ToLower(models.RadiusAttribute)]
	if !ok {
		return nil, &models.MissingInputError{Reason: fmt.Sprintf("centerline table has no %q column", models.RadiusAttribute)}
	}
	tagCol, hasTag := cols["tag"]
	if opts.Tag != "" && !hasTag {
		return nil, &models.MissingInputError{Reason: "centerline table has no \"Tag\" column"}
	}

	var (
		positions []r3.Vec
		radii     []float64
	)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading centerline row %d: %w", line, err)
		}
		if opts.Tag != "" && rec[tagCol] != opts.Tag {
			continue
		}

		var v [4]float64
		for k, idx := range []int{cols["x"], cols["y"], cols["z"], radiusCol} {
			v[k], err = strconv.ParseFloat(strings.TrimSpace(rec[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", line, header[idx], err)
			}
		}
		positions = append(positions, r3.Vec{X: v[0], Y: v[1], Z: v[2]})
		radii = append(radii, v[3])
	}
	if len(positions) == 0 {
		return nil, &models.MissingInputError{Reason: "centerline table has no matching rows"}
	}

	cl := NewCenterline(positions)
	if err := cl.SetAttribute(models.RadiusAttribute, radii); err != nil {
		return nil, err
	}
	return cl, nil
}

// ReadCenterlineFile reads a centerline CSV file.
func ReadCenterlineFile(path string, opts CSVOptions) (*Centerline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening centerline file: %w", err)
	}
	defer f.Close()
	return ReadCenterlineCSV(f, opts)
}
