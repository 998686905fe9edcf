// Package report renders scan trajectories and training loss curves as
// static images (gonum/plot) and interactive HTML charts (go-echarts).
package report

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/scan"
	"github.com/ptychodus/ptycho/internal/training"
	"github.com/ptychodus/ptycho/internal/units"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("report: nothing to plot")

// Option configures scan plots and charts.
type Option func(*options)

type options struct {
	unit string
}

// WithLengthUnit sets the unit scan coordinates are shown in. The default
// is micrometers; unknown units fall back to meters.
func WithLengthUnit(unit string) Option {
	return func(o *options) { o.unit = unit }
}

func newOptions(opts []Option) options {
	o := options{unit: units.Micrometer}
	for _, opt := range opts {
		opt(&o)
	}
	if !units.IsValid(o.unit) {
		o.unit = units.Meter
	}
	return o
}

var (
	trajectoryColor = color.RGBA{R: 0x31, G: 0x68, B: 0x8e, A: 0xff}
	pointColor      = color.RGBA{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff}
	trainingColor   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	validationColor = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
)

// PlotScan saves the scan trajectory as a line through the positions with a
// marker at each position. The image format follows the file extension
// (png, svg, pdf...).
func PlotScan(fsys fsutil.FileSystem, points []scan.Point, path string, opts ...Option) error {
	if len(points) == 0 {
		return ErrNoData
	}
	o := newOptions(opts)

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		x, y := pt.Float64()
		xys[i] = plotter.XY{X: units.ConvertLength(x, o.unit), Y: units.ConvertLength(y, o.unit)}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Scan Trajectory (%d points)", len(points))
	p.X.Label.Text = fmt.Sprintf("x (%s)", units.Label(o.unit))
	p.Y.Label.Text = fmt.Sprintf("y (%s)", units.Label(o.unit))
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = trajectoryColor
	line.Width = vg.Points(0.5)
	p.Add(line)

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = pointColor
	sc.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(sc)

	return savePlot(fsys, p, 8*vg.Inch, 8*vg.Inch, path)
}

// PlotLossCurves saves the per-epoch training and validation losses.
// Non-finite losses are skipped.
func PlotLossCurves(fsys fsutil.FileSystem, curves training.LossCurves, path string) error {
	p := plot.New()
	p.Title.Text = "Training Loss"
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Loss"
	p.Add(plotter.NewGrid())

	added := 0
	for _, series := range []struct {
		name   string
		values []float64
		color  color.Color
	}{
		{"training", curves.Training, trainingColor},
		{"validation", curves.Validation, validationColor},
	} {
		xys := epochXYs(series.values)
		if len(xys) == 0 {
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = series.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(series.name, line)
		added++
	}
	if added == 0 {
		return ErrNoData
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return savePlot(fsys, p, 10*vg.Inch, 6*vg.Inch, path)
}

func epochXYs(values []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(i + 1), Y: v})
	}
	return xys
}

func savePlot(fsys fsutil.FileSystem, p *plot.Plot, w, h vg.Length, path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format == "" {
		format = "png"
	}
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
