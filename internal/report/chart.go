package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ptychodus/ptycho/internal/scan"
	"github.com/ptychodus/ptycho/internal/units"
)

// RenderScanChart writes an interactive HTML scatter chart of the scan
// positions. Each marker carries its scan index.
func RenderScanChart(w io.Writer, points []scan.Point, title string, options ...Option) error {
	if len(points) == 0 {
		return ErrNoData
	}
	o := newOptions(options)
	label := units.Label(o.unit)

	data := make([]opts.ScatterData, len(points))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, pt := range points {
		x, y := pt.Float64()
		x, y = units.ConvertLength(x, o.unit), units.ConvertLength(y, o.unit)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		data[i] = opts.ScatterData{Value: []interface{}{x, y, i}}
	}
	padX := axisPad(minX, maxX)
	padY := axisPad(minY, maxY)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("points=%d", len(points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: minX - padX, Max: maxX + padX, Name: "x (" + label + ")", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: minY - padY, Max: maxY + padY, Name: "y (" + label + ")", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Dimension:  "2",
			Min:        0,
			Max:        float32(len(points) - 1),
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#fde725"}},
		}),
	)
	scatter.AddSeries("positions", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	return scatter.Render(w)
}

func axisPad(lo, hi float64) float64 {
	if span := hi - lo; span > 0 {
		return span * 0.05
	}
	return 1
}
