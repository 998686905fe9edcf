package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ptychodus/ptycho/internal/catalog"
	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/report"
	"github.com/ptychodus/ptycho/internal/scan"
	"github.com/ptychodus/ptycho/internal/security"
	"github.com/ptychodus/ptycho/internal/settings"
	"github.com/ptychodus/ptycho/internal/units"
)

var scanFormats = []string{"csv", "png", "svg", "html"}

func runScan(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("scan", stderr)
	var common commonFlags
	common.register(fs)
	initializer := fs.String("initializer", "", "scan initializer (Custom, Spiral, Snake, Raster, Lissajous)")
	transform := fs.String("transform", "", `coordinate transform, e.g. "+x+y" or "(-y, +x)"`)
	input := fs.String("in", "", "CSV file to load as a Custom scan")
	outDir := fs.String("out-dir", ".", "directory for output files")
	name := fs.String("name", "scan", "base name for output files")
	formats := fs.String("formats", "csv", "comma separated outputs: "+strings.Join(scanFormats, ", "))
	catalogPath := fs.String("catalog", "", "sqlite catalog to record the scan in")
	unit := fs.String("units", units.Micrometer, "length unit for printed bounds and plots: "+units.GetValidUnitsString())
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if !units.IsValid(*unit) {
		return fmt.Errorf("%w: unknown -units %q (have %s)", errUsage, *unit, units.GetValidUnitsString())
	}

	wanted, err := parseFormats(*formats)
	if err != nil {
		return err
	}
	if *transform != "" {
		if _, err := scan.ParseTransform(*transform); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
	}

	cfg, err := common.loadConfig()
	if err != nil {
		return err
	}
	reg := settings.NewRegistry()
	s := scan.NewSettings(reg, cfg.ScanSection())
	if err := common.overrides.apply(reg); err != nil {
		return err
	}

	fsys := fsutil.OSFileSystem{}
	sc := scan.New(s)
	p := scan.NewPresenter(s, sc, scan.NewInitializer(s, sc, fsys))
	defer p.Close()

	switch {
	case *input != "":
		if err := p.OpenScan(*input, scan.CSVFileFilter); err != nil {
			return err
		}
		if len(p.Points()) == 0 {
			return fmt.Errorf("no scan points read from %s", *input)
		}
	default:
		if *initializer != "" && !p.SetInitializer(*initializer) {
			return fmt.Errorf("%w: unknown initializer %q (have %s)", errUsage, *initializer,
				strings.Join(p.InitializerNames(), ", "))
		}
		if err := p.Reinitialize(); err != nil {
			return err
		}
	}
	if *transform != "" {
		p.SetTransform(*transform)
	}

	points := p.Points()
	fmt.Fprintf(stdout, "%s scan: %d points, transform %s\n", p.Initializer(), len(points), p.Transform())
	if bbox := p.BoundingBox(); bbox != nil {
		for i, axis := range []string{"x", "y"} {
			iv, _ := bbox.At(i)
			fmt.Fprintf(stdout, "  %s: [%s, %s] %s\n", axis,
				units.ConvertDecimal(iv.Lower, *unit), units.ConvertDecimal(iv.Upper, *unit), units.Label(*unit))
		}
	}

	if err := fsys.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	var csvPath string
	for _, format := range wanted {
		path, err := security.JoinWithin(*outDir, *name+"."+format)
		if err != nil {
			return err
		}
		switch format {
		case "csv":
			err = p.SaveScan(path, scan.CSVFileFilter)
			csvPath = path
		case "png", "svg":
			err = report.PlotScan(fsys, points, path, report.WithLengthUnit(*unit))
		case "html":
			title := fmt.Sprintf("%s scan (%s)", p.Initializer(), p.Transform())
			err = writeScanChart(fsys, path, points, title, report.WithLengthUnit(*unit))
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}

	if *catalogPath == "" {
		return nil
	}
	store, err := catalog.Open(*catalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := catalog.ScanRecord{
		Name:        *name,
		Initializer: p.Initializer(),
		Transform:   sc.CurrentTransform().SimpleName(),
		Path:        csvPath,
		Points:      len(points),
	}
	if bbox := p.BoundingBox(); bbox != nil {
		x, _ := bbox.At(0)
		y, _ := bbox.At(1)
		rec.MinX, rec.MaxX = &x.Lower, &x.Upper
		rec.MinY, rec.MaxY = &y.Lower, &y.Upper
	}
	rec, err = store.RecordScan(ctx, rec)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "recorded scan %s in %s\n", rec.ID, *catalogPath)
	return nil
}

func writeScanChart(fsys fsutil.FileSystem, path string, points []scan.Point, title string, opts ...report.Option) error {
	f, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if err := report.RenderScanChart(f, points, title, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseFormats splits a comma separated list and rejects unknown formats.
func parseFormats(list string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(list, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		known := false
		for _, k := range scanFormats {
			known = known || k == f
		}
		if !known {
			return nil, fmt.Errorf("%w: unknown format %q (have %s)", errUsage, f, strings.Join(scanFormats, ", "))
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}
