package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/cmplx"

	"github.com/shopspring/decimal"

	"github.com/ptychodus/ptycho/internal/catalog"
	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/pinn"
	"github.com/ptychodus/ptycho/internal/scan"
	"github.com/ptychodus/ptycho/internal/security"
	"github.com/ptychodus/ptycho/internal/settings"
	"github.com/ptychodus/ptycho/internal/training"
)

func runSimulate(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("simulate", stderr)
	var common commonFlags
	common.register(fs)
	reconstructor := fs.String("reconstructor", training.PtychoPINN, "reconstructor the dataset is for (PtychoNN or PtychoPINN)")
	pixelSize := fs.String("pixel-size", "1e-7", "object pixel size in meters")
	probeSigma := fs.Float64("probe-sigma", 0, "Gaussian probe standard deviation in pixels (default N/8)")
	capacity := fs.Int("capacity", 0, "training buffer capacity (default: scan length, at most Training.MaximumTrainingDatasetSize)")
	outDir := fs.String("out-dir", ".", "directory for the archive")
	name := fs.String("name", "training_data", "archive base name")
	catalogPath := fs.String("catalog", "", "sqlite catalog to record the dataset in")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *reconstructor != training.PtychoNN && *reconstructor != training.PtychoPINN {
		return fmt.Errorf("%w: unknown reconstructor %q", errUsage, *reconstructor)
	}
	pixel, err := decimal.NewFromString(*pixelSize)
	if err != nil || !pixel.IsPositive() {
		return fmt.Errorf("%w: -pixel-size must be a positive number, got %q", errUsage, *pixelSize)
	}

	cfg, err := common.loadConfig()
	if err != nil {
		return err
	}
	params, err := pinn.FromConfig(cfg.PINNSection())
	if err != nil {
		return err
	}

	reg := settings.NewRegistry()
	ss := scan.NewSettings(reg, cfg.ScanSection())
	ts := training.NewSettings(reg, cfg.TrainingSection(), cfg.ModelSection())
	if err := common.overrides.apply(reg); err != nil {
		return err
	}

	fsys := fsutil.OSFileSystem{}
	sc := scan.New(ss)
	in := scan.NewInitializer(ss, sc, fsys)
	if err := in.Reinitialize(); err != nil {
		return err
	}
	if sc.Len() == 0 {
		return fmt.Errorf("%s scan is empty", in.Active())
	}

	sigma := *probeSigma
	if sigma <= 0 {
		sigma = float64(params.N) / 8
	}
	probe := training.GaussianProbe(params.N, sigma)
	object := syntheticObject(sc, params, pixel)

	frames, err := training.Simulate(sc, probe, object)
	if err != nil {
		return err
	}
	if err := training.ScaleToPhotons(frames, params.NPhotons); err != nil {
		return err
	}

	if *capacity <= 0 {
		*capacity = min(ts.MaximumTrainingDatasetSize.Value(), sc.Len())
	}
	ts.MaximumTrainingDatasetSize.Set(*capacity)

	var opts []training.Option
	if *catalogPath != "" {
		store, err := catalog.Open(*catalogPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, training.WithRecorder(catalogRecorder{store: store}))
	}
	r := training.NewTrainableReconstructor(*reconstructor, ts, fsys, opts...)
	if err := r.IngestTrainingData(training.ReconstructInput{
		Scan:                sc,
		Probe:               probe,
		Object:              object,
		DiffractionPatterns: frames,
	}); err != nil {
		return err
	}

	if err := fsys.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path, err := security.JoinWithin(*outDir, *name+".npz")
	if err != nil {
		return err
	}
	if err := r.SaveTrainingData(ctx, path); err != nil {
		return err
	}

	set := r.TrainingSet()
	fmt.Fprintf(stdout, "%s: %d samples from a %s scan (%s), probe %dx%d, %.3g photons/frame\n",
		*reconstructor, set.Len(), in.Active(), sc.Transform(), params.N, params.N, params.NPhotons)
	fmt.Fprintf(stdout, "  %s = %s\n", training.DiffractionPatternsKey, set.DiffractionPatterns)
	fmt.Fprintf(stdout, "  %s = %s\n", training.ObjectPatchesKey, set.ObjectPatches)
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}

// syntheticObject builds an object that covers every scan position plus a
// probe-sized margin, textured according to the PINN data source.
func syntheticObject(sc *scan.Scan, params pinn.Params, pixel decimal.Decimal) *training.ObjectArray {
	margin := params.N + 2*params.MaxPositionJitter
	cols, rows := margin, margin
	center := scan.NewPoint(decimal.Zero, decimal.Zero)
	if bbox := sc.BoundingBox(); bbox != nil {
		x, _ := bbox.At(0)
		y, _ := bbox.At(1)
		cols += int(x.Length().Div(pixel).Ceil().IntPart())
		rows += int(y.Length().Div(pixel).Ceil().IntPart())
		center = scan.NewPoint(x.Center(), y.Center())
	}

	texture := textureFor(params.DataSource)
	obj := training.NewObjectArray(rows, cols, pixel, pixel, texture)
	obj.Center = center
	return obj
}

// textureFor returns the complex transmission texture for a data source.
func textureFor(source string) func(r, c int) complex128 {
	switch source {
	case "lines", "diagonals":
		return func(r, c int) complex128 {
			phase := 0.5 * math.Pi * math.Sin(2*math.Pi*float64(r+c)/16)
			return cmplx.Rect(1, phase)
		}
	case "points":
		return func(r, c int) complex128 {
			if r%12 == 0 && c%12 == 0 {
				return cmplx.Rect(0.5, math.Pi/2)
			}
			return 1
		}
	default:
		return func(r, c int) complex128 {
			amp := 0.75 + 0.25*math.Cos(2*math.Pi*float64(r)/23)*math.Cos(2*math.Pi*float64(c)/29)
			phase := 0.25 * math.Pi * math.Sin(2*math.Pi*float64(r)/17) * math.Sin(2*math.Pi*float64(c)/13)
			return cmplx.Rect(amp, phase)
		}
	}
}

// catalogRecorder records saved training archives in the catalog.
type catalogRecorder struct {
	store *catalog.Store
}

func (c catalogRecorder) RecordDataset(ctx context.Context, info training.DatasetInfo) error {
	_, err := c.store.RecordDataset(ctx, catalog.DatasetRecord{
		Path:          info.Path,
		Reconstructor: info.Reconstructor,
		Samples:       info.Samples,
		Channels:      info.Channels,
		PatternHeight: info.PatternHeight,
		PatternWidth:  info.PatternWidth,
		PatchHeight:   info.PatchHeight,
		PatchWidth:    info.PatchWidth,
	})
	return err
}
