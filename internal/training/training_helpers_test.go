package training

import (
	"context"
	"log"
	"testing"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"

	"github.com/ptychodus/ptycho/internal/config"
	"github.com/ptychodus/ptycho/internal/monitoring"
	"github.com/ptychodus/ptycho/internal/scan"
	"github.com/ptychodus/ptycho/internal/settings"
)

type pointList []scan.Point

func (p pointList) Len() int { return len(p) }

func (p pointList) At(i int) (scan.Point, error) {
	if i < 0 || i >= len(p) {
		return scan.Point{}, scan.ErrIndexOutOfRange
	}
	return p[i], nil
}

func newTestSettings(t *testing.T, maxSize int) *Settings {
	t.Helper()
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(log.Printf) })
	return NewSettings(settings.NewRegistry(), &config.TrainingConfig{MaximumTrainingDatasetSize: &maxSize}, nil)
}

func px(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// testInput builds n samples on a 16x16 object of constant value z with
// 1 m pixels, a 2x2 probe and 3x3 patterns whose values equal the sample
// number.
func testInput(n int, z complex128) ReconstructInput {
	points := make(pointList, n)
	patterns := make([]mat.Matrix, n)
	for i := 0; i < n; i++ {
		points[i] = scan.NewPoint(px(int64(i%3)), px(0))
		v := float64(i)
		patterns[i] = mat.NewDense(3, 3, []float64{v, v, v, v, v, v, v, v, v})
	}
	return ReconstructInput{
		Scan:                points,
		Probe:               mat.NewCDense(2, 2, []complex128{1, 1, 1, 1}),
		Object:              NewObjectArray(16, 16, px(1), px(1), func(int, int) complex128 { return z }),
		DiffractionPatterns: patterns,
	}
}

type fakeTrainer struct {
	gotSet  TrainingSet
	gotOpts Options
	curves  LossCurves
	err     error
}

func (f *fakeTrainer) Train(ctx context.Context, set TrainingSet, opts Options) (LossCurves, error) {
	f.gotSet, f.gotOpts = set, opts
	return f.curves, f.err
}

type fakeRecorder struct {
	infos []DatasetInfo
	err   error
}

func (f *fakeRecorder) RecordDataset(ctx context.Context, info DatasetInfo) error {
	f.infos = append(f.infos, info)
	return f.err
}
