// Package training turns reconstruction inputs into neural-network training
// samples. Diffraction patterns and the matching object patches are
// accumulated in ring buffers, snapshotted as float32 arrays, persisted as
// NPZ archives and handed to an external Trainer.
package training

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/ptychodus/ptycho/internal/ndarray"
	"github.com/ptychodus/ptycho/internal/scan"
)

var (
	// ErrNoTrainer is returned by Train when no Trainer is configured.
	ErrNoTrainer = errors.New("no trainer configured")
	// ErrNoTrainingData is returned by Train when nothing was ingested.
	ErrNoTrainingData = errors.New("no training data")
)

// Archive member names.
const (
	DiffractionPatternsKey = "diffractionPatterns"
	ObjectPatchesKey       = "objectPatches"
)

// ScanPoints is the indexable view of a scan. *scan.Scan satisfies it.
type ScanPoints interface {
	Len() int
	At(i int) (scan.Point, error)
}

// ObjectInterpolator extracts the complex object patch illuminated at a
// scan position.
type ObjectInterpolator interface {
	Patch(center scan.Point, width, height int) (*mat.CDense, error)
}

// ReconstructInput is one batch of reconstruction data.
type ReconstructInput struct {
	Scan                ScanPoints
	Probe               *mat.CDense
	Object              ObjectInterpolator
	DiffractionPatterns []mat.Matrix
}

// TrainingSet is a snapshot of the buffers: patterns shaped (n, H, W) and
// patches shaped (n, C, h, w).
type TrainingSet struct {
	DiffractionPatterns ndarray.Float32Array
	ObjectPatches       ndarray.Float32Array
}

// Len returns the number of samples.
func (ts TrainingSet) Len() int {
	return ts.DiffractionPatterns.Len()
}

// LossCurves are the per-epoch losses reported by a Trainer.
type LossCurves struct {
	Training   []float64
	Validation []float64
}

// Options are the training parameters passed through from settings.
type Options struct {
	ValidationFraction             float64
	Epochs                         int
	BatchSize                      int
	OptimizationEpochsPerHalfCycle int
	MaximumLearningRate            float64
	MinimumLearningRate            float64
	StatusIntervalInEpochs         int
	ConvolutionKernels             int
	PredictAmplitude               bool
}

// Trainer is the neural-network back end.
type Trainer interface {
	Train(ctx context.Context, set TrainingSet, opts Options) (LossCurves, error)
}

// DatasetInfo describes a saved training archive.
type DatasetInfo struct {
	Path          string
	Reconstructor string
	Samples       int
	Channels      int
	PatternHeight int
	PatternWidth  int
	PatchHeight   int
	PatchWidth    int
}

// DatasetRecorder is notified after a training archive is saved.
type DatasetRecorder interface {
	RecordDataset(ctx context.Context, info DatasetInfo) error
}
