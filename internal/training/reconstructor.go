package training

import (
	"context"
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/ptychodus/ptycho/internal/buffer"
	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/monitoring"
	"github.com/ptychodus/ptycho/internal/npz"
	"github.com/ptychodus/ptycho/internal/security"
	"github.com/ptychodus/ptycho/internal/timeutil"
)

// Reconstructor names.
const (
	PtychoNN   = "PtychoNN"
	PtychoPINN = "PtychoPINN"
)

// Option configures a TrainableReconstructor.
type Option func(*TrainableReconstructor)

// WithTrainer sets the back end used by Train.
func WithTrainer(t Trainer) Option {
	return func(r *TrainableReconstructor) { r.trainer = t }
}

// WithRecorder sets the recorder notified by SaveTrainingData.
func WithRecorder(rec DatasetRecorder) Option {
	return func(r *TrainableReconstructor) { r.recorder = rec }
}

// WithClock sets the clock used to time training runs.
func WithClock(c timeutil.Clock) Option {
	return func(r *TrainableReconstructor) { r.clock = c }
}

// TrainableReconstructor accumulates training samples for one neural-network
// reconstructor. The buffers stay zero-sized until the first ingestion,
// which sizes them from the settings and the input extents.
type TrainableReconstructor struct {
	name     string
	settings *Settings
	fsys     fsutil.FileSystem
	trainer  Trainer
	recorder DatasetRecorder
	clock    timeutil.Clock

	patterns *buffer.PatternCircularBuffer
	patches  *buffer.ObjectPatchCircularBuffer

	logf func(format string, v ...interface{})
}

// NewTrainableReconstructor returns a reconstructor named name. Changing
// MaximumTrainingDatasetSize or PredictAmplitude discards buffered samples
// so that the next ingestion re-sizes the buffers.
func NewTrainableReconstructor(name string, s *Settings, fsys fsutil.FileSystem, opts ...Option) *TrainableReconstructor {
	r := &TrainableReconstructor{
		name:     name,
		settings: s,
		fsys:     fsys,
		patterns: buffer.ZeroSizedPatternBuffer(),
		patches:  buffer.ZeroSizedObjectPatchBuffer(),
		clock:    timeutil.RealClock{},
		logf:     monitoring.Component(name),
	}
	for _, opt := range opts {
		opt(r)
	}

	s.MaximumTrainingDatasetSize.Subscribe(func(int) { r.resetForResize("MaximumTrainingDatasetSize") })
	s.PredictAmplitude.Subscribe(func(bool) { r.resetForResize("PredictAmplitude") })
	return r
}

// Name returns the reconstructor name.
func (r *TrainableReconstructor) Name() string {
	return r.name
}

// IngestTrainingData appends one pattern and one object patch per scan
// position. When the pattern and scan counts differ the shorter one wins.
func (r *TrainableReconstructor) IngestTrainingData(in ReconstructInput) error {
	if in.Scan == nil || in.Probe == nil || in.Object == nil {
		return fmt.Errorf("ingest: scan, probe and object are required")
	}
	n := min(len(in.DiffractionPatterns), in.Scan.Len())
	if len(in.DiffractionPatterns) != in.Scan.Len() {
		r.logf("Pattern count %d does not match scan length %d; ingesting %d samples",
			len(in.DiffractionPatterns), in.Scan.Len(), n)
	}
	if n == 0 {
		return nil
	}

	probeHeight, probeWidth := in.Probe.Dims()
	if r.patterns.IsZeroSized() {
		height, width := in.DiffractionPatterns[0].Dims()
		if err := r.resize(r.settings.MaximumTrainingDatasetSize.Value(), r.settings.Channels(),
			height, width, probeHeight, probeWidth); err != nil {
			return err
		}
	}

	// Validate the whole batch first: a rejected sample must not leave the
	// pattern and patch buffers with different lengths.
	frameHeight, frameWidth := r.patterns.FrameShape()
	patchHeight, patchWidth := r.patches.PatchShape()
	if probeHeight != patchHeight || probeWidth != patchWidth {
		return fmt.Errorf("ingest: probe %dx%d into %dx%d patch buffer: %w",
			probeHeight, probeWidth, patchHeight, patchWidth, buffer.ErrShapeMismatch)
	}
	patches := make([]*mat.CDense, n)
	for i := 0; i < n; i++ {
		if h, w := in.DiffractionPatterns[i].Dims(); h != frameHeight || w != frameWidth {
			return fmt.Errorf("ingest sample %d: pattern %dx%d into %dx%d buffer: %w",
				i, h, w, frameHeight, frameWidth, buffer.ErrShapeMismatch)
		}
		p, err := in.Scan.At(i)
		if err != nil {
			return fmt.Errorf("ingest sample %d: %w", i, err)
		}
		patches[i], err = in.Object.Patch(p, probeWidth, probeHeight)
		if err != nil {
			return fmt.Errorf("ingest sample %d: %w", i, err)
		}
	}

	for i := 0; i < n; i++ {
		if err := r.patterns.Append(in.DiffractionPatterns[i]); err != nil {
			return fmt.Errorf("ingest sample %d: %w", i, err)
		}
		if err := r.patches.Append(patches[i]); err != nil {
			return fmt.Errorf("ingest sample %d: %w", i, err)
		}
	}

	r.logf("Ingested %d samples (%d buffered of %d)", n, r.patterns.Len(), r.patterns.Capacity())
	return nil
}

// ClearTrainingData discards all buffered samples.
func (r *TrainableReconstructor) ClearTrainingData() {
	r.patterns = buffer.ZeroSizedPatternBuffer()
	r.patches = buffer.ZeroSizedObjectPatchBuffer()
}

// BufferedSamples returns the number of valid samples.
func (r *TrainableReconstructor) BufferedSamples() int {
	return r.patterns.Len()
}

// TrainingSet returns a chronological snapshot of the buffers.
func (r *TrainableReconstructor) TrainingSet() TrainingSet {
	return TrainingSet{
		DiffractionPatterns: r.patterns.Buffer(),
		ObjectPatches:       r.patches.Buffer(),
	}
}

// SaveTrainingData writes the training set to an NPZ archive at path and
// records it with the configured DatasetRecorder.
func (r *TrainableReconstructor) SaveTrainingData(ctx context.Context, path string) error {
	set := r.TrainingSet()
	if err := npz.WriteFile(r.fsys, path,
		npz.Array{Name: DiffractionPatternsKey, Float32Array: set.DiffractionPatterns},
		npz.Array{Name: ObjectPatchesKey, Float32Array: set.ObjectPatches},
	); err != nil {
		return fmt.Errorf("save training data: %w", err)
	}
	r.logf("Saved %d samples to %s", set.Len(), path)

	if r.recorder == nil {
		return nil
	}
	info := DatasetInfo{
		Path:          path,
		Reconstructor: r.name,
		Samples:       set.Len(),
	}
	if s := set.DiffractionPatterns.Shape; len(s) == 3 {
		info.PatternHeight, info.PatternWidth = s[1], s[2]
	}
	if s := set.ObjectPatches.Shape; len(s) == 4 {
		info.Channels, info.PatchHeight, info.PatchWidth = s[1], s[2], s[3]
	}
	if err := r.recorder.RecordDataset(ctx, info); err != nil {
		return fmt.Errorf("record training data: %w", err)
	}
	return nil
}

// LoadTrainingData replaces the buffers with the samples of an archive
// written by SaveTrainingData. The capacity is the larger of the
// MaximumTrainingDatasetSize setting and the archive sample count.
func (r *TrainableReconstructor) LoadTrainingData(path string) error {
	arrays, err := npz.ReadFile(r.fsys, path)
	if err != nil {
		return fmt.Errorf("load training data: %w", err)
	}
	patterns, ok := arrays[DiffractionPatternsKey]
	if !ok || len(patterns.Shape) != 3 {
		return fmt.Errorf("load training data: %s missing or not 3-d", DiffractionPatternsKey)
	}
	patches, ok := arrays[ObjectPatchesKey]
	if !ok || len(patches.Shape) != 4 {
		return fmt.Errorf("load training data: %s missing or not 4-d", ObjectPatchesKey)
	}
	n := patterns.Len()
	if patches.Len() != n {
		return fmt.Errorf("load training data: %d patterns but %d patches", n, patches.Len())
	}
	channels := patches.Shape[1]
	if channels != r.settings.Channels() {
		r.logf("Archive has %d object channels but PredictAmplitude implies %d", channels, r.settings.Channels())
	}

	capacity := max(r.settings.MaximumTrainingDatasetSize.Value(), n)
	if err := r.resize(capacity, channels, patterns.Shape[1], patterns.Shape[2], patches.Shape[2], patches.Shape[3]); err != nil {
		return fmt.Errorf("load training data: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := r.patterns.AppendRaw(patterns.Sample(i)); err != nil {
			return err
		}
		if err := r.patches.AppendRaw(patches.Sample(i)); err != nil {
			return err
		}
	}
	r.logf("Loaded %d samples from %s", n, path)
	return nil
}

// Train hands the current training set to the Trainer.
func (r *TrainableReconstructor) Train(ctx context.Context) (LossCurves, error) {
	if r.trainer == nil {
		return LossCurves{}, ErrNoTrainer
	}
	if err := ctx.Err(); err != nil {
		return LossCurves{}, err
	}
	set := r.TrainingSet()
	if set.Len() == 0 {
		return LossCurves{}, ErrNoTrainingData
	}

	opts := r.settings.Options()
	r.logf("Training on %d samples for %d epochs (validation fraction %.3g)", set.Len(), opts.Epochs, opts.ValidationFraction)
	start := r.clock.Now()
	curves, err := r.trainer.Train(ctx, set, opts)
	if err != nil {
		return LossCurves{}, fmt.Errorf("train %s: %w", r.name, err)
	}
	r.logf("Training finished in %s (%d epochs reported)", r.clock.Since(start), len(curves.Training))

	if r.settings.SaveTrainingArtifacts.Value() {
		if err := r.saveArtifacts(ctx); err != nil {
			return curves, err
		}
	}
	return curves, nil
}

func (r *TrainableReconstructor) saveArtifacts(ctx context.Context) error {
	dir := r.settings.OutputPath.Value()
	if dir == "" {
		r.logf("SaveTrainingArtifacts is set but OutputPath is empty; skipping")
		return nil
	}
	if err := r.fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	name := security.SanitizeFilename("training_data"+r.settings.OutputSuffix.Value()) + ".npz"
	return r.SaveTrainingData(ctx, filepath.Join(dir, name))
}

func (r *TrainableReconstructor) resize(capacity, channels, height, width, patchHeight, patchWidth int) error {
	if capacity <= 0 {
		return fmt.Errorf("maximum training dataset size must be positive, got %d", capacity)
	}
	patches, err := buffer.NewObjectPatchCircularBuffer(capacity, channels, patchHeight, patchWidth)
	if err != nil {
		return err
	}
	r.patterns = buffer.NewPatternCircularBuffer(capacity, height, width)
	r.patches = patches
	return nil
}

func (r *TrainableReconstructor) resetForResize(entry string) {
	if r.patterns.IsZeroSized() {
		return
	}
	if n := r.patterns.Len(); n > 0 {
		r.logf("%s changed; discarding %d buffered samples", entry, n)
	}
	r.ClearTrainingData()
}
