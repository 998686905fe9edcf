package training

import (
	"github.com/shopspring/decimal"

	"github.com/ptychodus/ptycho/internal/config"
	"github.com/ptychodus/ptycho/internal/settings"
)

const (
	TrainingGroupName = "Training"
	ModelGroupName    = "Model"
)

// Settings are the observable entries of the Training and Model groups.
type Settings struct {
	training *settings.Group
	model    *settings.Group

	MaximumTrainingDatasetSize     *settings.Entry[int]
	ValidationSetFractionalSize    *settings.Entry[decimal.Decimal]
	TrainingEpochs                 *settings.Entry[int]
	BatchSize                      *settings.Entry[int]
	OptimizationEpochsPerHalfCycle *settings.Entry[int]
	MaximumLearningRate            *settings.Entry[decimal.Decimal]
	MinimumLearningRate            *settings.Entry[decimal.Decimal]
	StatusIntervalInEpochs         *settings.Entry[int]
	OutputPath                     *settings.Entry[string]
	OutputSuffix                   *settings.Entry[string]
	SaveTrainingArtifacts          *settings.Entry[bool]

	PredictAmplitude           *settings.Entry[bool]
	NumberOfConvolutionKernels *settings.Entry[int]
}

// NewSettings creates the Training and Model groups in reg, seeded from the
// config sections (nil for defaults). Call it once per registry.
func NewSettings(reg *settings.Registry, tc *config.TrainingConfig, mc *config.ModelConfig) *Settings {
	t := reg.Group(TrainingGroupName)
	m := reg.Group(ModelGroupName)
	return &Settings{
		training: t,
		model:    m,

		MaximumTrainingDatasetSize:     t.Int("MaximumTrainingDatasetSize", tc.GetMaximumTrainingDatasetSize()),
		ValidationSetFractionalSize:    t.Decimal("ValidationSetFractionalSize", tc.GetValidationSetFractionalSize()),
		TrainingEpochs:                 t.Int("TrainingEpochs", tc.GetTrainingEpochs()),
		BatchSize:                      t.Int("BatchSize", tc.GetBatchSize()),
		OptimizationEpochsPerHalfCycle: t.Int("OptimizationEpochsPerHalfCycle", tc.GetOptimizationEpochsPerHalfCycle()),
		MaximumLearningRate:            t.Decimal("MaximumLearningRate", tc.GetMaximumLearningRate()),
		MinimumLearningRate:            t.Decimal("MinimumLearningRate", tc.GetMinimumLearningRate()),
		StatusIntervalInEpochs:         t.Int("StatusIntervalInEpochs", tc.GetStatusIntervalInEpochs()),
		OutputPath:                     t.Path("OutputPath", tc.GetOutputPath()),
		OutputSuffix:                   t.String("OutputSuffix", tc.GetOutputSuffix()),
		SaveTrainingArtifacts:          t.Bool("SaveTrainingArtifacts", tc.GetSaveTrainingArtifacts()),

		PredictAmplitude:           m.Bool("PredictAmplitude", mc.GetPredictAmplitude()),
		NumberOfConvolutionKernels: m.Int("NumberOfConvolutionKernels", mc.GetNumberOfConvolutionKernels()),
	}
}

// TrainingGroup returns the Training settings group.
func (s *Settings) TrainingGroup() *settings.Group { return s.training }

// ModelGroup returns the Model settings group.
func (s *Settings) ModelGroup() *settings.Group { return s.model }

// Channels returns the object patch channel count implied by
// PredictAmplitude.
func (s *Settings) Channels() int {
	if s.PredictAmplitude.Value() {
		return 2
	}
	return 1
}

// Options snapshots the values handed to a Trainer.
func (s *Settings) Options() Options {
	return Options{
		ValidationFraction:             s.ValidationSetFractionalSize.Value().InexactFloat64(),
		Epochs:                         s.TrainingEpochs.Value(),
		BatchSize:                      s.BatchSize.Value(),
		OptimizationEpochsPerHalfCycle: s.OptimizationEpochsPerHalfCycle.Value(),
		MaximumLearningRate:            s.MaximumLearningRate.Value().InexactFloat64(),
		MinimumLearningRate:            s.MinimumLearningRate.Value().InexactFloat64(),
		StatusIntervalInEpochs:         s.StatusIntervalInEpochs.Value(),
		ConvolutionKernels:             s.NumberOfConvolutionKernels.Value(),
		PredictAmplitude:               s.PredictAmplitude.Value(),
	}
}
