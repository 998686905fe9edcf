package config

import "github.com/shopspring/decimal"

// GetMaximumTrainingDatasetSize returns the ring buffer capacity used for
// ingestion, or the default.
func (c *TrainingConfig) GetMaximumTrainingDatasetSize() int {
	if c == nil || c.MaximumTrainingDatasetSize == nil {
		return 100000
	}
	return *c.MaximumTrainingDatasetSize
}

func (c *TrainingConfig) GetValidationSetFractionalSize() decimal.Decimal {
	if c == nil || c.ValidationSetFractionalSize == nil {
		return mustDecimal("0.1")
	}
	return *c.ValidationSetFractionalSize
}

func (c *TrainingConfig) GetTrainingEpochs() int {
	if c == nil || c.TrainingEpochs == nil {
		return 50
	}
	return *c.TrainingEpochs
}

func (c *TrainingConfig) GetBatchSize() int {
	if c == nil || c.BatchSize == nil {
		return 64
	}
	return *c.BatchSize
}

func (c *TrainingConfig) GetOptimizationEpochsPerHalfCycle() int {
	if c == nil || c.OptimizationEpochsPerHalfCycle == nil {
		return 6
	}
	return *c.OptimizationEpochsPerHalfCycle
}

func (c *TrainingConfig) GetMaximumLearningRate() decimal.Decimal {
	if c == nil || c.MaximumLearningRate == nil {
		return mustDecimal("1e-3")
	}
	return *c.MaximumLearningRate
}

func (c *TrainingConfig) GetMinimumLearningRate() decimal.Decimal {
	if c == nil || c.MinimumLearningRate == nil {
		return mustDecimal("1e-4")
	}
	return *c.MinimumLearningRate
}

func (c *TrainingConfig) GetStatusIntervalInEpochs() int {
	if c == nil || c.StatusIntervalInEpochs == nil {
		return 1
	}
	return *c.StatusIntervalInEpochs
}

func (c *TrainingConfig) GetOutputPath() string {
	if c == nil || c.OutputPath == nil {
		return ""
	}
	return *c.OutputPath
}

func (c *TrainingConfig) GetOutputSuffix() string {
	if c == nil || c.OutputSuffix == nil {
		return ""
	}
	return *c.OutputSuffix
}

func (c *TrainingConfig) GetSaveTrainingArtifacts() bool {
	if c == nil || c.SaveTrainingArtifacts == nil {
		return false
	}
	return *c.SaveTrainingArtifacts
}

// GetPredictAmplitude reports whether object patches carry an amplitude
// channel in addition to phase.
func (c *ModelConfig) GetPredictAmplitude() bool {
	if c == nil || c.PredictAmplitude == nil {
		return true
	}
	return *c.PredictAmplitude
}

func (c *ModelConfig) GetNumberOfConvolutionKernels() int {
	if c == nil || c.NumberOfConvolutionKernels == nil {
		return 16
	}
	return *c.NumberOfConvolutionKernels
}
