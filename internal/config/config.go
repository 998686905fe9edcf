package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/ptycho.defaults.json"

// Config is the root configuration file schema. Every field is optional:
// nil sections and nil fields fall back to the defaults returned by the Get*
// accessors, so partial files are safe.
type Config struct {
	Scan     *ScanConfig     `json:"scan,omitempty"`
	Training *TrainingConfig `json:"training,omitempty"`
	Model    *ModelConfig    `json:"model,omitempty"`
	PINN     *PINNConfig     `json:"pinn,omitempty"`
}

// ScanConfig seeds the Scan settings group.
type ScanConfig struct {
	Initializer          *string          `json:"initializer,omitempty"`
	CustomFileType       *string          `json:"custom_file_type,omitempty"`
	CustomFilePath       *string          `json:"custom_file_path,omitempty"`
	ExtentX              *int             `json:"extent_x,omitempty"`
	ExtentY              *int             `json:"extent_y,omitempty"`
	StepSizeXInMeters    *decimal.Decimal `json:"step_size_x_m,omitempty"`
	StepSizeYInMeters    *decimal.Decimal `json:"step_size_y_m,omitempty"`
	JitterRadiusInPixels *decimal.Decimal `json:"jitter_radius_px,omitempty"`
	Transform            *string          `json:"transform,omitempty"`

	LissajousAmplitudeXInMeters  *decimal.Decimal `json:"lissajous_amplitude_x_m,omitempty"`
	LissajousAmplitudeYInMeters  *decimal.Decimal `json:"lissajous_amplitude_y_m,omitempty"`
	LissajousAngularStepXInTurns *decimal.Decimal `json:"lissajous_angular_step_x_turns,omitempty"`
	LissajousAngularStepYInTurns *decimal.Decimal `json:"lissajous_angular_step_y_turns,omitempty"`
	LissajousAngularShiftInTurns *decimal.Decimal `json:"lissajous_angular_shift_turns,omitempty"`
}

// TrainingConfig seeds the Training settings group.
type TrainingConfig struct {
	MaximumTrainingDatasetSize     *int             `json:"maximum_training_dataset_size,omitempty"`
	ValidationSetFractionalSize    *decimal.Decimal `json:"validation_set_fractional_size,omitempty"`
	TrainingEpochs                 *int             `json:"training_epochs,omitempty"`
	BatchSize                      *int             `json:"batch_size,omitempty"`
	OptimizationEpochsPerHalfCycle *int             `json:"optimization_epochs_per_half_cycle,omitempty"`
	MaximumLearningRate            *decimal.Decimal `json:"maximum_learning_rate,omitempty"`
	MinimumLearningRate            *decimal.Decimal `json:"minimum_learning_rate,omitempty"`
	StatusIntervalInEpochs         *int             `json:"status_interval_epochs,omitempty"`
	OutputPath                     *string          `json:"output_path,omitempty"`
	OutputSuffix                   *string          `json:"output_suffix,omitempty"`
	SaveTrainingArtifacts          *bool            `json:"save_training_artifacts,omitempty"`
}

// ModelConfig seeds the Model settings group.
type ModelConfig struct {
	PredictAmplitude           *bool `json:"predict_amplitude,omitempty"`
	NumberOfConvolutionKernels *int  `json:"number_of_convolution_kernels,omitempty"`
}

// PINNConfig overrides the PtychoPINN model parameters. Defaults live with
// the parameters themselves (internal/pinn).
type PINNConfig struct {
	N                       *int     `json:"n,omitempty"`
	Offset                  *int     `json:"offset,omitempty"`
	GridSize                *int     `json:"gridsize,omitempty"`
	BatchSize               *int     `json:"batch_size,omitempty"`
	NEpochs                 *int     `json:"nepochs,omitempty"`
	NFiltersScale           *int     `json:"n_filters_scale,omitempty"`
	MaxPositionJitter       *int     `json:"max_position_jitter,omitempty"`
	LearningRate            *float64 `json:"learning_rate,omitempty"`
	NPhotons                *float64 `json:"nphotons,omitempty"`
	ProbeScale              *float64 `json:"probe_scale,omitempty"`
	ProbeTrainable          *bool    `json:"probe_trainable,omitempty"`
	IntensityScaleTrainable *bool    `json:"intensity_scale_trainable,omitempty"`
	ObjectBig               *bool    `json:"object_big,omitempty"`
	ProbeBig                *bool    `json:"probe_big,omitempty"`
	ProbeMask               *bool    `json:"probe_mask,omitempty"`
	ModelType               *string  `json:"model_type,omitempty"`
	Size                    *int     `json:"size,omitempty"`
	AmpActivation           *string  `json:"amp_activation,omitempty"`
	DataSource              *string  `json:"data_source,omitempty"`
	MAEWeight               *float64 `json:"mae_weight,omitempty"`
	NLLWeight               *float64 `json:"nll_weight,omitempty"`
	TVWeight                *float64 `json:"tv_weight,omitempty"`
	RealspaceMAEWeight      *float64 `json:"realspace_mae_weight,omitempty"`
	RealspaceWeight         *float64 `json:"realspace_weight,omitempty"`
	OutputPrefix            *string  `json:"output_prefix,omitempty"`
}

// ValueOr returns *p, or def when p is nil.
func ValueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// LoadConfig loads a Config from a JSON or YAML file.
// The file must have a .json, .yaml or .yml extension and be under 1MB.
// YAML files are decoded generically and re-encoded as JSON so both formats
// share the json tags above.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if ext != ".json" {
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert config YAML: %w", err)
		}
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *Config {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if s := c.Scan; s != nil {
		if s.ExtentX != nil && *s.ExtentX < 1 {
			return fmt.Errorf("scan.extent_x must be at least 1, got %d", *s.ExtentX)
		}
		if s.ExtentY != nil && *s.ExtentY < 1 {
			return fmt.Errorf("scan.extent_y must be at least 1, got %d", *s.ExtentY)
		}
		if s.JitterRadiusInPixels != nil && s.JitterRadiusInPixels.IsNegative() {
			return fmt.Errorf("scan.jitter_radius_px must be non-negative, got %s", s.JitterRadiusInPixels)
		}
	}

	if tr := c.Training; tr != nil {
		if tr.MaximumTrainingDatasetSize != nil && *tr.MaximumTrainingDatasetSize < 0 {
			return fmt.Errorf("training.maximum_training_dataset_size must be non-negative, got %d", *tr.MaximumTrainingDatasetSize)
		}
		if f := tr.ValidationSetFractionalSize; f != nil {
			if f.IsNegative() || f.GreaterThanOrEqual(decimal.NewFromInt(1)) {
				return fmt.Errorf("training.validation_set_fractional_size must be in [0, 1), got %s", f)
			}
		}
		if tr.BatchSize != nil && *tr.BatchSize < 1 {
			return fmt.Errorf("training.batch_size must be at least 1, got %d", *tr.BatchSize)
		}
	}

	if m := c.Model; m != nil {
		if m.NumberOfConvolutionKernels != nil && *m.NumberOfConvolutionKernels < 1 {
			return fmt.Errorf("model.number_of_convolution_kernels must be at least 1, got %d", *m.NumberOfConvolutionKernels)
		}
	}

	return nil
}

// ScanSection returns the scan section, which may be nil.
func (c *Config) ScanSection() *ScanConfig {
	if c == nil {
		return nil
	}
	return c.Scan
}

// TrainingSection returns the training section, which may be nil.
func (c *Config) TrainingSection() *TrainingConfig {
	if c == nil {
		return nil
	}
	return c.Training
}

// ModelSection returns the model section, which may be nil.
func (c *Config) ModelSection() *ModelConfig {
	if c == nil {
		return nil
	}
	return c.Model
}

// PINNSection returns the PtychoPINN section, which may be nil.
func (c *Config) PINNSection() *PINNConfig {
	if c == nil {
		return nil
	}
	return c.PINN
}
