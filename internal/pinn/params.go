// Package pinn holds the PtychoPINN model parameters as an immutable value.
// Derived sizes are computed on demand.
package pinn

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ptychodus/ptycho/internal/config"
)

// DataSources lists the accepted data_source values.
var DataSources = []string{"lines", "grf", "experimental", "points", "testimg", "diagonals", "xpp", "V", "generic"}

// Params configures a PtychoPINN model and its training.
type Params struct {
	N                 int
	Offset            int
	GridSize          int
	BatchSize         int
	NEpochs           int
	NFiltersScale     int
	MaxPositionJitter int
	LearningRate      float64
	NPhotons          float64
	ProbeScale        float64

	ProbeTrainable          bool
	IntensityScaleTrainable bool
	ObjectBig               bool
	ProbeBig                bool
	ProbeMask               bool

	ModelType     string
	Size          int
	AmpActivation string
	DataSource    string
	OutputPrefix  string

	MAEWeight          float64
	NLLWeight          float64
	TVWeight           float64
	RealspaceMAEWeight float64
	RealspaceWeight    float64
}

// Defaults returns the stock parameters.
func Defaults() Params {
	return Params{
		N:                 64,
		Offset:            4,
		GridSize:          2,
		BatchSize:         16,
		NEpochs:           60,
		NFiltersScale:     2,
		MaxPositionJitter: 10,
		LearningRate:      1e-3,
		NPhotons:          1e9,
		ProbeScale:        10,
		ObjectBig:         true,
		ProbeMask:         true,
		ModelType:         "pinn",
		Size:              392,
		AmpActivation:     "sigmoid",
		DataSource:        "lines",
		OutputPrefix:      "outputs",
		NLLWeight:         1,
	}
}

// FromConfig overlays the pinn config section on Defaults and validates
// the result.
func FromConfig(c *config.PINNConfig) (Params, error) {
	p := Defaults()
	if c != nil {
		p.N = config.ValueOr(c.N, p.N)
		p.Offset = config.ValueOr(c.Offset, p.Offset)
		p.GridSize = config.ValueOr(c.GridSize, p.GridSize)
		p.BatchSize = config.ValueOr(c.BatchSize, p.BatchSize)
		p.NEpochs = config.ValueOr(c.NEpochs, p.NEpochs)
		p.NFiltersScale = config.ValueOr(c.NFiltersScale, p.NFiltersScale)
		p.MaxPositionJitter = config.ValueOr(c.MaxPositionJitter, p.MaxPositionJitter)
		p.LearningRate = config.ValueOr(c.LearningRate, p.LearningRate)
		p.NPhotons = config.ValueOr(c.NPhotons, p.NPhotons)
		p.ProbeScale = config.ValueOr(c.ProbeScale, p.ProbeScale)
		p.ProbeTrainable = config.ValueOr(c.ProbeTrainable, p.ProbeTrainable)
		p.IntensityScaleTrainable = config.ValueOr(c.IntensityScaleTrainable, p.IntensityScaleTrainable)
		p.ObjectBig = config.ValueOr(c.ObjectBig, p.ObjectBig)
		p.ProbeBig = config.ValueOr(c.ProbeBig, p.ProbeBig)
		p.ProbeMask = config.ValueOr(c.ProbeMask, p.ProbeMask)
		p.ModelType = config.ValueOr(c.ModelType, p.ModelType)
		p.Size = config.ValueOr(c.Size, p.Size)
		p.AmpActivation = config.ValueOr(c.AmpActivation, p.AmpActivation)
		p.DataSource = config.ValueOr(c.DataSource, p.DataSource)
		p.OutputPrefix = config.ValueOr(c.OutputPrefix, p.OutputPrefix)
		p.MAEWeight = config.ValueOr(c.MAEWeight, p.MAEWeight)
		p.NLLWeight = config.ValueOr(c.NLLWeight, p.NLLWeight)
		p.TVWeight = config.ValueOr(c.TVWeight, p.TVWeight)
		p.RealspaceMAEWeight = config.ValueOr(c.RealspaceMAEWeight, p.RealspaceMAEWeight)
		p.RealspaceWeight = config.ValueOr(c.RealspaceWeight, p.RealspaceWeight)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// BigN is the solution region covering a gridsize x gridsize group:
// N + (gridsize-1)*offset.
func (p Params) BigN() int {
	return p.N + (p.GridSize-1)*p.Offset
}

// PaddingSize is (gridsize-1)*offset + max_position_jitter.
func (p Params) PaddingSize() int {
	return (p.GridSize-1)*p.Offset + p.MaxPositionJitter
}

// PaddedSize is BigN + max_position_jitter.
func (p Params) PaddedSize() int {
	return p.BigN() + p.MaxPositionJitter
}

// Validate reports every invalid parameter.
func (p Params) Validate() error {
	var errs []error
	if p.N < 1 {
		errs = append(errs, fmt.Errorf("N must be positive, got %d", p.N))
	}
	if p.GridSize < 1 {
		errs = append(errs, fmt.Errorf("gridsize must be positive, got %d", p.GridSize))
	}
	if p.Offset < 0 || p.MaxPositionJitter < 0 {
		errs = append(errs, fmt.Errorf("offset and max_position_jitter must be non-negative"))
	}
	if p.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", p.BatchSize))
	}
	if !slices.Contains(DataSources, p.DataSource) {
		errs = append(errs, fmt.Errorf("invalid data source %q, must be one of %v", p.DataSource, DataSources))
	}
	if p.RealspaceMAEWeight > 0 && p.RealspaceWeight <= 0 {
		errs = append(errs, fmt.Errorf("realspace_mae_weight %g requires a positive realspace_weight", p.RealspaceMAEWeight))
	}
	return errors.Join(errs...)
}
