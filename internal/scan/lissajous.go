package scan

import (
	"math"

	"github.com/shopspring/decimal"
)

// Lissajous traces
//
//	x = Ax sin(2π ωx i + 2π φ)
//	y = Ay sin(2π ωy i)
//
// with amplitudes in meters and angular steps and shift in turns. It yields
// ExtentX*ExtentY points.
type Lissajous struct {
	settings *Settings
}

// NewLissajous returns a Lissajous generator.
func NewLissajous(s *Settings) *Lissajous {
	return &Lissajous{settings: s}
}

func (g *Lissajous) Name() string { return "Lissajous" }

func (g *Lissajous) Len() int {
	return g.settings.pointCount()
}

func (g *Lissajous) At(i int) (Point, error) {
	if err := checkIndex(i, g.Len()); err != nil {
		return Point{}, err
	}

	s := g.settings
	t := float64(i)
	thetaX := 2 * math.Pi * (s.LissajousAngularStepXInTurns.Value().InexactFloat64()*t +
		s.LissajousAngularShiftInTurns.Value().InexactFloat64())
	thetaY := 2 * math.Pi * s.LissajousAngularStepYInTurns.Value().InexactFloat64() * t

	return Point{
		X: s.LissajousAmplitudeXInMeters.Value().Mul(decimal.NewFromFloat(math.Sin(thetaX))),
		Y: s.LissajousAmplitudeYInMeters.Value().Mul(decimal.NewFromFloat(math.Sin(thetaY))),
	}, nil
}
