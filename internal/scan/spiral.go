package scan

import (
	"math"

	"github.com/shopspring/decimal"
)

// spiralAngularScale relates radius to polar angle: theta = 4 r.
const spiralAngularScale = 4

// Spiral places point i at radius sqrt(i). It yields ExtentX*ExtentY points
// so that it covers the same sample count as the grid generators.
type Spiral struct {
	settings *Settings
}

// NewSpiral returns a spiral generator.
func NewSpiral(s *Settings) *Spiral {
	return &Spiral{settings: s}
}

func (g *Spiral) Name() string { return "Spiral" }

func (g *Spiral) Len() int {
	return g.settings.pointCount()
}

func (g *Spiral) At(i int) (Point, error) {
	if err := checkIndex(i, g.Len()); err != nil {
		return Point{}, err
	}

	r := math.Sqrt(float64(i))
	theta := spiralAngularScale * r

	return Point{
		X: decimal.NewFromFloat(r * math.Cos(theta)).Mul(g.settings.StepSizeXInMeters.Value()),
		Y: decimal.NewFromFloat(r * math.Sin(theta)).Mul(g.settings.StepSizeYInMeters.Value()),
	}, nil
}
