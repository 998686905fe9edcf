package scan

import "github.com/shopspring/decimal"

// Generator is an indexable, finite sequence of scan points.
type Generator interface {
	Name() string
	Len() int
	At(i int) (Point, error)
}

// Cartesian walks an ExtentX by ExtentY grid row by row. In snake mode odd
// rows run backwards.
type Cartesian struct {
	settings *Settings
	snake    bool
}

// NewRaster returns a raster generator.
func NewRaster(s *Settings) *Cartesian {
	return &Cartesian{settings: s}
}

// NewSnake returns a snake (boustrophedon) generator.
func NewSnake(s *Settings) *Cartesian {
	return &Cartesian{settings: s, snake: true}
}

func (c *Cartesian) Name() string {
	if c.snake {
		return "Snake"
	}
	return "Raster"
}

func (c *Cartesian) Len() int {
	return c.settings.pointCount()
}

func (c *Cartesian) At(i int) (Point, error) {
	if err := checkIndex(i, c.Len()); err != nil {
		return Point{}, err
	}

	nx := c.settings.ExtentX.Value()
	y, x := i/nx, i%nx
	if c.snake && y&1 == 1 {
		x = nx - 1 - x
	}

	return Point{
		X: decimal.NewFromInt(int64(x)).Mul(c.settings.StepSizeXInMeters.Value()),
		Y: decimal.NewFromInt(int64(y)).Mul(c.settings.StepSizeYInMeters.Value()),
	}, nil
}
