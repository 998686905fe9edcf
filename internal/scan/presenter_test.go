package scan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenter_ClampsExtents(t *testing.T) {
	f := newFixture(t, 3, 2)
	p := NewPresenter(f.settings, f.scan, f.initializer)
	defer p.Close()

	assert.Equal(t, 1, p.ExtentXLimits().Lower)
	assert.Equal(t, MaxInt, p.ExtentXLimits().Upper)

	p.SetExtentX(0)
	assert.Equal(t, 1, p.ExtentX())
	assert.Equal(t, 0, f.settings.ExtentX.Value(), "raw setting is not rewritten")

	p.SetExtentY(-5)
	assert.Equal(t, 1, p.ExtentY())

	p.SetExtentY(7)
	assert.Equal(t, 7, p.ExtentY())
	assert.Equal(t, 0, p.NumberOfPoints())
}

func TestPresenter_FansInNotifications(t *testing.T) {
	f := newFixture(t, 3, 2)
	p := NewPresenter(f.settings, f.scan, f.initializer)

	count := 0
	p.Subscribe(func(*Presenter) { count++ })

	p.SetStepSizeXInMeters(decimal.RequireFromString("2e-6"))
	assert.Equal(t, 1, count, "settings change")

	require.NoError(t, p.Reinitialize())
	assert.Equal(t, 2, count, "scan change")
	assert.Equal(t, 6, p.NumberOfPoints())

	require.True(t, p.SetInitializer("raster"))
	// initializer notification plus the Initializer setting change
	assert.Equal(t, 4, count)

	p.Close()
	p.SetJitterRadiusInPixels(decimal.NewFromInt(2))
	assert.Equal(t, 4, count)
	assert.True(t, p.JitterRadiusInPixels().Equal(decimal.NewFromInt(2)))
}

func TestPresenter_Transforms(t *testing.T) {
	f := newFixture(t, 2, 2)
	p := NewPresenter(f.settings, f.scan, f.initializer)
	defer p.Close()

	names := p.TransformNames()
	require.Len(t, names, 8)
	assert.Equal(t, "(+x, +y)", names[0])
	assert.Equal(t, "(−y, −x)", names[7])

	require.NoError(t, p.Reinitialize())
	p.SetTransform(names[3])
	assert.Equal(t, "(−x, −y)", p.Transform())

	box := p.BoundingBox()
	require.NotNil(t, box)
	x, err := box.At(0)
	require.NoError(t, err)
	assert.True(t, x.Upper.IsZero())
	assert.True(t, x.Lower.Equal(decimal.NewFromInt(-1)))

	assert.Len(t, p.Points(), 4)
	assert.Equal(t, "Snake", p.Initializer())
	assert.Equal(t, f.initializer.GeneratorNames(), p.InitializerNames())
	assert.Equal(t, []string{CSVFileFilter}, p.OpenFileFilters())
	assert.Equal(t, []string{CSVFileFilter}, p.SaveFileFilters())
	assert.True(t, p.StepSizeXInMeters().Equal(decimal.NewFromInt(1)))
	assert.True(t, p.StepSizeYInMeters().Equal(decimal.NewFromInt(1)))
}
