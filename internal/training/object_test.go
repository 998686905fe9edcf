package training

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptychodus/ptycho/internal/scan"
)

func TestObjectArray_PatchAtCenterIsIdentity(t *testing.T) {
	obj := NewObjectArray(4, 5, px(2), px(3), func(r, c int) complex128 {
		return complex(float64(r), float64(c))
	})

	patch, err := obj.Patch(obj.Center, 5, 4)
	require.NoError(t, err)
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			assert.Equal(t, complex(float64(r), float64(c)), patch.At(r, c))
		}
	}
}

func TestObjectArray_IntegerShift(t *testing.T) {
	obj := NewObjectArray(6, 6, px(1), px(1), func(r, c int) complex128 {
		return complex(float64(10*r+c), 0)
	})

	// One pixel right and two pixels down of the center.
	patch, err := obj.Patch(scan.NewPoint(px(1), px(2)), 2, 2)
	require.NoError(t, err)
	// Center of a 6x6 array is 2.5; a 2x2 patch starts 0.5 before it.
	assert.Equal(t, complex(float64(10*4+3), 0), patch.At(0, 0))
	assert.Equal(t, complex(float64(10*5+4), 0), patch.At(1, 1))
}

func TestObjectArray_BilinearHalfPixel(t *testing.T) {
	obj := NewObjectArray(1, 2, px(1), px(1), func(r, c int) complex128 {
		return complex(float64(c*4), 0)
	})

	patch, err := obj.Patch(scan.Point{}, 1, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, real(patch.At(0, 0)), 1e-12)
}

func TestObjectArray_OutsideIsZero(t *testing.T) {
	obj := NewObjectArray(3, 3, px(1), px(1), func(int, int) complex128 { return 1 })

	patch, err := obj.Patch(scan.NewPoint(px(100), px(0)), 2, 2)
	require.NoError(t, err)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			assert.Equal(t, complex128(0), patch.At(r, c))
		}
	}

	// Straddling the right edge: the inner column is kept.
	patch, err = obj.Patch(scan.NewPoint(decimal.RequireFromString("1.5"), px(0)), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, complex128(1), patch.At(0, 0))
	assert.Equal(t, complex128(0), patch.At(0, 1))
}

func TestObjectArray_Errors(t *testing.T) {
	obj := NewObjectArray(2, 2, px(1), px(1), nil)
	_, err := obj.Patch(scan.Point{}, 0, 2)
	assert.Error(t, err)

	obj.PixelWidth = decimal.Zero
	_, err = obj.Patch(scan.Point{}, 1, 1)
	assert.Error(t, err)
}
