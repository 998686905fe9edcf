package training

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"

	"github.com/ptychodus/ptycho/internal/scan"
)

// ObjectArray is a complex object sampled on a regular grid. Center is the
// scan position of the middle of the array. Samples outside the array are
// zero.
type ObjectArray struct {
	Array       *mat.CDense
	PixelWidth  decimal.Decimal
	PixelHeight decimal.Decimal
	Center      scan.Point
}

// NewObjectArray returns an object of rows x cols pixels filled by fn.
func NewObjectArray(rows, cols int, pixelWidth, pixelHeight decimal.Decimal, fn func(r, c int) complex128) *ObjectArray {
	a := mat.NewCDense(rows, cols, nil)
	if fn != nil {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				a.Set(r, c, fn(r, c))
			}
		}
	}
	return &ObjectArray{Array: a, PixelWidth: pixelWidth, PixelHeight: pixelHeight}
}

// Patch bilinearly interpolates a width x height patch centered on center.
func (o *ObjectArray) Patch(center scan.Point, width, height int) (*mat.CDense, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("patch size %dx%d must be positive", width, height)
	}
	if !o.PixelWidth.IsPositive() || !o.PixelHeight.IsPositive() {
		return nil, fmt.Errorf("object pixel size %sx%s must be positive", o.PixelWidth, o.PixelHeight)
	}

	rows, cols := o.Array.Dims()
	// Offsets in object pixels between the patch and object centers.
	dc := center.X.Sub(o.Center.X).Div(o.PixelWidth).InexactFloat64()
	dr := center.Y.Sub(o.Center.Y).Div(o.PixelHeight).InexactFloat64()

	c0 := dc + float64(cols-1)/2 - float64(width-1)/2
	r0 := dr + float64(rows-1)/2 - float64(height-1)/2

	patch := mat.NewCDense(height, width, nil)
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			patch.Set(i, j, o.sample(r0+float64(i), c0+float64(j)))
		}
	}
	return patch, nil
}

func (o *ObjectArray) sample(r, c float64) complex128 {
	rows, cols := o.Array.Dims()
	rf, cf := math.Floor(r), math.Floor(c)
	fr, fc := r-rf, c-cf
	ri, ci := int(rf), int(cf)

	var v complex128
	add := func(i, j int, w float64) {
		if w == 0 || i < 0 || i >= rows || j < 0 || j >= cols {
			return
		}
		v += complex(w, 0) * o.Array.At(i, j)
	}
	add(ri, ci, (1-fr)*(1-fc))
	add(ri, ci+1, (1-fr)*fc)
	add(ri+1, ci, fr*(1-fc))
	add(ri+1, ci+1, fr*fc)
	return v
}
