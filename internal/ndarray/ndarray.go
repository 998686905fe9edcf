// Package ndarray is a minimal C-ordered float32 N-d array, the in-memory
// form of training-set snapshots and archive members.
package ndarray

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Float32Array is a dense, C-ordered array.
type Float32Array struct {
	Shape []int
	Data  []float32
}

// New allocates a zeroed array with the given shape.
func New(shape ...int) Float32Array {
	return Float32Array{Shape: append([]int(nil), shape...), Data: make([]float32, Size(shape))}
}

// FromData wraps data without copying. It fails when the element count does
// not match shape.
func FromData(data []float32, shape ...int) (Float32Array, error) {
	if n := Size(shape); n != len(data) {
		return Float32Array{}, fmt.Errorf("shape %v needs %d elements, got %d", shape, n, len(data))
	}
	return Float32Array{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Size returns the element count of shape. An empty shape is a scalar.
func Size(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Len returns the extent of the leading dimension.
func (a Float32Array) Len() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return a.Shape[0]
}

// SampleSize returns the element count of one leading-dimension slice.
func (a Float32Array) SampleSize() int {
	if len(a.Shape) == 0 {
		return 0
	}
	return Size(a.Shape[1:])
}

// Sample returns the i-th leading-dimension slice, sharing storage.
func (a Float32Array) Sample(i int) []float32 {
	n := a.SampleSize()
	return a.Data[i*n : (i+1)*n : (i+1)*n]
}

// Stats summarizes the finite elements of a.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Mean  float64
}

// Summarize returns statistics of the finite elements.
func (a Float32Array) Summarize() Stats {
	values := make([]float64, 0, len(a.Data))
	for _, v := range a.Data {
		f := float64(v)
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			values = append(values, f)
		}
	}
	if len(values) == 0 {
		return Stats{}
	}
	return Stats{
		Count: len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Mean:  floats.Sum(values) / float64(len(values)),
	}
}

func (a Float32Array) String() string {
	return fmt.Sprintf("float32%v", a.Shape)
}
