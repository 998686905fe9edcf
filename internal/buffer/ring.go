// Package buffer accumulates training samples in fixed-capacity ring
// buffers. Appending beyond capacity overwrites the oldest sample.
//
// Buffers are not safe for concurrent use; callers serialize Append with
// reads.
package buffer

import (
	"errors"

	"github.com/ptychodus/ptycho/internal/ndarray"
)

var (
	// ErrZeroSized is returned when appending to a zero-sized sentinel.
	ErrZeroSized = errors.New("buffer is zero-sized")
	// ErrShapeMismatch is returned when a sample does not fit the slot shape.
	ErrShapeMismatch = errors.New("sample shape does not match buffer")
)

// ring is the shared slot store. Each slot holds sampleSize float32 values
// laid out in C order with the given sample shape.
type ring struct {
	capacity    int
	sampleShape []int
	sampleSize  int
	data        []float32
	cursor      int // next write position
	wrapped     bool
}

func newRing(capacity int, sampleShape ...int) ring {
	capacity = max(capacity, 0)
	size := ndarray.Size(sampleShape)
	return ring{
		capacity:    capacity,
		sampleShape: append([]int(nil), sampleShape...),
		sampleSize:  size,
		data:        make([]float32, capacity*size),
	}
}

// next returns the slot at the cursor and advances it.
func (r *ring) next() []float32 {
	lo := r.cursor * r.sampleSize
	slot := r.data[lo : lo+r.sampleSize]
	r.cursor = (r.cursor + 1) % r.capacity
	if r.cursor == 0 {
		r.wrapped = true
	}
	return slot
}

func (r *ring) isZeroSized() bool { return r.capacity == 0 }

func (r *ring) len() int {
	if r.wrapped {
		return r.capacity
	}
	return r.cursor
}

func (r *ring) shape(n int) []int {
	return append([]int{n}, r.sampleShape...)
}

// chronological copies the valid samples oldest first.
func (r *ring) chronological() ndarray.Float32Array {
	out := ndarray.New(r.shape(r.len())...)
	if !r.wrapped {
		copy(out.Data, r.data[:r.cursor*r.sampleSize])
		return out
	}
	split := r.cursor * r.sampleSize
	n := copy(out.Data, r.data[split:])
	copy(out.Data[n:], r.data[:split])
	return out
}

// slots copies the valid samples in storage order.
func (r *ring) slots() ndarray.Float32Array {
	out := ndarray.New(r.shape(r.len())...)
	copy(out.Data, r.data)
	return out
}
