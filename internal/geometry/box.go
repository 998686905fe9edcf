package geometry

import "fmt"

// Box is an ordered sequence of intervals, one per dimension. I is normally
// Interval[T] or DecimalInterval.
//
// Box values share their backing storage: a Box returned by Slice refers to
// the same intervals as its parent, and the pointer returned by At can be
// used to widen a dimension in place.
type Box[I any] struct {
	intervals []I
}

// DecimalBox is the bounding-box type used for scan extents.
type DecimalBox = Box[DecimalInterval]

// NewBox returns a box over copies of the given intervals.
func NewBox[I any](intervals ...I) Box[I] {
	b := Box[I]{intervals: make([]I, len(intervals))}
	copy(b.intervals, intervals)
	return b
}

// Len returns the number of dimensions.
func (b Box[I]) Len() int {
	return len(b.intervals)
}

// At returns the interval for dimension i.
func (b Box[I]) At(i int) (*I, error) {
	if i < 0 || i >= len(b.intervals) {
		return nil, fmt.Errorf("box dimension %d of %d: %w", i, len(b.intervals), ErrIndexOutOfRange)
	}
	return &b.intervals[i], nil
}

// Slice returns the box made of dimensions [lo, hi).
func (b Box[I]) Slice(lo, hi int) (Box[I], error) {
	if lo < 0 || hi > len(b.intervals) || lo > hi {
		return Box[I]{}, fmt.Errorf("box slice [%d:%d] of %d: %w", lo, hi, len(b.intervals), ErrIndexOutOfRange)
	}
	return Box[I]{intervals: b.intervals[lo:hi:hi]}, nil
}

// Intervals returns a copy of the dimension intervals.
func (b Box[I]) Intervals() []I {
	out := make([]I, len(b.intervals))
	copy(out, b.intervals)
	return out
}
