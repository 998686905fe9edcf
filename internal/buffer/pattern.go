package buffer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ptychodus/ptycho/internal/ndarray"
)

// PatternCircularBuffer stores raw diffraction intensity frames.
type PatternCircularBuffer struct {
	ring
}

// NewPatternCircularBuffer returns a buffer of capacity frames of
// height x width.
func NewPatternCircularBuffer(capacity, height, width int) *PatternCircularBuffer {
	return &PatternCircularBuffer{ring: newRing(capacity, height, width)}
}

// ZeroSizedPatternBuffer returns the sentinel used before the real capacity
// is known.
func ZeroSizedPatternBuffer() *PatternCircularBuffer {
	return NewPatternCircularBuffer(0, 0, 0)
}

func (b *PatternCircularBuffer) IsZeroSized() bool { return b.isZeroSized() }
func (b *PatternCircularBuffer) Capacity() int     { return b.capacity }
func (b *PatternCircularBuffer) Cursor() int       { return b.cursor }
func (b *PatternCircularBuffer) Wrapped() bool     { return b.wrapped }

// Len returns the number of valid frames.
func (b *PatternCircularBuffer) Len() int { return b.len() }

// FrameShape returns (height, width).
func (b *PatternCircularBuffer) FrameShape() (height, width int) {
	return b.sampleShape[0], b.sampleShape[1]
}

// Append copies frame into the slot at the cursor.
func (b *PatternCircularBuffer) Append(frame mat.Matrix) error {
	if b.isZeroSized() {
		return ErrZeroSized
	}
	h, w := b.FrameShape()
	if r, c := frame.Dims(); r != h || c != w {
		return fmt.Errorf("pattern %dx%d into %dx%d buffer: %w", r, c, h, w, ErrShapeMismatch)
	}

	slot := b.next()
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			slot[i*w+j] = float32(frame.At(i, j))
		}
	}
	return nil
}

// AppendRaw appends a frame already laid out in C order.
func (b *PatternCircularBuffer) AppendRaw(frame []float32) error {
	if b.isZeroSized() {
		return ErrZeroSized
	}
	if len(frame) != b.sampleSize {
		return fmt.Errorf("pattern of %d values into slots of %d: %w", len(frame), b.sampleSize, ErrShapeMismatch)
	}
	copy(b.next(), frame)
	return nil
}

// Buffer returns the valid frames, oldest first, shaped (n, height, width).
func (b *PatternCircularBuffer) Buffer() ndarray.Float32Array { return b.chronological() }

// Slots returns the valid frames in storage order.
func (b *PatternCircularBuffer) Slots() ndarray.Float32Array { return b.slots() }
