package buffer

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/ptychodus/ptycho/internal/ndarray"
)

// ObjectPatchCircularBuffer stores complex object patches as real channels:
// phase in channel 0 and, with two channels, amplitude in channel 1.
type ObjectPatchCircularBuffer struct {
	ring
}

// NewObjectPatchCircularBuffer returns a buffer of capacity patches of
// channels x height x width. channels must be 1 or 2.
func NewObjectPatchCircularBuffer(capacity, channels, height, width int) (*ObjectPatchCircularBuffer, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("object patch buffer needs 1 or 2 channels, got %d", channels)
	}
	return &ObjectPatchCircularBuffer{ring: newRing(capacity, channels, height, width)}, nil
}

// ZeroSizedObjectPatchBuffer returns the sentinel used before the real
// capacity is known.
func ZeroSizedObjectPatchBuffer() *ObjectPatchCircularBuffer {
	return &ObjectPatchCircularBuffer{ring: newRing(0, 1, 0, 0)}
}

func (b *ObjectPatchCircularBuffer) IsZeroSized() bool { return b.isZeroSized() }
func (b *ObjectPatchCircularBuffer) Capacity() int     { return b.capacity }
func (b *ObjectPatchCircularBuffer) Cursor() int       { return b.cursor }
func (b *ObjectPatchCircularBuffer) Wrapped() bool     { return b.wrapped }
func (b *ObjectPatchCircularBuffer) Channels() int     { return b.sampleShape[0] }

// Len returns the number of valid patches.
func (b *ObjectPatchCircularBuffer) Len() int { return b.len() }

// PatchShape returns (height, width).
func (b *ObjectPatchCircularBuffer) PatchShape() (height, width int) {
	return b.sampleShape[1], b.sampleShape[2]
}

// Append decomposes patch into phase (and amplitude) at the cursor.
func (b *ObjectPatchCircularBuffer) Append(patch mat.CMatrix) error {
	if b.isZeroSized() {
		return ErrZeroSized
	}
	h, w := b.PatchShape()
	if r, c := patch.Dims(); r != h || c != w {
		return fmt.Errorf("object patch %dx%d into %dx%d buffer: %w", r, c, h, w, ErrShapeMismatch)
	}

	slot := b.next()
	plane := h * w
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			z := patch.At(i, j)
			slot[i*w+j] = float32(cmplx.Phase(z))
			if b.Channels() == 2 {
				slot[plane+i*w+j] = float32(cmplx.Abs(z))
			}
		}
	}
	return nil
}

// AppendRaw appends a patch already decomposed into C-ordered channels.
func (b *ObjectPatchCircularBuffer) AppendRaw(patch []float32) error {
	if b.isZeroSized() {
		return ErrZeroSized
	}
	if len(patch) != b.sampleSize {
		return fmt.Errorf("object patch of %d values into slots of %d: %w", len(patch), b.sampleSize, ErrShapeMismatch)
	}
	copy(b.next(), patch)
	return nil
}

// Buffer returns the valid patches, oldest first, shaped
// (n, channels, height, width).
func (b *ObjectPatchCircularBuffer) Buffer() ndarray.Float32Array { return b.chronological() }

// Slots returns the valid patches in storage order.
func (b *ObjectPatchCircularBuffer) Slots() ndarray.Float32Array { return b.slots() }
