// Package scan generates and holds the ordered sample positions of a
// ptychographic scan.
//
// A Generator maps an index to a Point. The Initializer picks the active
// generator by name and realizes it into a Scan, which applies the selected
// Transform lazily on every read and keeps a bounding box of the result.
package scan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ptychodus/ptycho/internal/geometry"
)

// ErrIndexOutOfRange is returned by generators and Scan for indices outside
// [0, Len()).
var ErrIndexOutOfRange = geometry.ErrIndexOutOfRange

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("malformed scan point")

// ParseError reports a malformed row in a scan file.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scan file line %d: %s", e.Line, e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// Point is a scan position in meters.
type Point struct {
	X decimal.Decimal
	Y decimal.Decimal
}

// NewPoint returns the point (x, y).
func NewPoint(x, y decimal.Decimal) Point {
	return Point{X: x, Y: y}
}

// Equal reports whether both coordinates are numerically equal.
func (p Point) Equal(q Point) bool {
	return p.X.Equal(q.X) && p.Y.Equal(q.Y)
}

// Float64 returns the coordinates as float64 values.
func (p Point) Float64() (x, y float64) {
	return p.X.InexactFloat64(), p.Y.InexactFloat64()
}

func (p Point) String() string {
	return "(" + p.X.String() + ", " + p.Y.String() + ")"
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("scan index %d of %d: %w", i, n, ErrIndexOutOfRange)
	}
	return nil
}
