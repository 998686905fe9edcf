// Package geometry provides closed numeric intervals and N-dimensional boxes.
// Scan extents, bounding boxes and settings limits are expressed with these.
package geometry

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// ErrIndexOutOfRange is returned when a dimension index falls outside a Box.
var ErrIndexOutOfRange = errors.New("index out of range")

// Scalar is the set of builtin numeric types an Interval can hold.
type Scalar interface {
	constraints.Integer | constraints.Float
}

// Interval is the closed range [Lower, Upper]. An interval whose upper bound
// is below its lower bound is empty; that state is allowed and observable via
// IsEmpty.
type Interval[T Scalar] struct {
	Lower T
	Upper T
}

// NewInterval returns the interval [lower, upper].
func NewInterval[T Scalar](lower, upper T) Interval[T] {
	return Interval[T]{Lower: lower, Upper: upper}
}

// IsEmpty reports whether Upper < Lower.
func (iv Interval[T]) IsEmpty() bool {
	return iv.Upper < iv.Lower
}

// Clamp returns max(Lower, min(v, Upper)).
func (iv Interval[T]) Clamp(v T) T {
	return max(iv.Lower, min(v, iv.Upper))
}

// Contains reports whether Lower <= v <= Upper.
func (iv Interval[T]) Contains(v T) bool {
	return iv.Lower <= v && v <= iv.Upper
}

// Hull widens the interval so that it contains v. It never narrows.
func (iv *Interval[T]) Hull(v T) {
	if v < iv.Lower {
		iv.Lower = v
	}
	if v > iv.Upper {
		iv.Upper = v
	}
}

// Length returns Upper - Lower.
func (iv Interval[T]) Length() T {
	return iv.Upper - iv.Lower
}

// Center returns Lower + Length/2. For integer types the halving truncates.
func (iv Interval[T]) Center() T {
	var two T = 2
	return iv.Lower + iv.Length()/two
}

func (iv Interval[T]) String() string {
	return fmt.Sprintf("Interval(%v, %v)", iv.Lower, iv.Upper)
}

// DecimalInterval is the arbitrary-precision counterpart of Interval, used
// for scan extents in meters.
type DecimalInterval struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
}

// NewDecimalInterval returns the interval [lower, upper].
func NewDecimalInterval(lower, upper decimal.Decimal) DecimalInterval {
	return DecimalInterval{Lower: lower, Upper: upper}
}

func (iv DecimalInterval) IsEmpty() bool {
	return iv.Upper.LessThan(iv.Lower)
}

func (iv DecimalInterval) Clamp(v decimal.Decimal) decimal.Decimal {
	return decimal.Max(iv.Lower, decimal.Min(v, iv.Upper))
}

func (iv DecimalInterval) Contains(v decimal.Decimal) bool {
	return iv.Lower.LessThanOrEqual(v) && v.LessThanOrEqual(iv.Upper)
}

func (iv *DecimalInterval) Hull(v decimal.Decimal) {
	if v.LessThan(iv.Lower) {
		iv.Lower = v
	}
	if v.GreaterThan(iv.Upper) {
		iv.Upper = v
	}
}

func (iv DecimalInterval) Length() decimal.Decimal {
	return iv.Upper.Sub(iv.Lower)
}

func (iv DecimalInterval) Center() decimal.Decimal {
	return iv.Lower.Add(iv.Length().Div(decimal.NewFromInt(2)))
}

func (iv DecimalInterval) String() string {
	return fmt.Sprintf("Interval(%s, %s)", iv.Lower, iv.Upper)
}
