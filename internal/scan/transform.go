package scan

import (
	"fmt"
	"strings"
)

// Transform is one of the eight reflect/swap operations applied to every
// point of a scan. Bit 0 negates x, bit 1 negates y and bit 2 swaps the
// axes. Negation happens before the swap.
type Transform uint8

const (
	PXPY Transform = iota // (+x, +y)
	MXPY                  // (−x, +y)
	PXMY                  // (+x, −y)
	MXMY                  // (−x, −y)
	PYPX                  // (+y, +x)
	PYMX                  // (+y, −x)
	MYPX                  // (−y, +x)
	MYMX                  // (−y, −x)
)

// Transforms returns all transforms in declaration order.
func Transforms() []Transform {
	return []Transform{PXPY, MXPY, PXMY, MXMY, PYPX, PYMX, MYPX, MYMX}
}

func (t Transform) NegateX() bool { return t&1 != 0 }
func (t Transform) NegateY() bool { return t&2 != 0 }
func (t Transform) SwapXY() bool  { return t&4 != 0 }

// SimpleName returns the short name, e.g. "+x+y" or "-y+x".
func (t Transform) SimpleName() string {
	return t.name("-", "+", "%s%s")
}

// DisplayName returns the name shown to users, e.g. "(+x, +y)" or "(−y, +x)".
func (t Transform) DisplayName() string {
	return t.name("−", "+", "(%s, %s)")
}

func (t Transform) name(minus, plus, layout string) string {
	xp, yp := plus+"x", plus+"y"
	if t.NegateX() {
		xp = minus + "x"
	}
	if t.NegateY() {
		yp = minus + "y"
	}
	if t.SwapXY() {
		return fmt.Sprintf(layout, yp, xp)
	}
	return fmt.Sprintf(layout, xp, yp)
}

func (t Transform) String() string {
	return t.SimpleName()
}

// Apply returns the transformed point.
func (t Transform) Apply(p Point) Point {
	x, y := p.X, p.Y
	if t.NegateX() {
		x = x.Neg()
	}
	if t.NegateY() {
		y = y.Neg()
	}
	if t.SwapXY() {
		return Point{X: y, Y: x}
	}
	return Point{X: x, Y: y}
}

// Inverse returns the transform that undoes t. Transforms without a swap
// are their own inverse; swapping transforms exchange their negation bits.
func (t Transform) Inverse() Transform {
	if !t.SwapXY() {
		return t
	}
	inv := Transform(4)
	if t.NegateX() {
		inv |= 2
	}
	if t.NegateY() {
		inv |= 1
	}
	return inv
}

// ParseTransform resolves a simple or display name, ignoring case, spaces
// and the choice of minus sign.
func ParseTransform(name string) (Transform, error) {
	key := normalizeTransformName(name)
	for _, t := range Transforms() {
		if key == t.SimpleName() {
			return t, nil
		}
	}
	return PXPY, fmt.Errorf("unknown scan transform %q", name)
}

func normalizeTransformName(name string) string {
	return strings.NewReplacer("−", "-", "(", "", ")", "", ",", "", " ", "").
		Replace(strings.ToLower(strings.TrimSpace(name)))
}
