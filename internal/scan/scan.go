package scan

import (
	"fmt"
	"io"

	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/geometry"
	"github.com/ptychodus/ptycho/internal/monitoring"
	"github.com/ptychodus/ptycho/internal/settings"
)

// Scan holds the realized, untransformed point list and the active
// transform. Reads apply the transform; the bounding box is kept in
// transformed coordinates.
//
// A Scan is owned by a single goroutine.
type Scan struct {
	settings  *Settings
	points    []Point
	transform Transform
	bbox      *geometry.DecimalBox

	observers settings.Observers[*Scan]
	logf      func(format string, v ...interface{})
}

// New returns an empty scan that follows the Transform setting.
func New(s *Settings) *Scan {
	sc := &Scan{settings: s, logf: monitoring.Component("Scan")}
	sc.syncTransformFromSettings(s.Transform.Value())
	s.Transform.Subscribe(sc.syncTransformFromSettings)
	return sc
}

// Len returns the number of points.
func (sc *Scan) Len() int {
	return len(sc.points)
}

// At returns the transformed point i.
func (sc *Scan) At(i int) (Point, error) {
	if err := checkIndex(i, len(sc.points)); err != nil {
		return Point{}, err
	}
	return sc.transform.Apply(sc.points[i]), nil
}

// Points returns a snapshot of the transformed points.
func (sc *Scan) Points() []Point {
	out := make([]Point, len(sc.points))
	for i, p := range sc.points {
		out[i] = sc.transform.Apply(p)
	}
	return out
}

// SetPoints replaces the point list, recomputes the bounding box and
// notifies subscribers.
func (sc *Scan) SetPoints(points []Point) {
	sc.points = append([]Point(nil), points...)
	sc.updateBoundingBox()
	sc.observers.Notify(sc)
}

// BoundingBox returns a copy of the (x, y) bounding box, or nil when the
// scan is empty.
func (sc *Scan) BoundingBox() *geometry.DecimalBox {
	if sc.bbox == nil {
		return nil
	}
	b := geometry.NewBox(sc.bbox.Intervals()...)
	return &b
}

// Transform returns the display name of the active transform.
func (sc *Scan) Transform() string {
	return sc.transform.DisplayName()
}

// CurrentTransform returns the active transform.
func (sc *Scan) CurrentTransform() Transform {
	return sc.transform
}

// SetTransform selects a transform by display name. Unknown names are
// logged and ignored.
func (sc *Scan) SetTransform(name string) {
	t, err := ParseTransform(name)
	if err != nil {
		sc.logf("%v", err)
		return
	}
	sc.selectTransform(t)
}

// Subscribe registers fn to run after the points or transform change.
func (sc *Scan) Subscribe(fn func(*Scan)) (unsubscribe func()) {
	return sc.observers.Subscribe(fn)
}

// Write serializes the transformed points as "y,x" lines.
func (sc *Scan) Write(w io.Writer) error {
	return WriteCSV(w, sc.Points())
}

// WriteFile writes the scan to path on fsys.
func (sc *Scan) WriteFile(fsys fsutil.FileSystem, path string) error {
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create scan file: %w", err)
	}
	if err := sc.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("write scan file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close scan file %s: %w", path, err)
	}
	return nil
}

func (sc *Scan) selectTransform(t Transform) {
	if t == sc.transform {
		return
	}
	sc.transform = t
	sc.updateBoundingBox()
	sc.settings.Transform.Set(t.SimpleName())
	sc.observers.Notify(sc)
}

func (sc *Scan) syncTransformFromSettings(name string) {
	t, err := ParseTransform(name)
	if err != nil {
		sc.logf("%v", err)
		return
	}
	sc.selectTransform(t)
}

func (sc *Scan) updateBoundingBox() {
	if len(sc.points) == 0 {
		sc.bbox = nil
		return
	}

	first := sc.transform.Apply(sc.points[0])
	x := geometry.NewDecimalInterval(first.X, first.X)
	y := geometry.NewDecimalInterval(first.Y, first.Y)
	for _, p := range sc.points[1:] {
		p = sc.transform.Apply(p)
		x.Hull(p.X)
		y.Hull(p.Y)
	}

	b := geometry.NewBox(x, y)
	sc.bbox = &b
}
