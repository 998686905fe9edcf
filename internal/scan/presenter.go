package scan

import (
	"github.com/shopspring/decimal"

	"github.com/ptychodus/ptycho/internal/geometry"
	"github.com/ptychodus/ptycho/internal/settings"
)

// MaxInt bounds the integer limits reported to views.
const MaxInt = 0x7FFFFFFF

// Presenter is the facade used by front ends. It clamps integer settings to
// their limits and fans in change notifications from the settings, the scan
// and the initializer.
type Presenter struct {
	settings    *Settings
	scan        *Scan
	initializer *Initializer

	observers settings.Observers[*Presenter]
	unsub     []func()
}

// NewPresenter wires a presenter to its collaborators. Close releases the
// subscriptions.
func NewPresenter(s *Settings, sc *Scan, in *Initializer) *Presenter {
	p := &Presenter{settings: s, scan: sc, initializer: in}
	p.unsub = []func(){
		s.Subscribe(func(string) { p.observers.Notify(p) }),
		sc.Subscribe(func(*Scan) { p.observers.Notify(p) }),
		in.Subscribe(func(string) { p.observers.Notify(p) }),
	}
	return p
}

// Close removes the presenter's subscriptions.
func (p *Presenter) Close() {
	for _, fn := range p.unsub {
		fn()
	}
	p.unsub = nil
}

// Subscribe registers fn to run after any scan-related change.
func (p *Presenter) Subscribe(fn func(*Presenter)) (unsubscribe func()) {
	return p.observers.Subscribe(fn)
}

func (p *Presenter) OpenFileFilters() []string { return p.initializer.OpenFileFilters() }
func (p *Presenter) SaveFileFilters() []string { return p.initializer.SaveFileFilters() }

func (p *Presenter) OpenScan(path, fileFilter string) error {
	return p.initializer.OpenScan(path, fileFilter)
}

func (p *Presenter) SaveScan(path, fileFilter string) error {
	return p.initializer.SaveScan(path, fileFilter)
}

func (p *Presenter) InitializerNames() []string { return p.initializer.GeneratorNames() }
func (p *Presenter) Initializer() string        { return p.initializer.Active() }

func (p *Presenter) SetInitializer(name string) bool {
	return p.initializer.SetInitializer(name)
}

func (p *Presenter) Reinitialize() error {
	return p.initializer.Reinitialize()
}

// TransformNames returns the display names of all transforms.
func (p *Presenter) TransformNames() []string {
	ts := Transforms()
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.DisplayName()
	}
	return out
}

func (p *Presenter) Transform() string                 { return p.scan.Transform() }
func (p *Presenter) SetTransform(name string)          { p.scan.SetTransform(name) }
func (p *Presenter) Points() []Point                   { return p.scan.Points() }
func (p *Presenter) BoundingBox() *geometry.DecimalBox { return p.scan.BoundingBox() }

func (p *Presenter) NumberOfPointsLimits() geometry.Interval[int] {
	return geometry.NewInterval(0, MaxInt)
}

func (p *Presenter) NumberOfPoints() int {
	return p.NumberOfPointsLimits().Clamp(p.scan.Len())
}

func (p *Presenter) ExtentXLimits() geometry.Interval[int] {
	return geometry.NewInterval(1, MaxInt)
}

func (p *Presenter) ExtentX() int {
	return p.ExtentXLimits().Clamp(p.settings.ExtentX.Value())
}

func (p *Presenter) SetExtentX(v int) {
	p.settings.ExtentX.Set(v)
}

func (p *Presenter) ExtentYLimits() geometry.Interval[int] {
	return geometry.NewInterval(1, MaxInt)
}

func (p *Presenter) ExtentY() int {
	return p.ExtentYLimits().Clamp(p.settings.ExtentY.Value())
}

func (p *Presenter) SetExtentY(v int) {
	p.settings.ExtentY.Set(v)
}

func (p *Presenter) StepSizeXInMeters() decimal.Decimal { return p.settings.StepSizeXInMeters.Value() }
func (p *Presenter) StepSizeYInMeters() decimal.Decimal { return p.settings.StepSizeYInMeters.Value() }

func (p *Presenter) SetStepSizeXInMeters(v decimal.Decimal) { p.settings.StepSizeXInMeters.Set(v) }
func (p *Presenter) SetStepSizeYInMeters(v decimal.Decimal) { p.settings.StepSizeYInMeters.Set(v) }

func (p *Presenter) JitterRadiusInPixels() decimal.Decimal {
	return p.settings.JitterRadiusInPixels.Value()
}

func (p *Presenter) SetJitterRadiusInPixels(v decimal.Decimal) {
	p.settings.JitterRadiusInPixels.Set(v)
}
