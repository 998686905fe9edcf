package scan

import (
	"fmt"
	"strings"

	"github.com/ptychodus/ptycho/internal/fsutil"
	"github.com/ptychodus/ptycho/internal/monitoring"
	"github.com/ptychodus/ptycho/internal/settings"
)

// Initializer selects one generator by name and realizes it into the Scan.
// The registry always holds Custom, Spiral, Snake, Raster and Lissajous.
type Initializer struct {
	settings   *Settings
	scan       *Scan
	fsys       fsutil.FileSystem
	custom     *Tabular
	generators []Generator
	active     Generator

	observers settings.Observers[string]
	logf      func(format string, v ...interface{})
}

// NewInitializer builds the generator registry and resolves the active
// generator from the Initializer setting. readers are passed to the Custom
// generator.
func NewInitializer(s *Settings, sc *Scan, fsys fsutil.FileSystem, readers ...FileReader) *Initializer {
	custom := NewTabular(s, fsys, readers...)
	in := &Initializer{
		settings: s,
		scan:     sc,
		fsys:     fsys,
		custom:   custom,
		active:   custom,
		logf:     monitoring.Component("ScanInitializer"),
	}
	in.generators = []Generator{custom, NewSpiral(s), NewSnake(s), NewRaster(s), NewLissajous(s)}

	in.SetInitializer(s.Initializer.Value())
	s.Initializer.Subscribe(func(name string) { in.SetInitializer(name) })
	return in
}

// AddGenerator registers g. A generator whose name is already taken is
// logged and ignored.
func (in *Initializer) AddGenerator(g Generator) {
	if in.lookup(g.Name()) != nil {
		in.logf("Generator %q already registered", g.Name())
		return
	}
	in.generators = append(in.generators, g)
}

// GeneratorNames returns the registered generator names.
func (in *Initializer) GeneratorNames() []string {
	out := make([]string, len(in.generators))
	for i, g := range in.generators {
		out[i] = g.Name()
	}
	return out
}

// Active returns the name of the active generator.
func (in *Initializer) Active() string {
	return in.active.Name()
}

// SetInitializer activates the generator matching name, ignoring case.
// Unknown names are logged and leave the active generator unchanged; the
// return value reports whether name resolved.
func (in *Initializer) SetInitializer(name string) bool {
	g := in.lookup(name)
	if g == nil {
		in.logf("Invalid initializer %q", name)
		return false
	}
	in.setActive(g)
	return true
}

// Reinitialize regenerates the scan from the active generator.
func (in *Initializer) Reinitialize() error {
	g := in.active
	points := make([]Point, g.Len())
	for i := range points {
		p, err := g.At(i)
		if err != nil {
			return fmt.Errorf("generate %s scan: %w", g.Name(), err)
		}
		points[i] = p
	}
	in.scan.SetPoints(points)
	return nil
}

// OpenFileFilters lists the filters accepted by OpenScan.
func (in *Initializer) OpenFileFilters() []string {
	return in.custom.FileFilters()
}

// SaveFileFilters lists the filters accepted by SaveScan.
func (in *Initializer) SaveFileFilters() []string {
	return []string{CSVFileFilter}
}

// OpenScan loads path into the Custom generator, makes it active and
// regenerates the scan. An unknown filter is logged and leaves the Custom
// points unchanged, but Custom still becomes active. An unreadable or
// malformed file yields an empty scan.
func (in *Initializer) OpenScan(path, fileFilter string) error {
	in.custom.Open(path, fileFilter)
	in.setActive(in.custom)
	return in.Reinitialize()
}

// SaveScan writes the transformed scan to path.
func (in *Initializer) SaveScan(path, fileFilter string) error {
	if fileFilter != "" && fileFilter != CSVFileFilter {
		return fmt.Errorf("unsupported scan file filter %q", fileFilter)
	}
	return in.scan.WriteFile(in.fsys, path)
}

// Subscribe registers fn to run with the new generator name after the
// active generator changes.
func (in *Initializer) Subscribe(fn func(active string)) (unsubscribe func()) {
	return in.observers.Subscribe(fn)
}

func (in *Initializer) lookup(name string) Generator {
	for _, g := range in.generators {
		if strings.EqualFold(g.Name(), name) {
			return g
		}
	}
	return nil
}

func (in *Initializer) setActive(g Generator) {
	changed := g.Name() != in.active.Name()
	in.active = g
	in.settings.Initializer.Set(g.Name())
	if changed {
		in.observers.Notify(g.Name())
	}
}
