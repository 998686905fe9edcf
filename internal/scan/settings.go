package scan

import (
	"github.com/shopspring/decimal"

	"github.com/ptychodus/ptycho/internal/config"
	"github.com/ptychodus/ptycho/internal/settings"
)

// GroupName is the settings group holding the scan entries.
const GroupName = "Scan"

// Settings are the observable entries of the Scan group. Generators read
// them at call time.
type Settings struct {
	group *settings.Group

	Initializer          *settings.Entry[string]
	CustomFileType       *settings.Entry[string]
	CustomFilePath       *settings.Entry[string]
	ExtentX              *settings.Entry[int]
	ExtentY              *settings.Entry[int]
	StepSizeXInMeters    *settings.Entry[decimal.Decimal]
	StepSizeYInMeters    *settings.Entry[decimal.Decimal]
	JitterRadiusInPixels *settings.Entry[decimal.Decimal]
	Transform            *settings.Entry[string]

	LissajousAmplitudeXInMeters  *settings.Entry[decimal.Decimal]
	LissajousAmplitudeYInMeters  *settings.Entry[decimal.Decimal]
	LissajousAngularStepXInTurns *settings.Entry[decimal.Decimal]
	LissajousAngularStepYInTurns *settings.Entry[decimal.Decimal]
	LissajousAngularShiftInTurns *settings.Entry[decimal.Decimal]
}

// NewSettings creates the Scan group in reg, seeded from cfg (nil for
// defaults). Call it once per registry.
func NewSettings(reg *settings.Registry, cfg *config.ScanConfig) *Settings {
	g := reg.Group(GroupName)
	return &Settings{
		group:                        g,
		Initializer:                  g.String("Initializer", cfg.GetInitializer()),
		CustomFileType:               g.String("CustomFileType", cfg.GetCustomFileType()),
		CustomFilePath:               g.Path("CustomFilePath", cfg.GetCustomFilePath()),
		ExtentX:                      g.Int("ExtentX", cfg.GetExtentX()),
		ExtentY:                      g.Int("ExtentY", cfg.GetExtentY()),
		StepSizeXInMeters:            g.Decimal("StepSizeXInMeters", cfg.GetStepSizeXInMeters()),
		StepSizeYInMeters:            g.Decimal("StepSizeYInMeters", cfg.GetStepSizeYInMeters()),
		JitterRadiusInPixels:         g.Decimal("JitterRadiusInPixels", cfg.GetJitterRadiusInPixels()),
		Transform:                    g.String("Transform", cfg.GetTransform()),
		LissajousAmplitudeXInMeters:  g.Decimal("LissajousAmplitudeXInMeters", cfg.GetLissajousAmplitudeXInMeters()),
		LissajousAmplitudeYInMeters:  g.Decimal("LissajousAmplitudeYInMeters", cfg.GetLissajousAmplitudeYInMeters()),
		LissajousAngularStepXInTurns: g.Decimal("LissajousAngularStepXInTurns", cfg.GetLissajousAngularStepXInTurns()),
		LissajousAngularStepYInTurns: g.Decimal("LissajousAngularStepYInTurns", cfg.GetLissajousAngularStepYInTurns()),
		LissajousAngularShiftInTurns: g.Decimal("LissajousAngularShiftInTurns", cfg.GetLissajousAngularShiftInTurns()),
	}
}

// Group returns the underlying settings group.
func (s *Settings) Group() *settings.Group {
	return s.group
}

// Subscribe registers fn to run after any scan entry changes.
func (s *Settings) Subscribe(fn func(entry string)) (unsubscribe func()) {
	return s.group.Subscribe(fn)
}

// pointCount is the extent product shared by the index-driven generators.
func (s *Settings) pointCount() int {
	nx, ny := s.ExtentX.Value(), s.ExtentY.Value()
	if nx <= 0 || ny <= 0 {
		return 0
	}
	return nx * ny
}
