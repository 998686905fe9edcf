package config

import "github.com/shopspring/decimal"

// All accessors are safe on a nil *ScanConfig.

// GetInitializer returns the initializer value or the default.
func (c *ScanConfig) GetInitializer() string {
	if c == nil || c.Initializer == nil {
		return "Snake"
	}
	return *c.Initializer
}

// GetCustomFileType returns the custom_file_type value or the default.
func (c *ScanConfig) GetCustomFileType() string {
	if c == nil || c.CustomFileType == nil {
		return "CSV"
	}
	return *c.CustomFileType
}

// GetCustomFilePath returns the custom_file_path value or the default (none).
func (c *ScanConfig) GetCustomFilePath() string {
	if c == nil || c.CustomFilePath == nil {
		return ""
	}
	return *c.CustomFilePath
}

// GetExtentX returns the extent_x value or the default.
func (c *ScanConfig) GetExtentX() int {
	if c == nil || c.ExtentX == nil {
		return 10
	}
	return *c.ExtentX
}

// GetExtentY returns the extent_y value or the default.
func (c *ScanConfig) GetExtentY() int {
	if c == nil || c.ExtentY == nil {
		return 10
	}
	return *c.ExtentY
}

// GetStepSizeXInMeters returns the step_size_x_m value or the default.
func (c *ScanConfig) GetStepSizeXInMeters() decimal.Decimal {
	if c == nil || c.StepSizeXInMeters == nil {
		return mustDecimal("1e-6")
	}
	return *c.StepSizeXInMeters
}

// GetStepSizeYInMeters returns the step_size_y_m value or the default.
func (c *ScanConfig) GetStepSizeYInMeters() decimal.Decimal {
	if c == nil || c.StepSizeYInMeters == nil {
		return mustDecimal("1e-6")
	}
	return *c.StepSizeYInMeters
}

// GetJitterRadiusInPixels returns the jitter_radius_px value or the default.
func (c *ScanConfig) GetJitterRadiusInPixels() decimal.Decimal {
	if c == nil || c.JitterRadiusInPixels == nil {
		return decimal.Zero
	}
	return *c.JitterRadiusInPixels
}

// GetTransform returns the transform value or the default.
func (c *ScanConfig) GetTransform() string {
	if c == nil || c.Transform == nil {
		return "+x+y"
	}
	return *c.Transform
}

func (c *ScanConfig) GetLissajousAmplitudeXInMeters() decimal.Decimal {
	if c == nil || c.LissajousAmplitudeXInMeters == nil {
		return mustDecimal("5e-6")
	}
	return *c.LissajousAmplitudeXInMeters
}

func (c *ScanConfig) GetLissajousAmplitudeYInMeters() decimal.Decimal {
	if c == nil || c.LissajousAmplitudeYInMeters == nil {
		return mustDecimal("5e-6")
	}
	return *c.LissajousAmplitudeYInMeters
}

func (c *ScanConfig) GetLissajousAngularStepXInTurns() decimal.Decimal {
	if c == nil || c.LissajousAngularStepXInTurns == nil {
		return mustDecimal("0.03")
	}
	return *c.LissajousAngularStepXInTurns
}

func (c *ScanConfig) GetLissajousAngularStepYInTurns() decimal.Decimal {
	if c == nil || c.LissajousAngularStepYInTurns == nil {
		return mustDecimal("0.04")
	}
	return *c.LissajousAngularStepYInTurns
}

func (c *ScanConfig) GetLissajousAngularShiftInTurns() decimal.Decimal {
	if c == nil || c.LissajousAngularShiftInTurns == nil {
		return mustDecimal("0.25")
	}
	return *c.LissajousAngularShiftInTurns
}
