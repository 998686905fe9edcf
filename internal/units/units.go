// Package units provides shared constants and validation for length units
// used when presenting scan coordinates. Coordinates are stored in meters.
package units

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unit constants
const (
	Meter      = "m"
	Millimeter = "mm"
	Micrometer = "um"
	Nanometer  = "nm"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Meter, Millimeter, Micrometer, Nanometer}

var exponents = map[string]int32{
	Meter:      0,
	Millimeter: 3,
	Micrometer: 6,
	Nanometer:  9,
}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	_, ok := exponents[unit]
	return ok
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// PerMeter returns how many of unit make one meter. Unknown units are
// treated as meters.
func PerMeter(unit string) float64 {
	return decimal.New(1, exponents[unit]).InexactFloat64()
}

// ConvertLength converts a length in meters to the target unit.
func ConvertLength(meters float64, unit string) float64 {
	return meters * PerMeter(unit)
}

// ConvertDecimal converts an exact length in meters to the target unit.
func ConvertDecimal(meters decimal.Decimal, unit string) decimal.Decimal {
	return meters.Shift(exponents[unit])
}

// Label returns the display symbol for unit, e.g. "µm".
func Label(unit string) string {
	if unit == Micrometer {
		return "µm"
	}
	if !IsValid(unit) {
		return Meter
	}
	return unit
}
