// Package units provides the speed units used when reporting hip velocity in
// physical terms.
package units

import "strings"

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertSpeed converts a speed in metres per second to the target units.
// Unknown units leave the value in m/s.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * 2.2369362920544
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// FromDetector converts a speed in detector distance units per second to the
// target units, given the size of one detector unit in metres. With no scale
// (metresPerUnit <= 0) the value is returned unchanged and ok is false.
func FromDetector(unitsPerSecond, metresPerUnit float64, targetUnits string) (speed float64, ok bool) {
	if metresPerUnit <= 0 {
		return unitsPerSecond, false
	}
	return ConvertSpeed(unitsPerSecond*metresPerUnit, targetUnits), true
}
