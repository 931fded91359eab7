package domain

import (
	"fmt"
	"strings"
)

// MileageUnit identifies the unit a mileage magnitude is expressed in.
type MileageUnit string

// Supported mileage units. The canonical codes are what the API and the
// database exchange; labels are for display only.
const (
	MileageUnitKilometers MileageUnit = "km"
	MileageUnitMiles      MileageUnit = "mi"
)

// kmPerMile is the exact conversion constant: 1 mile = 1.609344 km.
const kmPerMile = 1.609344

// ParseMileageUnit parses a unit code or English word, case-insensitively.
// Accepts "km"/"kilometers" and "mi"/"miles". Any other input returns an
// error wrapping ErrInvalidMileageUnit.
func ParseMileageUnit(s string) (MileageUnit, error) {
	switch strings.ToLower(s) {
	case "km", "kilometers":
		return MileageUnitKilometers, nil
	case "mi", "miles":
		return MileageUnitMiles, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidMileageUnit, s)
	}
}

// Code returns the canonical short code ("km" or "mi").
func (u MileageUnit) Code() string {
	return string(u)
}

// Label returns the human-readable English label.
func (u MileageUnit) Label() string {
	switch u {
	case MileageUnitMiles:
		return "Miles"
	default:
		return "Kilometers"
	}
}

// ConversionFactorToKm returns how many kilometers one unit represents.
func (u MileageUnit) ConversionFactorToKm() float64 {
	switch u {
	case MileageUnitMiles:
		return kmPerMile
	default:
		return 1.0
	}
}

// Valid reports whether u is one of the supported units.
func (u MileageUnit) Valid() bool {
	return u == MileageUnitKilometers || u == MileageUnitMiles
}
