package domain

import (
	"fmt"
	"math"
)

// mileageEqualityToleranceKm is the tolerance, in kilometers, under which
// two mileages are considered equal. Two values within one meter of each
// other represent the same physical distance for our purposes.
const mileageEqualityToleranceKm = 0.001

// Mileage is an immutable unit-tagged distance. Transformations return a
// new value; the zero magnitude is valid, negative magnitudes are not.
type Mileage struct {
	Value float64     `json:"value"`
	Unit  MileageUnit `json:"unit"`
}

// NewMileage constructs a Mileage, rejecting negative or non-finite
// magnitudes with an error wrapping ErrInvalidMileage.
func NewMileage(value float64, unit MileageUnit) (Mileage, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Mileage{}, fmt.Errorf("%w: value must be finite", ErrInvalidMileage)
	}
	if value < 0 {
		return Mileage{}, fmt.Errorf("%w: value cannot be negative", ErrInvalidMileage)
	}
	if !unit.Valid() {
		return Mileage{}, fmt.Errorf("%w: %s", ErrInvalidMileageUnit, unit)
	}
	return Mileage{Value: value, Unit: unit}, nil
}

// ConvertTo returns the mileage expressed in the target unit.
// Conversion to the same unit returns the value untouched, so a
// same-unit round trip never accumulates floating point error.
// Cross-unit conversion pivots through kilometers: multiply by the
// source factor, then divide by the target factor.
func (m Mileage) ConvertTo(target MileageUnit) Mileage {
	if m.Unit == target {
		return m
	}

	kmValue := m.Value * m.Unit.ConversionFactorToKm()
	return Mileage{
		Value: kmValue / target.ConversionFactorToKm(),
		Unit:  target,
	}
}

// ToKilometers returns the magnitude expressed in kilometers.
func (m Mileage) ToKilometers() float64 {
	return m.ConvertTo(MileageUnitKilometers).Value
}

// ToMiles returns the magnitude expressed in miles.
func (m Mileage) ToMiles() float64 {
	return m.ConvertTo(MileageUnitMiles).Value
}

// Equals reports whether both mileages describe the same physical
// distance within mileageEqualityToleranceKm. This is deliberately a
// tolerance comparison, not structural equality: 100 km equals
// 62.137 mi.
func (m Mileage) Equals(other Mileage) bool {
	return math.Abs(m.ToKilometers()-other.ToKilometers()) < mileageEqualityToleranceKm
}

// String renders the canonical display form: the magnitude with exactly
// two decimal places followed by the unit code, e.g. "50000.50 km".
func (m Mileage) String() string {
	return fmt.Sprintf("%.2f %s", m.Value, m.Unit.Code())
}

// MileageDetail is the denormalized, read-optimized serialization of a
// Mileage: it carries both unit projections so API consumers never need
// a second conversion call.
type MileageDetail struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Display    string  `json:"display"`
	Kilometers float64 `json:"kilometers"`
	Miles      float64 `json:"miles"`
}

// Detail returns the full serialized form of the mileage.
func (m Mileage) Detail() MileageDetail {
	return MileageDetail{
		Value:      m.Value,
		Unit:       m.Unit.Code(),
		Display:    m.String(),
		Kilometers: m.ToKilometers(),
		Miles:      m.ToMiles(),
	}
}
