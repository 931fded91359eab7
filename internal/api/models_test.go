package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofleet/garage-api/internal/domain"
)

func TestCarToResponseMileageDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    float64
		unit     domain.MileageUnit
		expected string
	}{
		{"groups thousands", 50000.5, domain.MileageUnitKilometers, "50,000.5 Kilometers"},
		{"millions", 1234567.89, domain.MileageUnitMiles, "1,234,567.9 Miles"},
		{"small values have no separator", 950, domain.MileageUnitKilometers, "950.0 Kilometers"},
		{"zero", 0, domain.MileageUnitMiles, "0.0 Miles"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			car := testCar(10, 7)
			car.MileageValue = &tc.value
			car.MileageUnit = &tc.unit

			resp := carToResponse(car)
			require.NotNil(t, resp.Mileage)
			assert.Equal(t, tc.expected, resp.Mileage.Display)
			assert.Equal(t, tc.value, resp.Mileage.Value)
			assert.Equal(t, tc.unit.Code(), resp.Mileage.Unit)
		})
	}
}

func TestCarToResponseOmitsMissingMileage(t *testing.T) {
	t.Parallel()

	car := testCar(10, 7)
	car.MileageValue = nil
	car.MileageUnit = nil

	resp := carToResponse(car)
	assert.Nil(t, resp.Mileage)
}
