package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name     string
		minutes  float64
		tariff   float64
		power    float64
		expected float64
	}{
		{name: "one hour", minutes: 60, tariff: 10, power: 30, expected: 300},
		{name: "half hour", minutes: 30, tariff: 10, power: 30, expected: 150},
		{name: "zero duration", minutes: 0, tariff: 10, power: 30, expected: 0},
		{name: "fractional tariff", minutes: 45, tariff: 12.5, power: 30, expected: 281.25},
		{name: "rounded", minutes: 20, tariff: 11, power: 7.4, expected: 27.13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(tt.minutes, tt.tariff, tt.power)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 0.001)
		})
	}
}

func TestEstimate_RejectsNegative(t *testing.T) {
	_, err := Estimate(-1, 10, 30)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = Estimate(60, -10, 30)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = Estimate(60, 10, -30)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEstimator_PowerSelection(t *testing.T) {
	e := NewEstimator(0)
	assert.Equal(t, domain.DefaultAssumedPowerKW, e.AssumedPowerKW())

	station := &domain.Station{TariffPerUnit: 10}

	got, err := e.ForStation(60, station)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, got, 0.001)

	got, err = e.ForCharger(60, station, domain.Charger{PowerKW: 50})
	require.NoError(t, err)
	assert.InDelta(t, 500.0, got, 0.001)

	got, err = e.ForCharger(60, station, domain.Charger{})
	require.NoError(t, err)
	assert.InDelta(t, 300.0, got, 0.001)
}

func TestSuggestDuration(t *testing.T) {
	tests := []struct {
		name     string
		vehicle  domain.VehicleProfile
		power    float64
		expected int
	}{
		{name: "half battery", vehicle: domain.VehicleProfile{BatteryCapacityKWh: 60, CurrentChargePercent: 50}, power: 30, expected: 60},
		{name: "rounded up to step", vehicle: domain.VehicleProfile{BatteryCapacityKWh: 40, CurrentChargePercent: 20}, power: 30, expected: 75},
		{name: "almost full", vehicle: domain.VehicleProfile{BatteryCapacityKWh: 40, CurrentChargePercent: 99}, power: 30, expected: 15},
		{name: "clamped to max", vehicle: domain.VehicleProfile{BatteryCapacityKWh: 100, CurrentChargePercent: 0}, power: 7.4, expected: 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SuggestDuration(tt.vehicle, tt.power)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := SuggestDuration(domain.VehicleProfile{BatteryCapacityKWh: 60}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
