package cost

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Estimate стоимость сессии: (минуты / 60) * мощность * тариф.
// Округляется до копеек (2 знака)
func Estimate(durationMinutes, tariffPerUnit, assumedPowerKW float64) (float64, error) {
	if durationMinutes < 0 || tariffPerUnit < 0 || assumedPowerKW < 0 {
		return 0, fmt.Errorf("%w: duration=%v tariff=%v power=%v must not be negative",
			domain.ErrInvalidInput, durationMinutes, tariffPerUnit, assumedPowerKW)
	}
	return round2(durationMinutes / 60 * assumedPowerKW * tariffPerUnit), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Estimator считает стоимость с мощностью по умолчанию для станции
type Estimator struct {
	assumedPowerKW float64
}

// NewEstimator создаёт оценщик. Неположительная мощность заменяется на значение по умолчанию
func NewEstimator(assumedPowerKW float64) *Estimator {
	if assumedPowerKW <= 0 {
		assumedPowerKW = domain.DefaultAssumedPowerKW
	}
	return &Estimator{assumedPowerKW: assumedPowerKW}
}

// AssumedPowerKW мощность по умолчанию
func (e *Estimator) AssumedPowerKW() float64 {
	return e.assumedPowerKW
}

// PowerFor мощность зарядки или значение по умолчанию, если у зарядки она не задана
func (e *Estimator) PowerFor(charger domain.Charger) float64 {
	if charger.PowerKW > 0 {
		return charger.PowerKW
	}
	return e.assumedPowerKW
}

// ForStation стоимость сессии на станции с мощностью по умолчанию
func (e *Estimator) ForStation(durationMinutes int, station *domain.Station) (float64, error) {
	return Estimate(float64(durationMinutes), station.TariffPerUnit, e.assumedPowerKW)
}

// ForCharger стоимость сессии на конкретной зарядке
func (e *Estimator) ForCharger(durationMinutes int, station *domain.Station, charger domain.Charger) (float64, error) {
	return Estimate(float64(durationMinutes), station.TariffPerUnit, e.PowerFor(charger))
}

// SuggestDuration минуты до полного заряда, округлённые вверх до 15 минут
// и ограниченные допустимой длительностью бронирования
func SuggestDuration(vehicle domain.VehicleProfile, powerKW float64) (int, error) {
	if err := vehicle.Validate(); err != nil {
		return 0, err
	}
	if powerKW <= 0 {
		return 0, fmt.Errorf("%w: power must be positive", domain.ErrInvalidInput)
	}

	needKWh := vehicle.BatteryCapacityKWh * (100 - vehicle.CurrentChargePercent) / 100
	minutes := int(math.Ceil(needKWh / powerKW * 60))

	const step = domain.MinDurationMinutes
	if rem := minutes % step; rem != 0 {
		minutes += step - rem
	}
	if minutes < domain.MinDurationMinutes {
		minutes = domain.MinDurationMinutes
	}
	if minutes > domain.MaxDurationMinutes {
		minutes = domain.MaxDurationMinutes
	}
	return minutes, nil
}
