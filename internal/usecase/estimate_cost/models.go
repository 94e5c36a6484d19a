package estimate_cost

// Request модель запроса оценки стоимости
type Request struct {
	StationID       int64
	DurationMinutes int

	// Параметры автомобиля для подсказки длительности (опционально)
	BatteryCapacityKWh   *float64
	CurrentChargePercent *float64
}

// Response оценка стоимости сессии
type Response struct {
	StationID        int64
	DurationMinutes  int
	TariffPerUnit    float64
	AssumedPowerKW   float64
	EstimatedEnergy  float64 // кВт·ч
	EstimatedCost    float64
	SuggestedMinutes *int // минуты до полного заряда, если передан профиль автомобиля
}
