package estimate_cost

import (
	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// StationRegistry чтение станции
type StationRegistry interface {
	Get(id int64) (*domain.Station, error)
}

// CostEstimator оценка стоимости
type CostEstimator interface {
	AssumedPowerKW() float64
	ForStation(durationMinutes int, station *domain.Station) (float64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
