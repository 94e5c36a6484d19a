package stations

import (
	"context"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// StationRegistry реестр станций
type StationRegistry interface {
	Get(id int64) (*domain.Station, error)
	List(filter domain.StationFilter) []*domain.Station
}

// Clock продвигает статусы бронирований перед чтением занятости
type Clock interface {
	Refresh(ctx context.Context) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
