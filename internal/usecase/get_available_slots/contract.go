package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/registry"
)

// StationLocker критическая секция станции
type StationLocker interface {
	WithStation(ctx context.Context, id int64, fn func(h *registry.Handle) error) error
}

// Ledger незавершённые бронирования станции
type Ledger interface {
	Pending(h *registry.Handle) []*domain.Booking
}

// Clock продвигает статусы бронирований
type Clock interface {
	Refresh(ctx context.Context) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
