package request_booking

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

// Ledger журнал бронирований
type Ledger interface {
	Pending(h *registry.Handle) []*domain.Booking
	Accept(h *registry.Handle, req *domain.BookingRequest, d *domain.Decision, now time.Time) (*domain.Booking, error)
}

// Clock продвигает статусы бронирований
type Clock interface {
	Refresh(ctx context.Context) error
}

// BookingArchive журнал бронирований в БД
type BookingArchive interface {
	Save(ctx context.Context, booking *domain.Booking) error
}

// EventPublisher публикация событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// Metrics метрики запросов на бронирование
type Metrics interface {
	BookingRequested(outcome string)
	BookingTransition(status string)
	SetAvailableChargers(stationID int64, available int)
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
