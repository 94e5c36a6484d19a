package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Ledger журнал бронирований
type Ledger interface {
	Get(bookingID string) (*domain.Booking, error)
	List(filter domain.BookingsFilter) []*domain.Booking
	Cancel(ctx context.Context, bookingID string, now time.Time) (*domain.Booking, error)
	AdvanceClock(ctx context.Context, now time.Time) ([]*domain.Booking, error)
}

// StationReader чтение станции для событий и метрик
type StationReader interface {
	Get(id int64) (*domain.Station, error)
}

// BookingArchive журнал бронирований в БД.
// GetByID отдаёт бронирования, которых уже нет в памяти
type BookingArchive interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Save(ctx context.Context, booking *domain.Booking) error
	SaveAll(ctx context.Context, bookings []*domain.Booking) error
}

// EventPublisher публикация событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

// Metrics метрики переходов статусов
type Metrics interface {
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
