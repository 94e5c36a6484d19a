package domain

import (
	"fmt"
	"time"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusUpcoming  BookingStatus = "upcoming"
	StatusActive    BookingStatus = "active"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus валидирует строковый статус
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	switch status {
	case StatusUpcoming, StatusActive, StatusCompleted, StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, s)
	}
}

// BookingMode способ выбора времени
type BookingMode string

const (
	ModeNextAvailable BookingMode = "next_available"
	ModeScheduled     BookingMode = "scheduled"
)

// VehicleProfile параметры автомобиля из формы бронирования
type VehicleProfile struct {
	BatteryCapacityKWh   float64
	CurrentChargePercent float64
}

// Validate проверяет ёмкость и заряд
func (v VehicleProfile) Validate() error {
	if v.BatteryCapacityKWh <= 0 {
		return fmt.Errorf("%w: battery capacity must be positive", ErrInvalidInput)
	}
	if v.CurrentChargePercent < 0 || v.CurrentChargePercent > 100 {
		return fmt.Errorf("%w: current charge must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

// BookingRequest запрос на бронирование.
// PreferredStart == nil означает режим "next available"
type BookingRequest struct {
	StationID       int64
	ConnectorType   ConnectorType
	Vehicle         VehicleProfile
	DurationMinutes int
	PreferredStart  *time.Time
	AllowQueue      bool // для next available: принять слот после ближайшего освобождения
	Notes           *string
}

// Mode режим запроса
func (r *BookingRequest) Mode() BookingMode {
	if r.PreferredStart == nil {
		return ModeNextAvailable
	}
	return ModeScheduled
}

// Duration длительность сессии
func (r *BookingRequest) Duration() time.Duration {
	return time.Duration(r.DurationMinutes) * time.Minute
}

// Validate проверяет запрос без учёта состояния станции
func (r *BookingRequest) Validate() error {
	if r.StationID <= 0 {
		return fmt.Errorf("%w: station id must be positive", ErrInvalidInput)
	}
	if r.ConnectorType == "" {
		return fmt.Errorf("%w: connector type is required", ErrInvalidInput)
	}
	if r.DurationMinutes < MinDurationMinutes || r.DurationMinutes > MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			ErrInvalidInput, MinDurationMinutes, MaxDurationMinutes)
	}
	if err := r.Vehicle.Validate(); err != nil {
		return err
	}
	if r.PreferredStart != nil && r.PreferredStart.IsZero() {
		return fmt.Errorf("%w: preferred start time is malformed", ErrInvalidInput)
	}
	if r.Notes != nil && len(*r.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, MaxNotesLength)
	}
	return nil
}

// Booking принятое бронирование
type Booking struct {
	ID            string
	StationID     int64
	ChargerID     int
	ConnectorType ConnectorType
	Mode          BookingMode
	Queued        bool
	Vehicle       VehicleProfile
	StartTime     time.Time
	EndTime       time.Time
	Status        BookingStatus
	EstimatedCost float64
	ActualCost    *float64 // только после завершения
	ForfeitedCost *float64 // удержано при отмене активной сессии
	Notes         *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DurationMinutes длительность в минутах
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}

// IsPending true для Upcoming и Active: бронь удерживает зарядку
func (b *Booking) IsPending() bool {
	return b.Status == StatusUpcoming || b.Status == StatusActive
}

// CanBeCancelled отменять можно только Upcoming и Active
func (b *Booking) CanBeCancelled() bool {
	return b.IsPending()
}

// IsTerminal true для Completed и Cancelled
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

// Overlaps пересечение полуинтервалов [start, end). Граничащие интервалы не пересекаются
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// Clone копия с независимыми указателями
func (b *Booking) Clone() *Booking {
	out := *b
	if b.ActualCost != nil {
		v := *b.ActualCost
		out.ActualCost = &v
	}
	if b.ForfeitedCost != nil {
		v := *b.ForfeitedCost
		out.ForfeitedCost = &v
	}
	if b.Notes != nil {
		v := *b.Notes
		out.Notes = &v
	}
	if b.CancelledAt != nil {
		v := *b.CancelledAt
		out.CancelledAt = &v
	}
	return &out
}

// BookingsFilter фильтр списка бронирований
type BookingsFilter struct {
	Status    *BookingStatus
	StationID *int64
}

// Match проверяет бронирование на соответствие фильтру
func (f BookingsFilter) Match(b *Booking) bool {
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.StationID != nil && b.StationID != *f.StationID {
		return false
	}
	return true
}
