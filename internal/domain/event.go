package domain

import "time"

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingStarted   EventType = "booking.started"
	EventBookingCompleted EventType = "booking.completed"
	EventBookingCancelled EventType = "booking.cancelled"
)

// EventTypeFor тип события для статуса, в который перешло бронирование
func EventTypeFor(status BookingStatus) EventType {
	switch status {
	case StatusActive:
		return EventBookingStarted
	case StatusCompleted:
		return EventBookingCompleted
	case StatusCancelled:
		return EventBookingCancelled
	default:
		return EventBookingCreated
	}
}

// BookingEvent событие для подписчиков статуса в реальном времени
type BookingEvent struct {
	Type              EventType
	Booking           *Booking
	AvailableChargers int
	TotalChargers     int
	OccurredAt        time.Time
}

// NewBookingEvent событие по текущему статусу бронирования
func NewBookingEvent(b *Booking, station *Station, at time.Time) BookingEvent {
	ev := BookingEvent{
		Type:       EventTypeFor(b.Status),
		Booking:    b,
		OccurredAt: at,
	}
	if station != nil {
		ev.AvailableChargers = station.AvailableChargers()
		ev.TotalChargers = station.TotalChargers()
	}
	return ev
}
