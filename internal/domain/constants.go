package domain

// Ограничения запроса на бронирование
const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480 // 8 часов
	MaxNotesLength     = 500
)

// Значения по умолчанию
const (
	DefaultAssumedPowerKW       = 30.0
	DefaultSlotStepMinutes      = 30
	DefaultClockIntervalSeconds = 30
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// PendingStatuses статусы, удерживающие зарядку
var PendingStatuses = []BookingStatus{
	StatusUpcoming,
	StatusActive,
}
