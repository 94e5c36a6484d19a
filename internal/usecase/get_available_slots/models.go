package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Options параметры сетки слотов
type Options struct {
	SlotStepMinutes    int // шаг между началами слотов
	AdvanceBookingDays int // 0 = без ограничения
	MinNoticeMinutes   int // минимальный запас до начала слота сегодня
}

// Request модель запроса на получение доступных слотов
type Request struct {
	StationID       int64     // ID станции
	ConnectorType   string    // Тип разъёма
	Date            time.Time // Дата (без времени, в часовом поясе станции)
	DurationMinutes int       // Длительность сессии; 0 = шаг сетки
}

// Response модель ответа со списком слотов
type Response struct {
	Date          time.Time
	StationID     int64
	ConnectorType string
	Slots         []domain.AvailableSlot
}
