package request_booking

import (
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Request модель запроса на бронирование
type Request struct {
	StationID            int64      // ID станции
	ConnectorType        string     // Тип разъёма (например, "CCS2")
	BatteryCapacityKWh   float64    // Ёмкость батареи
	CurrentChargePercent float64    // Текущий заряд, %
	DurationMinutes      int        // Длительность сессии (15-480)
	PreferredStart       *time.Time // nil = ближайшее свободное время
	AllowQueue           bool       // Согласие встать в очередь, если свободных зарядок нет
	Notes                *string
}

// ToDomain конвертирует запрос в domain модель
func (r *Request) ToDomain() *domain.BookingRequest {
	return &domain.BookingRequest{
		StationID:     r.StationID,
		ConnectorType: domain.ConnectorType(r.ConnectorType),
		Vehicle: domain.VehicleProfile{
			BatteryCapacityKWh:   r.BatteryCapacityKWh,
			CurrentChargePercent: r.CurrentChargePercent,
		},
		DurationMinutes: r.DurationMinutes,
		PreferredStart:  r.PreferredStart,
		AllowQueue:      r.AllowQueue,
		Notes:           r.Notes,
	}
}

// Response принятое бронирование
type Response struct {
	Booking           *domain.Booking
	StationName       string
	AvailableChargers int // свободные зарядки станции после бронирования
	TotalChargers     int
}
