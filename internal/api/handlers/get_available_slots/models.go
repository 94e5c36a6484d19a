package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ChargingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date          string          `json:"date"`
	StationID     int64           `json:"stationId"`
	ConnectorType string          `json:"connectorType"`
	Slots         []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime      string  `json:"startTime"` // HH:MM
	EndTime        string  `json:"endTime"`
	Start          string  `json:"start"` // RFC3339
	AvailableSpots int     `json:"availableSpots"`
	TotalSpots     int     `json:"totalSpots"`
	OccupancyRate  float64 `json:"occupancyRate"`
	IsFull         bool    `json:"isFull"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i := range resp.Slots {
		slot := &resp.Slots[i]
		slots[i] = AvailableSlot{
			StartTime:      slot.Start.Format(domain.TimeFormat),
			EndTime:        slot.End.Format(domain.TimeFormat),
			Start:          slot.Start.Format(time.RFC3339),
			AvailableSpots: slot.AvailableSpots,
			TotalSpots:     slot.TotalSpots,
			OccupancyRate:  slot.OccupancyRate(),
			IsFull:         slot.IsFull(),
		}
	}

	return &AvailableSlotsResponse{
		Date:          resp.Date.Format(domain.DateFormat),
		StationID:     resp.StationID,
		ConnectorType: resp.ConnectorType,
		Slots:         slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров.
// Дата трактуется в локальном часовом поясе сервиса
func ToUseCaseRequest(stationID int64, connector, dateStr, durationStr string) (*getAvailableSlots.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.Local)
	if err != nil {
		return nil, err
	}

	duration := 0
	if durationStr != "" {
		duration, err = strconv.Atoi(durationStr)
		if err != nil {
			return nil, err
		}
	}

	return &getAvailableSlots.Request{
		StationID:       stationID,
		ConnectorType:   connector,
		Date:            date,
		DurationMinutes: duration,
	}, nil
}
