package request_booking

import (
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/service/bookings/models"
	requestBooking "github.com/m04kA/SMC-ChargingService/internal/usecase/request_booking"
)

// RequestBookingRequest HTTP request model
type RequestBookingRequest struct {
	StationID            int64   `json:"stationId"`
	ConnectorType        string  `json:"connectorType"`
	BatteryCapacityKWh   float64 `json:"batteryCapacityKwh"`
	CurrentChargePercent float64 `json:"currentChargePercent"`
	DurationMinutes      int     `json:"durationMinutes"`
	PreferredStart       *string `json:"preferredStart,omitempty"` // RFC3339, пусто = ближайшее свободное
	AllowQueue           bool    `json:"allowQueue,omitempty"`
	Notes                *string `json:"notes,omitempty"`
}

// RequestBookingResponse HTTP response model
type RequestBookingResponse struct {
	*models.BookingResponse
	StationName       string `json:"stationName"`
	AvailableChargers int    `json:"availableChargers"`
	TotalChargers     int    `json:"totalChargers"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом времени начала)
func (r *RequestBookingRequest) ToUseCaseRequest() (*requestBooking.Request, error) {
	req := &requestBooking.Request{
		StationID:            r.StationID,
		ConnectorType:        r.ConnectorType,
		BatteryCapacityKWh:   r.BatteryCapacityKWh,
		CurrentChargePercent: r.CurrentChargePercent,
		DurationMinutes:      r.DurationMinutes,
		AllowQueue:           r.AllowQueue,
		Notes:                r.Notes,
	}

	if r.PreferredStart != nil && *r.PreferredStart != "" {
		start, err := time.Parse(time.RFC3339, *r.PreferredStart)
		if err != nil {
			return nil, err
		}
		req.PreferredStart = &start
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *requestBooking.Response) *RequestBookingResponse {
	return &RequestBookingResponse{
		BookingResponse:   models.FromDomainBooking(resp.Booking),
		StationName:       resp.StationName,
		AvailableChargers: resp.AvailableChargers,
		TotalChargers:     resp.TotalChargers,
	}
}
