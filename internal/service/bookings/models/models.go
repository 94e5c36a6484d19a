package models

import (
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Request модели

// ListBookingsRequest запрос списка бронирований
type ListBookingsRequest struct {
	Status    *string `json:"status,omitempty"`
	StationID *int64  `json:"stationId,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{StationID: r.StationID}
	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                   string   `json:"id"`
	StationID            int64    `json:"stationId"`
	ChargerID            int      `json:"chargerId"`
	ChargerNumber        string   `json:"chargerNumber"` // "CH-03"
	ConnectorType        string   `json:"connectorType"`
	Mode                 string   `json:"mode"`
	Queued               bool     `json:"queued"`
	BatteryCapacityKWh   float64  `json:"batteryCapacityKwh"`
	CurrentChargePercent float64  `json:"currentChargePercent"`
	StartTime            string   `json:"startTime"` // RFC3339
	EndTime              string   `json:"endTime"`
	DurationMinutes      int      `json:"durationMinutes"`
	Status               string   `json:"status"`
	EstimatedCost        float64  `json:"estimatedCost"`
	ActualCost           *float64 `json:"actualCost,omitempty"`
	ForfeitedCost        *float64 `json:"forfeitedCost,omitempty"`
	Notes                *string  `json:"notes,omitempty"`

	CancelledAt *string   `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                   b.ID,
		StationID:            b.StationID,
		ChargerID:            b.ChargerID,
		ChargerNumber:        domain.Charger{ID: b.ChargerID}.Label(),
		ConnectorType:        string(b.ConnectorType),
		Mode:                 string(b.Mode),
		Queued:               b.Queued,
		BatteryCapacityKWh:   b.Vehicle.BatteryCapacityKWh,
		CurrentChargePercent: b.Vehicle.CurrentChargePercent,
		StartTime:            b.StartTime.Format(time.RFC3339),
		EndTime:              b.EndTime.Format(time.RFC3339),
		DurationMinutes:      b.DurationMinutes(),
		Status:               string(b.Status),
		EstimatedCost:        b.EstimatedCost,
		ActualCost:           b.ActualCost,
		ForfeitedCost:        b.ForfeitedCost,
		Notes:                b.Notes,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}
