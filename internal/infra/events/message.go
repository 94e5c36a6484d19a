package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Message событие в том виде, в котором оно уходит в redis и websocket
type Message struct {
	Type              string         `json:"type"`
	OccurredAt        time.Time      `json:"occurredAt"`
	StationID         int64          `json:"stationId"`
	AvailableChargers int            `json:"availableChargers"`
	TotalChargers     int            `json:"totalChargers"`
	Booking           BookingPayload `json:"booking"`
}

// BookingPayload краткое представление бронирования для подписчиков
type BookingPayload struct {
	ID            string     `json:"id"`
	ChargerID     int        `json:"chargerId"`
	ConnectorType string     `json:"connectorType"`
	Status        string     `json:"status"`
	Queued        bool       `json:"queued"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	EstimatedCost float64    `json:"estimatedCost"`
	ActualCost    *float64   `json:"actualCost,omitempty"`
	ForfeitedCost *float64   `json:"forfeitedCost,omitempty"`
	CancelledAt   *time.Time `json:"cancelledAt,omitempty"`
}

// NewMessage строит сообщение из доменного события
func NewMessage(event domain.BookingEvent) Message {
	msg := Message{
		Type:              string(event.Type),
		OccurredAt:        event.OccurredAt.UTC(),
		AvailableChargers: event.AvailableChargers,
		TotalChargers:     event.TotalChargers,
	}
	if b := event.Booking; b != nil {
		msg.StationID = b.StationID
		msg.Booking = BookingPayload{
			ID:            b.ID,
			ChargerID:     b.ChargerID,
			ConnectorType: string(b.ConnectorType),
			Status:        string(b.Status),
			Queued:        b.Queued,
			StartTime:     b.StartTime.UTC(),
			EndTime:       b.EndTime.UTC(),
			EstimatedCost: b.EstimatedCost,
			ActualCost:    b.ActualCost,
			ForfeitedCost: b.ForfeitedCost,
			CancelledAt:   b.CancelledAt,
		}
	}
	return msg
}

// Encode сериализует событие в JSON
func Encode(event domain.BookingEvent) ([]byte, error) {
	payload, err := json.Marshal(NewMessage(event))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return payload, nil
}

// Decode разбирает сообщение, полученное из канала
func Decode(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("%w: missing event type", ErrDecode)
	}
	return msg, nil
}
