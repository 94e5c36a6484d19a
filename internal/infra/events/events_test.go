package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

type recordingHub struct {
	payloads [][]byte
}

func (h *recordingHub) Broadcast(payload []byte) {
	h.payloads = append(h.payloads, payload)
}

type recordingMetrics struct {
	published map[string]int
}

func (m *recordingMetrics) EventPublished(eventType, result string) {
	if m.published == nil {
		m.published = make(map[string]int)
	}
	m.published[eventType+"/"+result]++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testEvent() domain.BookingEvent {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		ID:            "b-1",
		StationID:     1,
		ChargerID:     2,
		ConnectorType: "CCS2",
		Status:        domain.StatusUpcoming,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		EstimatedCost: 375,
	}
	station := &domain.Station{
		ID: 1,
		Chargers: []domain.Charger{
			{ID: 1},
			{ID: 2, OccupiedUntil: &booking.EndTime},
		},
	}
	return domain.NewBookingEvent(booking, station, start)
}

func TestEncodeDecode(t *testing.T) {
	payload, err := Encode(testEvent())
	require.NoError(t, err)

	msg, err := Decode(payload)
	require.NoError(t, err)

	assert.Equal(t, "booking.created", msg.Type)
	assert.Equal(t, int64(1), msg.StationID)
	assert.Equal(t, 1, msg.AvailableChargers)
	assert.Equal(t, 2, msg.TotalChargers)
	assert.Equal(t, "b-1", msg.Booking.ID)
	assert.Equal(t, 2, msg.Booking.ChargerID)
	assert.Equal(t, "upcoming", msg.Booking.Status)
	assert.Nil(t, msg.Booking.ActualCost)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode([]byte(`{"stationId": 1}`))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLocalPublisher_Publish(t *testing.T) {
	hub := &recordingHub{}
	metrics := &recordingMetrics{}
	p := NewLocalPublisher(hub, metrics)

	require.NoError(t, p.Publish(context.Background(), testEvent()))

	require.Len(t, hub.payloads, 1)
	assert.Contains(t, string(hub.payloads[0]), `"type":"booking.created"`)
	assert.Equal(t, 1, metrics.published["booking.created/ok"])
}

func TestSubscriber_ForwardSkipsMalformed(t *testing.T) {
	hub := &recordingHub{}
	s := NewSubscriber(nil, "", hub, nopLogger{})

	s.forward([]byte("garbage"))
	assert.Empty(t, hub.payloads)

	payload, err := Encode(testEvent())
	require.NoError(t, err)
	s.forward(payload)
	assert.Len(t, hub.payloads, 1)
	assert.Equal(t, DefaultChannel, s.channel)
}

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	_, err := NewRedisClient(context.Background(), RedisOptions{Addr: "  "})
	assert.ErrorIs(t, err, ErrEmptyAddr)
}
