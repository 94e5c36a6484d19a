package metrics

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_BookingCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewWithRegistry("charging", reg)
	require.NoError(t, err)

	m.BookingRequested("accepted")
	m.BookingRequested("accepted")
	m.BookingRequested("slot_unavailable")

	expected := `
# HELP booking_requests_total Booking requests by outcome
# TYPE booking_requests_total counter
booking_requests_total{outcome="accepted",service="charging"} 2
booking_requests_total{outcome="slot_unavailable",service="charging"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(m.bookingRequests, strings.NewReader(expected)))
}

func TestMetrics_HTTPAndGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewWithRegistry("charging", reg)
	require.NoError(t, err)

	m.ObserveHTTP(http.MethodGet, "/api/v1/stations", http.StatusOK, 15*time.Millisecond)
	m.SetAvailableChargers(3, 2)
	m.BookingTransition("completed")

	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/stations", "200")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.availableChargers.WithLabelValues("3")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingTransitions.WithLabelValues("completed")))
}

func TestMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewWithRegistry("charging", reg)
	require.NoError(t, err)
	second, err := NewWithRegistry("charging", reg)
	require.NoError(t, err)

	first.BookingRequested("queued")
	assert.Equal(t, float64(1), testutil.ToFloat64(second.bookingRequests.WithLabelValues("queued")))
}

func TestMetrics_DBAndEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewWithRegistry("charging", reg)
	require.NoError(t, err)

	m.ObserveDBQuery("select", 3*time.Millisecond, nil)
	m.ObserveDBQuery("insert", 5*time.Millisecond, errors.New("duplicate key"))
	m.SetDBConnections(4, 1, 3)
	m.EventPublished("booking.created", "ok")
	m.SetWSClients(2)

	assert.Equal(t, 2, testutil.CollectAndCount(m.dbQueryDuration))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("select")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("insert")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dbConnections.WithLabelValues("in_use")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.eventsPublished.WithLabelValues("booking.created", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.wsClients))
}
