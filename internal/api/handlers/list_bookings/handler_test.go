package list_bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/bookings/models"
)

type fakeService struct {
	got *models.ListBookingsRequest
	err error
}

func (f *fakeService) List(_ context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "a"}, {ID: "b"}}}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle_PassesFilter(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=upcoming&stationId=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "upcoming", *svc.got.Status)
	require.NotNil(t, svc.got.StationID)
	assert.Equal(t, int64(2), *svc.got.StationID)

	var body models.BookingListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Bookings, 2)
	assert.Equal(t, "a", body.Bookings[0].ID)
	assert.Equal(t, "b", body.Bookings[1].ID)
}

func TestHandle_InvalidStatus(t *testing.T) {
	svc := &fakeService{err: fmt.Errorf("%w: unknown booking status", domain.ErrInvalidInput)}
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=done", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InvalidStationID(t *testing.T) {
	svc := &fakeService{}
	rec := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?stationId=x", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.got)
}
