package get_available_slots

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ChargingService/internal/usecase/get_available_slots"
)

type fakeUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	start := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 10, 0, 0, 0, req.Date.Location())
	return &getAvailableSlots.Response{
		Date:          req.Date,
		StationID:     req.StationID,
		ConnectorType: req.ConnectorType,
		Slots: []domain.AvailableSlot{
			{Start: start, End: start.Add(time.Hour), AvailableSpots: 1, TotalSpots: 4},
		},
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(uc *fakeUseCase, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stations/2/available-slots?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"stationId": "2"})
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	uc := &fakeUseCase{}
	rec := doRequest(uc, "connector=CCS2&date=2026-03-14&durationMinutes=60")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), uc.got.StationID)
	assert.Equal(t, 60, uc.got.DurationMinutes)
	assert.Contains(t, rec.Body.String(), `"startTime":"10:00"`)
	assert.Contains(t, rec.Body.String(), `"endTime":"11:00"`)
	assert.Contains(t, rec.Body.String(), `"occupancyRate":75`)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing connector", query: "date=2026-03-14"},
		{name: "missing date", query: "connector=CCS2"},
		{name: "bad date", query: "connector=CCS2&date=14.03.2026"},
		{name: "bad duration", query: "connector=CCS2&date=2026-03-14&durationMinutes=hour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := doRequest(uc, tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: fmt.Errorf("%w: station 2", domain.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "no connector", err: domain.ErrNoMatchingConnector, wantStatus: http.StatusUnprocessableEntity},
		{name: "past", err: getAvailableSlots.ErrInvalidDate, wantStatus: http.StatusBadRequest},
		{name: "too far", err: getAvailableSlots.ErrDateTooFarInFuture, wantStatus: http.StatusBadRequest},
		{name: "internal", err: getAvailableSlots.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(&fakeUseCase{err: tt.err}, "connector=CCS2&date=2026-03-14")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
