package cancel_booking

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/bookings/models"
)

const bookingID = "3f1c7f5e-1111-4a2b-9c3d-000000000001"

type fakeService struct {
	resp *models.BookingResponse
	err  error
}

func (f *fakeService) Cancel(_ context.Context, id string) (*models.BookingResponse, error) {
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(h *Handler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+id+"/cancel", nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		svc        *fakeService
		wantStatus int
	}{
		{
			name:       "cancelled",
			id:         bookingID,
			svc:        &fakeService{resp: &models.BookingResponse{ID: bookingID, Status: "cancelled"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid id",
			id:         "42",
			svc:        &fakeService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not found",
			id:         bookingID,
			svc:        &fakeService{err: fmt.Errorf("%w: booking", domain.ErrNotFound)},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "not cancellable",
			id:         bookingID,
			svc:        &fakeService{err: fmt.Errorf("%w: completed", domain.ErrNotCancellable)},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "internal",
			id:         bookingID,
			svc:        &fakeService{err: fmt.Errorf("boom")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(NewHandler(tt.svc, nopLogger{}), tt.id)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
