package request_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStart       = "некорректный формат времени начала, ожидается RFC3339"
	msgStationNotFound    = "станция не найдена"
	msgNoConnector        = "на станции нет зарядок с таким разъёмом"
	msgAllBusy            = "все подходящие зарядки заняты"
	msgSlotUnavailable    = "выбранное время недоступно"
	msgInvalidRequest     = "некорректные параметры бронирования"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RequestBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse preferred start: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var queueErr *domain.QueueError
		switch {
		case errors.As(err, &queueErr):
			h.logger.Warn("POST /bookings - All chargers busy: station_id=%d, connector=%s, earliest=%s",
				req.StationID, req.ConnectorType, queueErr.EarliestFree.Format(domain.TimeFormat))
			handlers.RespondQueued(w, msgAllBusy, queueErr.EarliestFree, queueErr.ChargerID)

		case errors.Is(err, domain.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: station_id=%d, connector=%s", req.StationID, req.ConnectorType)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, domain.ErrNoMatchingConnector):
			h.logger.Warn("POST /bookings - No matching connector: station_id=%d, connector=%s",
				req.StationID, req.ConnectorType)
			handlers.RespondUnprocessable(w, msgNoConnector)

		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("POST /bookings - Station not found: station_id=%d", req.StationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: station_id=%d, error=%v", req.StationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s, station_id=%d, charger_id=%d",
		result.Booking.ID, req.StationID, result.Booking.ChargerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
