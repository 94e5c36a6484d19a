package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChargingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ChargingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidStationID = "некорректный ID станции"
	msgMissingConnector = "тип разъёма обязателен"
	msgMissingDate      = "дата обязательна"
	msgInvalidParams    = "некорректный формат даты (YYYY-MM-DD) или длительности"
	msgStationNotFound  = "станция не найдена"
	msgNoConnector      = "на станции нет зарядок с таким разъёмом"
	msgDateInPast       = "дата в прошлом"
	msgDateTooFar       = "дата слишком далеко в будущем"
	msgInvalidRequest   = "некорректный запрос"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stations/{stationId}/available-slots
// Query params: connector (required), date (required, YYYY-MM-DD), durationMinutes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.ParseInt(mux.Vars(r)["stationId"], 10, 64)
	if err != nil || stationID <= 0 {
		h.logger.Warn("GET /stations/{id}/available-slots - Invalid station ID: %s", mux.Vars(r)["stationId"])
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	query := r.URL.Query()
	connector := query.Get("connector")
	if connector == "" {
		h.logger.Warn("GET /stations/{id}/available-slots - Missing connector: station_id=%d", stationID)
		handlers.RespondBadRequest(w, msgMissingConnector)
		return
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /stations/{id}/available-slots - Missing date: station_id=%d", stationID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(stationID, connector, dateStr, query.Get("durationMinutes"))
	if err != nil {
		h.logger.Warn("GET /stations/{id}/available-slots - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /stations/{id}/available-slots - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, domain.ErrNoMatchingConnector):
			h.logger.Warn("GET /stations/{id}/available-slots - No matching connector: station_id=%d, connector=%s",
				stationID, connector)
			handlers.RespondUnprocessable(w, msgNoConnector)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /stations/{id}/available-slots - Date in past: station_id=%d, date=%s", stationID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /stations/{id}/available-slots - Date too far: station_id=%d, date=%s", stationID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("GET /stations/{id}/available-slots - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /stations/{id}/available-slots - Failed to get slots: station_id=%d, error=%v",
				stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stations/{id}/available-slots - Slots retrieved successfully: station_id=%d, date=%s, slots_count=%d",
		stationID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
