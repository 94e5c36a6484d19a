package estimate_cost

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ChargingService/internal/api/handlers"
	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

const (
	msgInvalidStationID = "некорректный ID станции"
	msgInvalidParams    = "durationMinutes обязателен, параметры автомобиля должны быть числами"
	msgStationNotFound  = "станция не найдена"
	msgInvalidRequest   = "некорректные параметры оценки"
)

type Handler struct {
	useCase EstimateCostUseCase
	logger  Logger
}

func NewHandler(useCase EstimateCostUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stations/{stationId}/cost-estimate
// Query params: durationMinutes (required), batteryCapacityKwh, currentChargePercent
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.ParseInt(mux.Vars(r)["stationId"], 10, 64)
	if err != nil || stationID <= 0 {
		h.logger.Warn("GET /stations/{id}/cost-estimate - Invalid station ID: %s", mux.Vars(r)["stationId"])
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(stationID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /stations/{id}/cost-estimate - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /stations/{id}/cost-estimate - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("GET /stations/{id}/cost-estimate - Invalid request: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /stations/{id}/cost-estimate - Failed to estimate: station_id=%d, error=%v", stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stations/{id}/cost-estimate - Estimated: station_id=%d, duration=%d, cost=%.2f",
		stationID, result.DurationMinutes, result.EstimatedCost)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
