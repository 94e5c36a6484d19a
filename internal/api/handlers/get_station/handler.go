package get_station

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
	msgNotFound         = "станция не найдена"
)

type Handler struct {
	service StationService
	logger  Logger
}

func NewHandler(service StationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/stations/{stationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.ParseInt(mux.Vars(r)["stationId"], 10, 64)
	if err != nil || stationID <= 0 {
		h.logger.Warn("GET /stations/{id} - Invalid station ID: %s", mux.Vars(r)["stationId"])
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	station, err := h.service.Get(r.Context(), stationID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.logger.Warn("GET /stations/{id} - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /stations/{id} - Failed to get station: station_id=%d, error=%v", stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stations/{id} - Station retrieved successfully: station_id=%d", stationID)
	handlers.RespondJSON(w, http.StatusOK, station)
}
