package get_station

import (
	"context"

	"github.com/m04kA/SMC-ChargingService/internal/service/stations/models"
)

type StationService interface {
	Get(ctx context.Context, id int64) (*models.StationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
