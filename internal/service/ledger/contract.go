package ledger

import (
	"context"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/registry"
)

// StationLocker критическая секция станции
type StationLocker interface {
	WithStation(ctx context.Context, id int64, fn func(h *registry.Handle) error) error
}

// CostEstimator оценка стоимости сессии на зарядке
type CostEstimator interface {
	ForCharger(durationMinutes int, station *domain.Station, charger domain.Charger) (float64, error)
}
