package estimate_cost

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/cost"
)

// UseCase use case оценки стоимости зарядки на станции
type UseCase struct {
	stations  StationRegistry
	estimator CostEstimator
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(stations StationRegistry, estimator CostEstimator, logger Logger) *UseCase {
	return &UseCase{
		stations:  stations,
		estimator: estimator,
		logger:    logger,
	}
}

// Execute считает стоимость durationMinutes минут на станции по её тарифу
// и мощности по умолчанию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("EstimateCost: station=%d, duration=%d", req.StationID, req.DurationMinutes)

	if req.DurationMinutes < 0 {
		uc.logger.Warn("EstimateCost: negative duration=%d", req.DurationMinutes)
		return nil, fmt.Errorf("%w: duration must not be negative", domain.ErrInvalidInput)
	}

	station, err := uc.stations.Get(req.StationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("EstimateCost: station id=%d not found", req.StationID)
			return nil, err
		}
		uc.logger.Error("EstimateCost: failed to get station id=%d: %v", req.StationID, err)
		return nil, fmt.Errorf("%w: failed to get station: %v", ErrInternal, err)
	}

	estimated, err := uc.estimator.ForStation(req.DurationMinutes, station)
	if err != nil {
		uc.logger.Warn("EstimateCost: station=%d: %v", req.StationID, err)
		return nil, err
	}

	power := uc.estimator.AssumedPowerKW()
	resp := &Response{
		StationID:       station.ID,
		DurationMinutes: req.DurationMinutes,
		TariffPerUnit:   station.TariffPerUnit,
		AssumedPowerKW:  power,
		EstimatedEnergy: math.Round(float64(req.DurationMinutes)/60*power*100) / 100,
		EstimatedCost:   estimated,
	}

	if req.BatteryCapacityKWh != nil && req.CurrentChargePercent != nil {
		vehicle := domain.VehicleProfile{
			BatteryCapacityKWh:   *req.BatteryCapacityKWh,
			CurrentChargePercent: *req.CurrentChargePercent,
		}
		suggested, err := cost.SuggestDuration(vehicle, power)
		if err != nil {
			uc.logger.Warn("EstimateCost: invalid vehicle profile: %v", err)
			return nil, err
		}
		resp.SuggestedMinutes = &suggested
	}

	uc.logger.Info("EstimateCost: station=%d, duration=%d, cost=%.2f", station.ID, req.DurationMinutes, estimated)
	return resp, nil
}
