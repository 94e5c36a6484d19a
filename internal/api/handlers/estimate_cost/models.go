package estimate_cost

import (
	"net/url"
	"strconv"

	estimateCost "github.com/m04kA/SMC-ChargingService/internal/usecase/estimate_cost"
)

// CostEstimateResponse HTTP response model
type CostEstimateResponse struct {
	StationID        int64   `json:"stationId"`
	DurationMinutes  int     `json:"durationMinutes"`
	PricePerUnit     float64 `json:"pricePerUnit"`
	AssumedPowerKW   float64 `json:"assumedPowerKw"`
	EstimatedEnergy  float64 `json:"estimatedEnergyKwh"`
	EstimatedCost    float64 `json:"estimatedCost"`
	SuggestedMinutes *int    `json:"suggestedDurationMinutes,omitempty"`
}

// ToUseCaseRequest создает запрос use case.
// durationMinutes обязателен, batteryCapacityKwh и currentChargePercent опциональны
func ToUseCaseRequest(stationID int64, query url.Values) (*estimateCost.Request, error) {
	duration, err := strconv.Atoi(query.Get("durationMinutes"))
	if err != nil {
		return nil, err
	}

	req := &estimateCost.Request{
		StationID:       stationID,
		DurationMinutes: duration,
	}

	if v := query.Get("batteryCapacityKwh"); v != "" {
		capacity, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		req.BatteryCapacityKWh = &capacity
	}

	if v := query.Get("currentChargePercent"); v != "" {
		charge, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		req.CurrentChargePercent = &charge
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *estimateCost.Response) *CostEstimateResponse {
	return &CostEstimateResponse{
		StationID:        resp.StationID,
		DurationMinutes:  resp.DurationMinutes,
		PricePerUnit:     resp.TariffPerUnit,
		AssumedPowerKW:   resp.AssumedPowerKW,
		EstimatedEnergy:  resp.EstimatedEnergy,
		EstimatedCost:    resp.EstimatedCost,
		SuggestedMinutes: resp.SuggestedMinutes,
	}
}
