package get_available_slots

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StationID <= 0 {
		return fmt.Errorf("%w: stationID must be positive", domain.ErrInvalidInput)
	}

	if strings.TrimSpace(req.ConnectorType) == "" {
		return fmt.Errorf("%w: connector type is required", domain.ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}

	if req.DurationMinutes != 0 &&
		(req.DurationMinutes < domain.MinDurationMinutes || req.DurationMinutes > domain.MaxDurationMinutes) {
		return fmt.Errorf("%w: duration must be between %d and %d minutes",
			domain.ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
	}

	return nil
}
