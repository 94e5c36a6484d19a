package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

var (
	// ErrBookingNotFound бронирования нет в архиве
	ErrBookingNotFound = fmt.Errorf("storage.bookings: %w", domain.ErrNotFound)

	// ErrTransaction ошибка пакетного сохранения
	ErrTransaction = errors.New("storage.bookings: transaction failed")

	ErrBuildQuery = errors.New("storage.bookings: failed to build query")
	ErrExecQuery  = errors.New("storage.bookings: failed to execute query")
	ErrScanRow    = errors.New("storage.bookings: failed to scan row")
)
