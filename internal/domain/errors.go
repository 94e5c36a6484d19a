package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound неизвестный id станции, зарядки или бронирования
	ErrNotFound = errors.New("not found")

	// ErrNoMatchingConnector на станции нет ни одной зарядки с запрошенным разъёмом
	ErrNoMatchingConnector = errors.New("no charger with requested connector type")

	// ErrSlotUnavailable нет подходящей комбинации зарядки и времени
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrNotCancellable бронирование уже завершено или отменено
	ErrNotCancellable = errors.New("booking is not cancellable")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
)

// QueueError "очередь": свободных зарядок нет, ближайшее освобождение в EarliestFree
type QueueError struct {
	StationID    int64
	ChargerID    int
	EarliestFree time.Time
}

func (e *QueueError) Error() string {
	return fmt.Sprintf("%s: all matching chargers at station %d busy, earliest free charger %d at %s",
		ErrSlotUnavailable, e.StationID, e.ChargerID, e.EarliestFree.Format(time.RFC3339))
}

func (e *QueueError) Unwrap() error {
	return ErrSlotUnavailable
}
