package registry

import "errors"

var (
	// ErrHandleReleased дескриптор станции использован после выхода из WithStation
	ErrHandleReleased = errors.New("registry: station handle used outside of its critical section")

	// ErrDuplicateStation при загрузке встретился повторный id станции
	ErrDuplicateStation = errors.New("registry: duplicate station id")
)
