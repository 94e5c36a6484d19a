package estimate_cost

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("estimate_cost: internal error")
)
