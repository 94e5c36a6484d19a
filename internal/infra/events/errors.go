package events

import "errors"

var (
	// ErrEncode ошибка сериализации события
	ErrEncode = errors.New("events: failed to encode event")

	// ErrDecode ошибка разбора события из канала
	ErrDecode = errors.New("events: failed to decode event")

	// ErrPublish ошибка публикации в redis
	ErrPublish = errors.New("events: failed to publish event")

	// ErrEmptyAddr не задан адрес redis
	ErrEmptyAddr = errors.New("events: redis addr is empty")
)
