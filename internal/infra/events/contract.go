package events

// Broadcaster рассылка закодированного события подписчикам (websocket hub)
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Metrics метрики публикации событий
type Metrics interface {
	EventPublished(eventType, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
