package ws

// Metrics метрики websocket подключений
type Metrics interface {
	SetWSClients(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
