package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 16
	readLimit      = 4 * 1024
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second

	// DefaultWriteTimeout таймаут записи одного сообщения
	DefaultWriteTimeout = 10 * time.Second
)

// Hub рассылает события бронирований подключённым клиентам.
// Клиент, не успевающий читать, отключается
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}

	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	metrics      Metrics
	logger       Logger
}

// NewHub создает hub
func NewHub(writeTimeout time.Duration, metrics Metrics, logger Logger) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &Hub{
		clients:      make(map[*client]struct{}),
		writeTimeout: writeTimeout,
		metrics:      metrics,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP обработчик /ws/bookings
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Hub: websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register(c)
	h.logger.Info("Hub: client connected remote=%s", r.RemoteAddr)

	go c.writePump()
	c.readPump()
}

// Broadcast отправляет payload всем клиентам без блокировки
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("Hub: dropping slow client")
			h.removeLocked(c)
		}
	}
}

// ClientCount число подключённых клиентов
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close отключает всех клиентов
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
	h.metrics.SetWSClients(len(h.clients))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.metrics.SetWSClients(len(h.clients))
}
