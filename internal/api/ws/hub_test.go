package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gaugeMetrics struct {
	mu    sync.Mutex
	value int
}

func (m *gaugeMetrics) SetWSClients(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = n
}

func (m *gaugeMetrics) get() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHub_BroadcastToClient(t *testing.T) {
	metrics := &gaugeMetrics{}
	hub := NewHub(time.Second, metrics, nopLogger{})
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, metrics.get())

	hub.Broadcast([]byte(`{"type":"booking.created"}`))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"booking.created"}`, string(msg))

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, metrics.get())
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(time.Second, &gaugeMetrics{}, nopLogger{})
	slow := &client{hub: hub, send: make(chan []byte, 1)}
	hub.register(slow)

	hub.Broadcast([]byte("first"))
	assert.Equal(t, 1, hub.ClientCount())

	hub.Broadcast([]byte("second"))
	assert.Equal(t, 0, hub.ClientCount())

	msg, ok := <-slow.send
	assert.True(t, ok)
	assert.Equal(t, "first", string(msg))
	_, ok = <-slow.send
	assert.False(t, ok)

	hub.unregister(slow)
}
