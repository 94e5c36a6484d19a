package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллекторы сервиса
type Metrics struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	bookingRequests    *prometheus.CounterVec
	bookingTransitions *prometheus.CounterVec
	availableChargers  *prometheus.GaugeVec
	dbQueryDuration    *prometheus.HistogramVec
	dbQueryErrors      *prometheus.CounterVec
	dbConnections      *prometheus.GaugeVec
	eventsPublished    *prometheus.CounterVec
	wsClients          prometheus.Gauge
}

// New регистрирует метрики в DefaultRegisterer
func New(serviceName string) *Metrics {
	m, err := NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
	if err != nil {
		panic(err)
	}
	return m
}

// NewWithRegistry регистрирует метрики в переданном реестре.
// Уже зарегистрированные коллекторы переиспользуются
func NewWithRegistry(serviceName string, reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_requests_total",
			Help:        "Booking requests by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		bookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking status transitions by target status",
			ConstLabels: constLabels,
		}, []string{"status"}),
		availableChargers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "station_available_chargers",
			Help:        "Free chargers per station",
			ConstLabels: constLabels,
		}, []string{"station_id"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections",
			Help:        "Database pool connections by state",
			ConstLabels: constLabels,
		}, []string{"state"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_events_published_total",
			Help:        "Published booking events by type and result",
			ConstLabels: constLabels,
		}, []string{"type", "result"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "websocket_clients",
			Help:        "Connected websocket clients",
			ConstLabels: constLabels,
		}),
	}

	var err error
	if m.httpRequests, err = register(reg, m.httpRequests); err != nil {
		return nil, err
	}
	if m.httpDuration, err = register(reg, m.httpDuration); err != nil {
		return nil, err
	}
	if m.bookingRequests, err = register(reg, m.bookingRequests); err != nil {
		return nil, err
	}
	if m.bookingTransitions, err = register(reg, m.bookingTransitions); err != nil {
		return nil, err
	}
	if m.availableChargers, err = register(reg, m.availableChargers); err != nil {
		return nil, err
	}
	if m.dbQueryDuration, err = register(reg, m.dbQueryDuration); err != nil {
		return nil, err
	}
	if m.dbQueryErrors, err = register(reg, m.dbQueryErrors); err != nil {
		return nil, err
	}
	if m.dbConnections, err = register(reg, m.dbConnections); err != nil {
		return nil, err
	}
	if m.eventsPublished, err = register(reg, m.eventsPublished); err != nil {
		return nil, err
	}
	if m.wsClients, err = register(reg, m.wsClients); err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveHTTP учитывает HTTP запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// BookingRequested учитывает результат запроса на бронирование
// outcome: accepted, queued, no_matching_connector, slot_unavailable, invalid, not_found, error
func (m *Metrics) BookingRequested(outcome string) {
	m.bookingRequests.WithLabelValues(outcome).Inc()
}

// BookingTransition учитывает смену статуса бронирования
func (m *Metrics) BookingTransition(status string) {
	m.bookingTransitions.WithLabelValues(status).Inc()
}

// SetAvailableChargers обновляет число свободных зарядок станции
func (m *Metrics) SetAvailableChargers(stationID int64, available int) {
	m.availableChargers.WithLabelValues(strconv.FormatInt(stationID, 10)).Set(float64(available))
}

// ObserveDBQuery учитывает запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, elapsed time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	m.dbConnections.WithLabelValues("open").Set(float64(open))
	m.dbConnections.WithLabelValues("in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues("idle").Set(float64(idle))
}

// EventPublished учитывает публикацию события. result: ok, error
func (m *Metrics) EventPublished(eventType, result string) {
	m.eventsPublished.WithLabelValues(eventType, result).Inc()
}

// SetWSClients число подключённых websocket клиентов
func (m *Metrics) SetWSClients(n int) {
	m.wsClients.Set(float64(n))
}
