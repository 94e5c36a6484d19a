package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

const (
	// DefaultChannel канал событий бронирований
	DefaultChannel = "bookings:events"

	resultOK    = "ok"
	resultError = "error"

	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// RedisOptions параметры подключения к redis
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient создает клиента и проверяет соединение через PING
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, ErrEmptyAddr
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("events: redis ping %s: %w", addr, err)
	}

	return client, nil
}

// RedisPublisher публикует события в канал redis, чтобы их получили все инстансы
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
	metrics Metrics
}

// NewRedisPublisher создает publisher. Пустой channel заменяется на DefaultChannel
func NewRedisPublisher(client redis.UniversalClient, channel string, metrics Metrics) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel, metrics: metrics}
}

// Publish отправляет событие командой PUBLISH
func (p *RedisPublisher) Publish(ctx context.Context, event domain.BookingEvent) error {
	payload, err := Encode(event)
	if err != nil {
		p.metrics.EventPublished(string(event.Type), resultError)
		return err
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.metrics.EventPublished(string(event.Type), resultError)
		return fmt.Errorf("%w: channel=%s: %v", ErrPublish, p.channel, err)
	}

	p.metrics.EventPublished(string(event.Type), resultOK)
	return nil
}

// Subscriber читает канал redis и пересылает события в hub
type Subscriber struct {
	client  redis.UniversalClient
	channel string
	hub     Broadcaster
	logger  Logger
}

// NewSubscriber создает подписчика на канал событий
func NewSubscriber(client redis.UniversalClient, channel string, hub Broadcaster, logger Logger) *Subscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Subscriber{client: client, channel: channel, hub: hub, logger: logger}
}

// Run блокируется до отмены ctx
func (s *Subscriber) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("events: subscribe %s: %w", s.channel, err)
	}
	s.logger.Info("Subscriber: listening channel=%s", s.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.forward([]byte(msg.Payload))
		}
	}
}

func (s *Subscriber) forward(payload []byte) {
	if _, err := Decode(payload); err != nil {
		s.logger.Warn("Subscriber: skip malformed event: %v", err)
		return
	}
	s.hub.Broadcast(payload)
}
