package events

import (
	"context"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// LocalPublisher рассылает события подписчикам этого же процесса
type LocalPublisher struct {
	hub     Broadcaster
	metrics Metrics
}

// NewLocalPublisher создает publisher без внешнего брокера
func NewLocalPublisher(hub Broadcaster, metrics Metrics) *LocalPublisher {
	return &LocalPublisher{hub: hub, metrics: metrics}
}

// Publish кодирует событие и отдаёт его в hub
func (p *LocalPublisher) Publish(_ context.Context, event domain.BookingEvent) error {
	payload, err := Encode(event)
	if err != nil {
		p.metrics.EventPublished(string(event.Type), resultError)
		return err
	}
	p.hub.Broadcast(payload)
	p.metrics.EventPublished(string(event.Type), resultOK)
	return nil
}
