package request_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/allocator"
	"github.com/m04kA/SMC-ChargingService/internal/service/registry"
)

// Исходы запроса для метрик
const (
	outcomeAccepted            = "accepted"
	outcomeQueued              = "queued"
	outcomeInvalid             = "invalid"
	outcomeNotFound            = "not_found"
	outcomeNoMatchingConnector = "no_matching_connector"
	outcomeSlotUnavailable     = "slot_unavailable"
	outcomeError               = "error"
)

// UseCase use case для бронирования зарядки
type UseCase struct {
	stations     StationLocker
	ledger       Ledger
	clock        Clock
	archive      BookingArchive // nil, если БД отключена
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	stations StationLocker,
	ledger Ledger,
	clock Clock,
	archive BookingArchive,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		stations:     stations,
		ledger:       ledger,
		clock:        clock,
		archive:      archive,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case бронирования.
// Выбор зарядки и принятие бронирования выполняются под одной блокировкой станции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	domainReq := req.ToDomain()
	uc.logger.Info("RequestBooking: station=%d, connector=%s, duration=%d, mode=%s, allowQueue=%t",
		req.StationID, req.ConnectorType, req.DurationMinutes, domainReq.Mode(), req.AllowQueue)

	// 1. Валидация входных данных
	if err := domainReq.Validate(); err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		uc.metrics.BookingRequested(outcomeInvalid)
		return nil, err
	}

	// 2. Продвигаем часы, чтобы завершённые сессии освободили зарядки
	if err := uc.clock.Refresh(ctx); err != nil {
		uc.logger.Warn("RequestBooking: advance clock failed: %v", err)
	}

	now := uc.timeProvider.Now()

	// 3. Выбор и принятие под блокировкой станции
	var (
		booking *domain.Booking
		station domain.Station
	)
	err := uc.stations.WithStation(ctx, req.StationID, func(h *registry.Handle) error {
		snapshot, err := h.Station()
		if err != nil {
			return err
		}

		decision, err := allocator.Allocate(&snapshot, uc.ledger.Pending(h), domainReq, now)
		if err != nil {
			return err
		}
		uc.logger.Info("RequestBooking: station=%d allocated charger=%d, start=%s, queued=%t",
			req.StationID, decision.ChargerID, decision.Start.Format(domain.TimeFormat), decision.Queued)

		booking, err = uc.ledger.Accept(h, domainReq, decision, now)
		if err != nil {
			return err
		}
		station, err = h.Station()
		return err
	})
	if err != nil {
		return nil, uc.reject(req, err)
	}

	// 4. Сохранение, события, метрики вне блокировки
	uc.afterAccept(ctx, booking, &station)

	uc.logger.Info("RequestBooking: successfully created booking id=%s, charger=%d, start=%s, cost=%.2f",
		booking.ID, booking.ChargerID, booking.StartTime.Format(domain.TimeFormat), booking.EstimatedCost)

	return &Response{
		Booking:           booking,
		StationName:       station.Name,
		AvailableChargers: station.AvailableChargers(),
		TotalChargers:     station.TotalChargers(),
	}, nil
}

// reject логирует отказ и учитывает его в метриках
func (uc *UseCase) reject(req *Request, err error) error {
	var queueErr *domain.QueueError
	switch {
	case errors.As(err, &queueErr):
		uc.logger.Warn("RequestBooking: station=%d all %s chargers busy, earliest free charger=%d at %s",
			req.StationID, req.ConnectorType, queueErr.ChargerID, queueErr.EarliestFree.Format(domain.TimeFormat))
		uc.metrics.BookingRequested(outcomeSlotUnavailable)
		return err
	case errors.Is(err, domain.ErrSlotUnavailable):
		uc.logger.Warn("RequestBooking: station=%d slot unavailable: %v", req.StationID, err)
		uc.metrics.BookingRequested(outcomeSlotUnavailable)
		return err
	case errors.Is(err, domain.ErrNoMatchingConnector):
		uc.logger.Warn("RequestBooking: station=%d has no %s charger", req.StationID, req.ConnectorType)
		uc.metrics.BookingRequested(outcomeNoMatchingConnector)
		return err
	case errors.Is(err, domain.ErrNotFound):
		uc.logger.Warn("RequestBooking: station id=%d not found", req.StationID)
		uc.metrics.BookingRequested(outcomeNotFound)
		return err
	case errors.Is(err, domain.ErrInvalidInput):
		uc.logger.Warn("RequestBooking: invalid request: %v", err)
		uc.metrics.BookingRequested(outcomeInvalid)
		return err
	default:
		uc.logger.Error("RequestBooking: failed to book station=%d: %v", req.StationID, err)
		uc.metrics.BookingRequested(outcomeError)
		return fmt.Errorf("%w: failed to book: %v", ErrInternal, err)
	}
}

func (uc *UseCase) afterAccept(ctx context.Context, booking *domain.Booking, station *domain.Station) {
	outcome := outcomeAccepted
	if booking.Queued {
		outcome = outcomeQueued
	}
	uc.metrics.BookingRequested(outcome)
	uc.metrics.BookingTransition(string(booking.Status))
	uc.metrics.SetAvailableChargers(station.ID, station.AvailableChargers())

	if uc.archive != nil {
		if err := uc.archive.Save(ctx, booking); err != nil {
			uc.logger.Error("RequestBooking: failed to archive booking id=%s: %v", booking.ID, err)
		}
	}

	event := domain.NewBookingEvent(booking, station, booking.CreatedAt)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("RequestBooking: failed to publish booking id=%s: %v", booking.ID, err)
	}
}
