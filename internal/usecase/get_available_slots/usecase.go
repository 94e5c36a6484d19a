package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/registry"
)

// UseCase use case для получения сетки доступных слотов станции
type UseCase struct {
	stations     StationLocker
	ledger       Ledger
	clock        Clock
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(stations StationLocker, ledger Ledger, clock Clock, opts Options, logger Logger) *UseCase {
	if opts.SlotStepMinutes <= 0 {
		opts.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		stations:     stations,
		ledger:       ledger,
		clock:        clock,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: station=%d, connector=%s, date=%s, duration=%d",
		req.StationID, req.ConnectorType, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = uc.opts.SlotStepMinutes
	}

	// 2. Проверяем дату
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}
	if isTooFar(req.Date, now, uc.opts.AdvanceBookingDays) {
		uc.logger.Warn("GetAvailableSlots: date %s is more than %d days ahead",
			req.Date.Format(domain.DateFormat), uc.opts.AdvanceBookingDays)
		return nil, fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, uc.opts.AdvanceBookingDays)
	}

	if err := uc.clock.Refresh(ctx); err != nil {
		uc.logger.Warn("GetAvailableSlots: advance clock failed: %v", err)
	}

	// 3. Снимок зарядок и бронирований под блокировкой станции
	var (
		candidates []domain.Charger
		pending    []*domain.Booking
		hours      domain.OperatingHours
	)
	connector := domain.ConnectorType(req.ConnectorType)
	err := uc.stations.WithStation(ctx, req.StationID, func(h *registry.Handle) error {
		station, err := h.Station()
		if err != nil {
			return err
		}
		candidates = station.ChargersWithConnector(connector)
		if len(candidates) == 0 {
			return fmt.Errorf("%w: station %d has no %s charger", domain.ErrNoMatchingConnector, station.ID, connector)
		}
		hours = station.OperatingHours
		pending = uc.ledger.Pending(h)
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			uc.logger.Warn("GetAvailableSlots: station id=%d not found", req.StationID)
			return nil, err
		case errors.Is(err, domain.ErrNoMatchingConnector):
			uc.logger.Warn("GetAvailableSlots: %v", err)
			return nil, err
		default:
			uc.logger.Error("GetAvailableSlots: failed to read station id=%d: %v", req.StationID, err)
			return nil, fmt.Errorf("%w: failed to read station: %v", ErrInternal, err)
		}
	}

	// 4. Генерируем слоты и считаем свободные зарядки
	d := time.Duration(duration) * time.Minute
	starts := generateSlotStarts(
		hours,
		req.Date,
		time.Duration(uc.opts.SlotStepMinutes)*time.Minute,
		d,
		now,
		time.Duration(uc.opts.MinNoticeMinutes)*time.Minute,
	)
	slots := calculateAvailableSpots(starts, d, candidates, pending)

	uc.logger.Info("GetAvailableSlots: generated %d slots for station=%d, connector=%s, date=%s",
		len(slots), req.StationID, req.ConnectorType, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:          req.Date,
		StationID:     req.StationID,
		ConnectorType: req.ConnectorType,
		Slots:         slots,
	}, nil
}
