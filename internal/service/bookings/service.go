package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/bookings/models"
)

// Service сервис для работы с принятыми бронированиями
type Service struct {
	ledger       Ledger
	stations     StationReader
	archive      BookingArchive // nil, если БД отключена
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	ledger Ledger,
	stations StationReader,
	archive BookingArchive,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		ledger:       ledger,
		stations:     stations,
		archive:      archive,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s", id)

	s.refresh(ctx, "GetByID")

	booking, err := s.ledger.Get(id)
	if errors.Is(err, domain.ErrNotFound) && s.archive != nil {
		booking, err = s.archive.GetByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, err
		}
		s.logger.Error("GetByID: lookup failed for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - lookup error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List список бронирований по возрастанию времени начала.
// Опционально фильтрует по статусу и станции
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings, status=%v, station=%v", req.Status, req.StationID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}

	s.refresh(ctx, "List")

	bookings := s.ledger.List(filter)

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование. Отменять можно только Upcoming и Active
func (s *Service) Cancel(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s", bookingID)

	now := s.timeProvider.Now()
	if _, err := s.AdvanceClock(ctx, now); err != nil {
		s.logger.Warn("Cancel: advance clock failed: %v", err)
	}

	booking, err := s.ledger.Cancel(ctx, bookingID, now)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("Cancel: booking id=%s not found", bookingID)
			return nil, err
		case errors.Is(err, domain.ErrNotCancellable):
			s.logger.Warn("Cancel: booking id=%s cannot be cancelled: %v", bookingID, err)
			return nil, err
		default:
			s.logger.Error("Cancel: ledger error for booking id=%s: %v", bookingID, err)
			return nil, fmt.Errorf("%w: Cancel - ledger error: %v", ErrInternal, err)
		}
	}

	s.afterTransition(ctx, []*domain.Booking{booking}, now)

	s.logger.Info("Cancel: successfully cancelled booking id=%s, forfeited=%v", bookingID, booking.ForfeitedCost)
	return models.FromDomainBooking(booking), nil
}

// AdvanceClock переводит бронирования по времени now и возвращает число изменённых
func (s *Service) AdvanceClock(ctx context.Context, now time.Time) (int, error) {
	changed, err := s.ledger.AdvanceClock(ctx, now)
	if len(changed) > 0 {
		s.logger.Info("AdvanceClock: now=%s, transitioned %d bookings", now.Format(time.RFC3339), len(changed))
		s.afterTransition(ctx, changed, now)
	}
	if err != nil {
		s.logger.Error("AdvanceClock: now=%s: %v", now.Format(time.RFC3339), err)
		return len(changed), fmt.Errorf("%w: AdvanceClock: %v", ErrInternal, err)
	}
	return len(changed), nil
}

// Refresh продвигает часы до текущего времени перед чтением
func (s *Service) Refresh(ctx context.Context) error {
	_, err := s.AdvanceClock(ctx, s.timeProvider.Now())
	return err
}

func (s *Service) refresh(ctx context.Context, op string) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("%s: serving possibly stale data: %v", op, err)
	}
}

// afterTransition сохраняет, публикует и учитывает изменения. Ошибки только логируются
func (s *Service) afterTransition(ctx context.Context, changed []*domain.Booking, now time.Time) {
	stations := make(map[int64]*domain.Station)

	if s.archive != nil {
		if err := s.saveChanged(ctx, changed); err != nil {
			s.logger.Error("archive: failed to save %d bookings: %v", len(changed), err)
		}
	}

	for _, b := range changed {
		s.metrics.BookingTransition(string(b.Status))

		station, ok := stations[b.StationID]
		if !ok {
			st, err := s.stations.Get(b.StationID)
			if err != nil {
				s.logger.Error("events: station id=%d lookup failed: %v", b.StationID, err)
			}
			station = st
			stations[b.StationID] = station
		}

		if err := s.publisher.Publish(ctx, domain.NewBookingEvent(b, station, now)); err != nil {
			s.logger.Error("events: failed to publish booking id=%s status=%s: %v", b.ID, b.Status, err)
		}
	}

	for id, st := range stations {
		if st != nil {
			s.metrics.SetAvailableChargers(id, st.AvailableChargers())
		}
	}
}

func (s *Service) saveChanged(ctx context.Context, changed []*domain.Booking) error {
	if len(changed) == 1 {
		return s.archive.Save(ctx, changed[0])
	}
	return s.archive.SaveAll(ctx, changed)
}
