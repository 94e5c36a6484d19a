package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/registry"
)

// Ledger журнал принятых бронирований.
// Изменения бронирований станции выполняются только под блокировкой этой станции.
// Порядок блокировок: станция, затем l.mu
type Ledger struct {
	mu        sync.RWMutex
	bookings  map[string]*domain.Booking
	byStation map[int64][]*domain.Booking

	stations  StationLocker
	estimator CostEstimator
	newID     func() string
}

// New создаёт пустой журнал
func New(stations StationLocker, estimator CostEstimator) *Ledger {
	return &Ledger{
		bookings:  make(map[string]*domain.Booking),
		byStation: make(map[int64][]*domain.Booking),
		stations:  stations,
		estimator: estimator,
		newID:     uuid.NewString,
	}
}

// Pending незавершённые бронирования станции. Вызывается внутри WithStation
func (l *Ledger) Pending(h *registry.Handle) []*domain.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range l.byStation[h.StationID()] {
		if b.IsPending() {
			result = append(result, b.Clone())
		}
	}
	return result
}

// Accept превращает решение аллокатора в бронирование со статусом Upcoming.
// Решение перепроверяется по текущему состоянию зарядки: при конфликте
// возвращается ErrSlotUnavailable и состояние не меняется
func (l *Ledger) Accept(h *registry.Handle, req *domain.BookingRequest, d *domain.Decision, now time.Time) (*domain.Booking, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: empty allocation decision", domain.ErrInvalidInput)
	}
	if d.StationID != h.StationID() {
		return nil, fmt.Errorf("%w: decision for station %d accepted under lock of station %d",
			domain.ErrInvalidInput, d.StationID, h.StationID())
	}
	if !d.Start.Before(d.End) || d.End.Sub(d.Start) != req.Duration() {
		return nil, fmt.Errorf("%w: decision window %s-%s does not match duration %d",
			domain.ErrInvalidInput, d.Start.Format(time.RFC3339), d.End.Format(time.RFC3339), req.DurationMinutes)
	}

	charger, err := h.Charger(d.ChargerID)
	if err != nil {
		return nil, err
	}
	if !charger.ConnectorType.Matches(req.ConnectorType) {
		return nil, fmt.Errorf("%w: charger %d has connector %s, requested %s",
			domain.ErrSlotUnavailable, charger.ID, charger.ConnectorType, req.ConnectorType)
	}

	station, err := h.Station()
	if err != nil {
		return nil, err
	}
	estimated, err := l.estimator.ForCharger(req.DurationMinutes, &station, charger)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, b := range l.byStation[station.ID] {
		if b.ChargerID == charger.ID && b.IsPending() && b.Overlaps(d.Start, d.End) {
			return nil, fmt.Errorf("%w: charger %d already booked by %s for %s-%s",
				domain.ErrSlotUnavailable, charger.ID, b.ID,
				b.StartTime.Format(domain.TimeFormat), b.EndTime.Format(domain.TimeFormat))
		}
	}

	until := d.End
	if charger.OccupiedUntil != nil && charger.OccupiedUntil.After(until) {
		until = *charger.OccupiedUntil
	}
	if err := h.SetOccupiedUntil(charger.ID, &until); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:            l.newID(),
		StationID:     station.ID,
		ChargerID:     charger.ID,
		ConnectorType: charger.ConnectorType,
		Mode:          d.Mode,
		Queued:        d.Queued,
		Vehicle:       req.Vehicle,
		StartTime:     d.Start,
		EndTime:       d.End,
		Status:        domain.StatusUpcoming,
		EstimatedCost: estimated,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	l.insert(booking)

	return booking.Clone(), nil
}

func (l *Ledger) insert(b *domain.Booking) {
	l.bookings[b.ID] = b
	l.byStation[b.StationID] = append(l.byStation[b.StationID], b)
}

// Cancel отменяет Upcoming или Active бронирование.
// Для Active фиксируется удержанная стоимость за прошедшие минуты
func (l *Ledger) Cancel(ctx context.Context, bookingID string, now time.Time) (*domain.Booking, error) {
	stationID, err := l.stationOf(bookingID)
	if err != nil {
		return nil, err
	}

	var result *domain.Booking
	err = l.stations.WithStation(ctx, stationID, func(h *registry.Handle) error {
		l.mu.Lock()
		defer l.mu.Unlock()

		b := l.bookings[bookingID]
		if !b.CanBeCancelled() {
			return fmt.Errorf("%w: booking %s is %s", domain.ErrNotCancellable, bookingID, b.Status)
		}

		if b.Status == domain.StatusActive {
			forfeited, err := l.forfeitedCost(h, b, now)
			if err != nil {
				return err
			}
			b.ForfeitedCost = &forfeited
		}

		b.Status = domain.StatusCancelled
		cancelledAt := now
		b.CancelledAt = &cancelledAt
		b.UpdatedAt = now

		if err := h.SetOccupiedUntil(b.ChargerID, l.occupiedUntil(stationID, b.ChargerID)); err != nil {
			return err
		}
		result = b.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Ledger) forfeitedCost(h *registry.Handle, b *domain.Booking, now time.Time) (float64, error) {
	elapsed := int(now.Sub(b.StartTime) / time.Minute)
	if elapsed < 0 {
		elapsed = 0
	}
	if total := b.DurationMinutes(); elapsed > total {
		elapsed = total
	}
	charger, err := h.Charger(b.ChargerID)
	if err != nil {
		return 0, err
	}
	station, err := h.Station()
	if err != nil {
		return 0, err
	}
	return l.estimator.ForCharger(elapsed, &station, charger)
}

// AdvanceClock переводит Upcoming в Active при start <= now < end
// и Upcoming/Active в Completed при end <= now, освобождая зарядки.
// Повторный вызов с тем же now ничего не меняет. Возвращает изменённые бронирования
func (l *Ledger) AdvanceClock(ctx context.Context, now time.Time) ([]*domain.Booking, error) {
	changed := make([]*domain.Booking, 0)

	for _, stationID := range l.stationsWithPending() {
		err := l.stations.WithStation(ctx, stationID, func(h *registry.Handle) error {
			l.mu.Lock()
			defer l.mu.Unlock()

			touched := make(map[int]struct{})
			for _, b := range l.byStation[stationID] {
				switch {
				case !b.IsPending():
					continue
				case !b.EndTime.After(now):
					actual := b.EstimatedCost
					b.ActualCost = &actual
					b.Status = domain.StatusCompleted
					b.UpdatedAt = now
					touched[b.ChargerID] = struct{}{}
					changed = append(changed, b.Clone())
				case b.Status == domain.StatusUpcoming && !b.StartTime.After(now):
					b.Status = domain.StatusActive
					b.UpdatedAt = now
					changed = append(changed, b.Clone())
				}
			}

			for chargerID := range touched {
				if err := h.SetOccupiedUntil(chargerID, l.occupiedUntil(stationID, chargerID)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return changed, fmt.Errorf("advance clock for station %d: %w", stationID, err)
		}
	}

	return changed, nil
}

// occupiedUntil максимальный конец незавершённых бронирований зарядки. Вызывается под l.mu
func (l *Ledger) occupiedUntil(stationID int64, chargerID int) *time.Time {
	var until *time.Time
	for _, b := range l.byStation[stationID] {
		if b.ChargerID != chargerID || !b.IsPending() {
			continue
		}
		if until == nil || b.EndTime.After(*until) {
			end := b.EndTime
			until = &end
		}
	}
	return until
}

func (l *Ledger) stationOf(bookingID string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.bookings[bookingID]
	if !ok {
		return 0, fmt.Errorf("%w: booking %s", domain.ErrNotFound, bookingID)
	}
	return b.StationID, nil
}

func (l *Ledger) stationsWithPending() []int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]int64, 0, len(l.byStation))
	for id, list := range l.byStation {
		for _, b := range list {
			if b.IsPending() {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Get копия бронирования по id
func (l *Ledger) Get(bookingID string) (*domain.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.bookings[bookingID]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", domain.ErrNotFound, bookingID)
	}
	return b.Clone(), nil
}

// List копии бронирований по фильтру, по возрастанию времени начала
func (l *Ledger) List(filter domain.BookingsFilter) []*domain.Booking {
	l.mu.RLock()
	result := make([]*domain.Booking, 0, len(l.bookings))
	for _, b := range l.bookings {
		if filter.Match(b) {
			result = append(result, b.Clone())
		}
	}
	l.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		if a.ChargerID != b.ChargerID {
			return a.ChargerID < b.ChargerID
		}
		return a.ID < b.ID
	})
	return result
}

// Restore загружает ранее сохранённые бронирования и восстанавливает занятость зарядок.
// Бронирования с уже известным id пропускаются
func (l *Ledger) Restore(ctx context.Context, bookings []*domain.Booking) (int, error) {
	byStation := make(map[int64][]*domain.Booking)
	for _, b := range bookings {
		byStation[b.StationID] = append(byStation[b.StationID], b)
	}

	restored := 0
	for stationID, list := range byStation {
		err := l.stations.WithStation(ctx, stationID, func(h *registry.Handle) error {
			l.mu.Lock()
			defer l.mu.Unlock()

			touched := make(map[int]struct{})
			for _, b := range list {
				if _, exists := l.bookings[b.ID]; exists {
					continue
				}
				if _, err := h.Charger(b.ChargerID); err != nil {
					return err
				}
				l.insert(b.Clone())
				touched[b.ChargerID] = struct{}{}
				restored++
			}
			for chargerID := range touched {
				if err := h.SetOccupiedUntil(chargerID, l.occupiedUntil(stationID, chargerID)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return restored, fmt.Errorf("restore bookings of station %d: %w", stationID, err)
		}
	}
	return restored, nil
}
