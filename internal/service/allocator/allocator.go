package allocator

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Allocate выбирает самую раннюю допустимую тройку (зарядка, начало, конец).
// pending - незавершённые бронирования станции. Ничего не резервирует
func Allocate(station *domain.Station, pending []*domain.Booking, req *domain.BookingRequest, now time.Time) (*domain.Decision, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.StationID != station.ID {
		return nil, fmt.Errorf("%w: request for station %d evaluated against station %d",
			domain.ErrInvalidInput, req.StationID, station.ID)
	}

	candidates := station.ChargersWithConnector(req.ConnectorType)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: station %d has no %s charger",
			domain.ErrNoMatchingConnector, station.ID, req.ConnectorType)
	}

	var (
		decision *domain.Decision
		err      error
	)
	if req.Mode() == domain.ModeScheduled {
		decision, err = allocateScheduled(station, candidates, pending, req, now)
	} else {
		decision, err = allocateNextAvailable(station, candidates, pending, req, now)
	}
	if err != nil {
		return nil, err
	}

	if hours := station.OperatingHours; !hours.Covers(decision.Start, decision.End) {
		return nil, fmt.Errorf("%w: station %d is closed for %s-%s (hours %s-%s)",
			domain.ErrSlotUnavailable, station.ID,
			decision.Start.In(hours.Zone()).Format(domain.TimeFormat), decision.End.In(hours.Zone()).Format(domain.TimeFormat),
			station.OperatingHours.Open, station.OperatingHours.Close)
	}
	return decision, nil
}

// allocateNextAvailable зарядка с наименьшим id, свободная на [now, now+duration).
// Если таких нет, ближайшее окно нужной длины среди всех зарядок (очередь)
func allocateNextAvailable(station *domain.Station, candidates []domain.Charger, pending []*domain.Booking, req *domain.BookingRequest, now time.Time) (*domain.Decision, error) {
	duration := req.Duration()

	var (
		best      domain.Charger
		bestStart time.Time
	)
	for i, c := range candidates {
		start := earliestFit(pending, c.ID, now, duration)
		if !start.After(now) {
			return &domain.Decision{
				StationID: station.ID,
				ChargerID: c.ID,
				Start:     now,
				End:       now.Add(duration),
				Mode:      domain.ModeNextAvailable,
			}, nil
		}
		if i == 0 || start.Before(bestStart) {
			best, bestStart = c, start
		}
	}

	if !req.AllowQueue {
		return nil, &domain.QueueError{
			StationID:    station.ID,
			ChargerID:    best.ID,
			EarliestFree: bestStart,
		}
	}

	return &domain.Decision{
		StationID: station.ID,
		ChargerID: best.ID,
		Start:     bestStart,
		End:       bestStart.Add(duration),
		Mode:      domain.ModeNextAvailable,
		Queued:    true,
	}, nil
}

// earliestFit самое раннее начало t >= from, при котором [t, t+duration)
// не пересекается с незавершёнными бронированиями зарядки
func earliestFit(pending []*domain.Booking, chargerID int, from time.Time, duration time.Duration) time.Time {
	own := make([]*domain.Booking, 0, len(pending))
	for _, b := range pending {
		if b.ChargerID == chargerID && b.IsPending() {
			own = append(own, b)
		}
	}
	sort.Slice(own, func(i, j int) bool { return own[i].StartTime.Before(own[j].StartTime) })

	t := from
	for _, b := range own {
		if !b.EndTime.After(t) {
			continue
		}
		if !b.StartTime.Before(t.Add(duration)) {
			break
		}
		t = b.EndTime
	}
	return t
}

// allocateScheduled зарядка с наименьшим id без пересечений на [start, start+duration)
func allocateScheduled(station *domain.Station, candidates []domain.Charger, pending []*domain.Booking, req *domain.BookingRequest, now time.Time) (*domain.Decision, error) {
	start := *req.PreferredStart
	if start.Before(now) {
		return nil, fmt.Errorf("%w: preferred start %s is in the past",
			domain.ErrInvalidInput, start.Format(time.RFC3339))
	}
	end := start.Add(req.Duration())

	for _, c := range candidates {
		if hasOverlap(pending, c.ID, start, end) {
			continue
		}
		return &domain.Decision{
			StationID: station.ID,
			ChargerID: c.ID,
			Start:     start,
			End:       end,
			Mode:      domain.ModeScheduled,
		}, nil
	}

	return nil, fmt.Errorf("%w: all %s chargers at station %d are booked for %s-%s",
		domain.ErrSlotUnavailable, req.ConnectorType, station.ID,
		start.Format(domain.TimeFormat), end.Format(domain.TimeFormat))
}

// FreeChargers число зарядок из candidates без пересечений на [start, end)
func FreeChargers(candidates []domain.Charger, pending []*domain.Booking, start, end time.Time) int {
	free := 0
	for _, c := range candidates {
		if !hasOverlap(pending, c.ID, start, end) {
			free++
		}
	}
	return free
}

func hasOverlap(pending []*domain.Booking, chargerID int, start, end time.Time) bool {
	for _, b := range pending {
		if b.ChargerID == chargerID && b.IsPending() && b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
