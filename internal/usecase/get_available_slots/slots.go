package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/allocator"
)

// generateSlotStarts генерирует начала слотов в пределах часов работы на дату.
// Слот [start, start+duration) должен целиком помещаться до закрытия.
// Сегодня отбрасываются слоты, начинающиеся раньше now+minNotice.
// Календарная дата date читается в часовом поясе станции
func generateSlotStarts(
	hours domain.OperatingHours,
	date time.Time,
	step time.Duration,
	duration time.Duration,
	now time.Time,
	minNotice time.Duration,
) []time.Time {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, hours.Zone())
	if isDateInPast(dayStart, now) {
		return []time.Time{}
	}

	open, closeAt := dayStart, dayStart.AddDate(0, 0, 1)
	if !hours.IsAlwaysOpen() {
		open = hours.Open.On(dayStart)
		closeAt = hours.Close.On(dayStart)
	}

	minStart := now.Add(minNotice)
	starts := make([]time.Time, 0)
	for start := open; !start.Add(duration).After(closeAt); start = start.Add(step) {
		if start.Before(minStart) {
			continue
		}
		starts = append(starts, start)
	}
	return starts
}

// calculateAvailableSpots считает зарядки с разъёмом, свободные на всём окне каждого слота
func calculateAvailableSpots(
	starts []time.Time,
	duration time.Duration,
	candidates []domain.Charger,
	pending []*domain.Booking,
) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, len(starts))
	for i, start := range starts {
		end := start.Add(duration)
		result[i] = domain.AvailableSlot{
			Start:          start,
			End:            end,
			AvailableSpots: allocator.FreeChargers(candidates, pending, start, end),
			TotalSpots:     len(candidates),
		}
	}
	return result
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowLocal := now.In(date.Location())
	nowOnly := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, date.Location())
	return dateOnly.Before(nowOnly)
}

// isTooFar проверяет ограничение на бронирование вперёд
func isTooFar(date, now time.Time, advanceBookingDays int) bool {
	if advanceBookingDays <= 0 {
		return false
	}
	nowLocal := now.In(date.Location())
	maxDate := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, date.Location()).
		AddDate(0, 0, advanceBookingDays)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return dateOnly.After(maxDate)
}
