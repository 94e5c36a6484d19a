package domain

import "time"

// Decision решение аллокатора: тройка (зарядка, начало, конец).
// Ничего не резервирует, резервирование делает журнал бронирований
type Decision struct {
	StationID int64
	ChargerID int
	Start     time.Time
	End       time.Time
	Mode      BookingMode
	Queued    bool // начало взято из ближайшего Occupied-until
}

// AvailableSlot слот в сетке доступности станции
type AvailableSlot struct {
	Start          time.Time
	End            time.Time
	AvailableSpots int // зарядки с разъёмом, свободные на всём окне
	TotalSpots     int // все зарядки с разъёмом
}

// IsFull true, если свободных зарядок нет
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// OccupancyRate занятость в процентах (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	occupied := s.TotalSpots - s.AvailableSpots
	return float64(occupied) / float64(s.TotalSpots) * 100
}
