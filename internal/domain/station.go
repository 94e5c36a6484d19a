package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-ChargingService/pkg/types"
)

// ConnectorType стандарт разъёма (CCS2, Type 2, CHAdeMO ...)
type ConnectorType string

// Normalize приводит к виду для сравнения: без пробелов, верхний регистр
// "Type 2" и "type2" считаются одним разъёмом
func (c ConnectorType) Normalize() string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(string(c)), " ", ""))
}

// Matches сравнивает разъёмы без учёта регистра и пробелов
func (c ConnectorType) Matches(other ConnectorType) bool {
	return c.Normalize() == other.Normalize()
}

// GeoPoint координаты станции
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Validate проверяет диапазоны широты и долготы
func (p GeoPoint) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: coordinates out of range (%f, %f)", ErrInvalidInput, p.Latitude, p.Longitude)
	}
	return nil
}

// OperatingHours окно работы станции. Пустые Open и Close = круглосуточно
type OperatingHours struct {
	Open  types.TimeString
	Close types.TimeString
	// Location часовой пояс станции, nil = time.Local
	Location *time.Location
}

// Zone часовой пояс, в котором читаются Open и Close
func (h OperatingHours) Zone() *time.Location {
	if h.Location == nil {
		return time.Local
	}
	return h.Location
}

// LoadZone разбирает имя часового пояса IANA. Пустое имя = nil (time.Local)
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidInput, name, err)
	}
	return loc, nil
}

// IsAlwaysOpen true для круглосуточной станции
func (h OperatingHours) IsAlwaysOpen() bool {
	return h.Open.IsZero() && h.Close.IsZero()
}

// Validate требует оба значения и Open < Close
func (h OperatingHours) Validate() error {
	if h.IsAlwaysOpen() {
		return nil
	}
	if err := h.Open.Validate(); err != nil {
		return fmt.Errorf("%w: open time: %v", ErrInvalidInput, err)
	}
	if err := h.Close.Validate(); err != nil {
		return fmt.Errorf("%w: close time: %v", ErrInvalidInput, err)
	}
	if !h.Open.IsBefore(h.Close) {
		return fmt.Errorf("%w: open time %s must be before close time %s", ErrInvalidInput, h.Open, h.Close)
	}
	return nil
}

// Covers проверяет, что [start, end) целиком внутри окна работы в день start.
// Момент переводится в пояс станции, смещение в запросе на результат не влияет
func (h OperatingHours) Covers(start, end time.Time) bool {
	if h.IsAlwaysOpen() {
		return true
	}
	start, end = start.In(h.Zone()), end.In(h.Zone())
	open := h.Open.On(start)
	closeAt := h.Close.On(start)
	return !start.Before(open) && !end.After(closeAt)
}

// Charger одна физическая зарядка. OccupiedUntil == nil означает Free
type Charger struct {
	ID            int
	StationID     int64
	ConnectorType ConnectorType
	PowerKW       float64 // 0 = используется мощность по умолчанию
	OccupiedUntil *time.Time
}

// IsFree true, если на зарядке нет ни одного незавершённого бронирования
func (c Charger) IsFree() bool {
	return c.OccupiedUntil == nil
}

// Label отображаемое имя зарядки, например CH-03
func (c Charger) Label() string {
	return fmt.Sprintf("CH-%02d", c.ID)
}

// Station зарядная станция и её зарядки
type Station struct {
	ID             int64
	Name           string
	Location       string
	Coordinates    GeoPoint
	ConnectorTypes []ConnectorType
	TariffPerUnit  float64 // валюта за кВт·ч
	OperatingHours OperatingHours
	Amenities      []string
	Chargers       []Charger
}

// TotalChargers общее число зарядок
func (s *Station) TotalChargers() int {
	return len(s.Chargers)
}

// AvailableChargers число свободных зарядок
func (s *Station) AvailableChargers() int {
	available := 0
	for _, c := range s.Chargers {
		if c.IsFree() {
			available++
		}
	}
	return available
}

// SupportsConnector true, если разъём есть в наборе станции
func (s *Station) SupportsConnector(connector ConnectorType) bool {
	for _, c := range s.ConnectorTypes {
		if c.Matches(connector) {
			return true
		}
	}
	return false
}

// HasAvailableCharger true, если есть свободная зарядка (опционально с нужным разъёмом)
func (s *Station) HasAvailableCharger(connector ConnectorType) bool {
	for _, c := range s.Chargers {
		if !c.IsFree() {
			continue
		}
		if connector == "" || c.ConnectorType.Matches(connector) {
			return true
		}
	}
	return false
}

// ChargersWithConnector зарядки с разъёмом, отсортированные по ID
func (s *Station) ChargersWithConnector(connector ConnectorType) []Charger {
	result := make([]Charger, 0, len(s.Chargers))
	for _, c := range s.Chargers {
		if c.ConnectorType.Matches(connector) {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Clone глубокая копия: вызывающий код не может изменить состояние реестра
func (s *Station) Clone() Station {
	out := *s
	out.ConnectorTypes = append([]ConnectorType(nil), s.ConnectorTypes...)
	out.Amenities = append([]string(nil), s.Amenities...)
	out.Chargers = make([]Charger, len(s.Chargers))
	for i, c := range s.Chargers {
		if c.OccupiedUntil != nil {
			until := *c.OccupiedUntil
			c.OccupiedUntil = &until
		}
		out.Chargers[i] = c
	}
	return out
}

// Validate проверяет инварианты станции
func (s *Station) Validate() error {
	if s.ID <= 0 {
		return fmt.Errorf("%w: station id must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: station %d: name is required", ErrInvalidInput, s.ID)
	}
	if len(s.ConnectorTypes) == 0 {
		return fmt.Errorf("%w: station %d: connector types must not be empty", ErrInvalidInput, s.ID)
	}
	if s.TariffPerUnit <= 0 {
		return fmt.Errorf("%w: station %d: tariff must be positive", ErrInvalidInput, s.ID)
	}
	if err := s.Coordinates.Validate(); err != nil {
		return fmt.Errorf("station %d: %w", s.ID, err)
	}
	if err := s.OperatingHours.Validate(); err != nil {
		return fmt.Errorf("station %d: %w", s.ID, err)
	}

	seen := make(map[int]struct{}, len(s.Chargers))
	for _, c := range s.Chargers {
		if c.ID <= 0 {
			return fmt.Errorf("%w: station %d: charger id must be positive", ErrInvalidInput, s.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: station %d: duplicate charger id %d", ErrInvalidInput, s.ID, c.ID)
		}
		seen[c.ID] = struct{}{}
		if !s.SupportsConnector(c.ConnectorType) {
			return fmt.Errorf("%w: station %d: charger %d connector %q not in station connector set",
				ErrInvalidInput, s.ID, c.ID, c.ConnectorType)
		}
		if c.PowerKW < 0 {
			return fmt.Errorf("%w: station %d: charger %d power must not be negative", ErrInvalidInput, s.ID, c.ID)
		}
	}
	return nil
}

// GenerateChargers создаёт total зарядок, распределяя разъёмы по кругу
func GenerateChargers(stationID int64, total int, connectors []ConnectorType) []Charger {
	if total <= 0 || len(connectors) == 0 {
		return []Charger{}
	}
	chargers := make([]Charger, total)
	for i := 0; i < total; i++ {
		chargers[i] = Charger{
			ID:            i + 1,
			StationID:     stationID,
			ConnectorType: connectors[i%len(connectors)],
		}
	}
	return chargers
}

// StationFilter фильтр списка станций. Пустые поля не ограничивают выборку
type StationFilter struct {
	Query         string        // подстрока в названии или адресе, без учёта регистра
	Connector     ConnectorType // станция поддерживает разъём
	OnlyAvailable bool          // есть свободная зарядка (с учётом Connector, если задан)
	Near          *GeoPoint     // сортировать по расстоянию от точки
}

// Match проверяет станцию на соответствие фильтру
func (f StationFilter) Match(s *Station) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(s.Name), q) && !strings.Contains(strings.ToLower(s.Location), q) {
			return false
		}
	}
	if f.Connector != "" && !s.SupportsConnector(f.Connector) {
		return false
	}
	if f.OnlyAvailable && !s.HasAvailableCharger(f.Connector) {
		return false
	}
	return true
}
