package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

type entry struct {
	mu      sync.Mutex
	station domain.Station
}

// Registry реестр станций и их зарядок.
// Занятость зарядок меняется только через Handle внутри WithStation
type Registry struct {
	mu       sync.RWMutex
	stations map[int64]*entry
	order    []int64
}

// New создаёт пустой реестр
func New() *Registry {
	return &Registry{
		stations: make(map[int64]*entry),
	}
}

// Load заменяет содержимое реестра. Вызывается при старте, до обработки запросов
func (r *Registry) Load(stations []domain.Station) error {
	loaded := make(map[int64]*entry, len(stations))
	order := make([]int64, 0, len(stations))

	for i := range stations {
		st := stations[i].Clone()
		for j := range st.Chargers {
			st.Chargers[j].StationID = st.ID
		}
		if err := st.Validate(); err != nil {
			return err
		}
		if _, dup := loaded[st.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateStation, st.ID)
		}
		loaded[st.ID] = &entry{station: st}
		order = append(order, st.ID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	r.mu.Lock()
	r.stations = loaded
	r.order = order
	r.mu.Unlock()
	return nil
}

func (r *Registry) lookup(id int64) (*entry, error) {
	r.mu.RLock()
	e, ok := r.stations[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: station %d", domain.ErrNotFound, id)
	}
	return e, nil
}

// Get возвращает копию станции
func (r *Registry) Get(id int64) (*domain.Station, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	st := e.station.Clone()
	e.mu.Unlock()
	return &st, nil
}

// List возвращает копии станций, подходящих под фильтр.
// По умолчанию упорядочены по id, при заданном Near по расстоянию
func (r *Registry) List(filter domain.StationFilter) []*domain.Station {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.order))
	for _, id := range r.order {
		entries = append(entries, r.stations[id])
	}
	r.mu.RUnlock()

	result := make([]*domain.Station, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		st := e.station.Clone()
		e.mu.Unlock()
		if filter.Match(&st) {
			result = append(result, &st)
		}
	}

	if filter.Near != nil {
		origin := *filter.Near
		sort.SliceStable(result, func(i, j int) bool {
			return domain.DistanceKm(origin, result[i].Coordinates) < domain.DistanceKm(origin, result[j].Coordinates)
		})
	}
	return result
}

// WithStation выполняет fn под блокировкой станции.
// Операции разных станций не блокируют друг друга
func (r *Registry) WithStation(ctx context.Context, id int64, fn func(h *Handle) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, err := r.lookup(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	h := &Handle{entry: e}
	defer h.release()
	return fn(h)
}

// Handle доступ к станции внутри критической секции.
// После выхода из WithStation все методы, читающие или меняющие состояние,
// возвращают ErrHandleReleased
type Handle struct {
	entry    *entry
	released atomic.Bool
}

func (h *Handle) release() {
	h.released.Store(true)
}

// StationID id станции. Id не меняется после загрузки, поэтому доступен и после выхода
func (h *Handle) StationID() int64 {
	return h.entry.station.ID
}

// Station копия текущего состояния станции
func (h *Handle) Station() (domain.Station, error) {
	if h.released.Load() {
		return domain.Station{}, ErrHandleReleased
	}
	return h.entry.station.Clone(), nil
}

// Charger копия зарядки по id
func (h *Handle) Charger(chargerID int) (domain.Charger, error) {
	if h.released.Load() {
		return domain.Charger{}, ErrHandleReleased
	}
	for _, c := range h.entry.station.Chargers {
		if c.ID == chargerID {
			if c.OccupiedUntil != nil {
				until := *c.OccupiedUntil
				c.OccupiedUntil = &until
			}
			return c, nil
		}
	}
	return domain.Charger{}, fmt.Errorf("%w: charger %d at station %d", domain.ErrNotFound, chargerID, h.entry.station.ID)
}

// SetOccupiedUntil выставляет занятость зарядки. nil освобождает зарядку
func (h *Handle) SetOccupiedUntil(chargerID int, until *time.Time) error {
	if h.released.Load() {
		return ErrHandleReleased
	}
	chargers := h.entry.station.Chargers
	for i := range chargers {
		if chargers[i].ID != chargerID {
			continue
		}
		if until == nil {
			chargers[i].OccupiedUntil = nil
		} else {
			t := *until
			chargers[i].OccupiedUntil = &t
		}
		return nil
	}
	return fmt.Errorf("%w: charger %d at station %d", domain.ErrNotFound, chargerID, h.entry.station.ID)
}
