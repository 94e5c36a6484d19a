package station

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ChargingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ChargingService/pkg/types"
)

// Repository каталог станций в Postgres (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория станций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LoadAll читает все станции и их зарядки.
// Если у станции нет строк в chargers, зарядки генерируются из total_chargers
func (r *Repository) LoadAll(ctx context.Context) ([]domain.Station, error) {
	stations, totals, err := r.loadStations(ctx)
	if err != nil {
		return nil, err
	}

	chargers, err := r.loadChargers(ctx)
	if err != nil {
		return nil, err
	}

	return attachChargers(stations, totals, chargers), nil
}

func attachChargers(stations []domain.Station, totals map[int64]int, chargers map[int64][]domain.Charger) []domain.Station {
	for i := range stations {
		st := &stations[i]
		if list, ok := chargers[st.ID]; ok && len(list) > 0 {
			st.Chargers = list
			continue
		}
		st.Chargers = domain.GenerateChargers(st.ID, totals[st.ID], st.ConnectorTypes)
	}
	return stations
}

func (r *Repository) loadStations(ctx context.Context) ([]domain.Station, map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"location",
		"latitude",
		"longitude",
		"connector_types",
		"tariff_per_unit",
		"open_time",
		"close_time",
		"timezone",
		"amenities",
		"total_chargers",
	).
		From("stations").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: loadStations - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: loadStations - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0)
	totals := make(map[int64]int)
	for rows.Next() {
		var (
			st         domain.Station
			connectors pq.StringArray
			amenities  pq.StringArray
			openTime   types.TimeString
			closeTime  types.TimeString
			timezone   string
			total      int
		)
		if err := rows.Scan(
			&st.ID,
			&st.Name,
			&st.Location,
			&st.Coordinates.Latitude,
			&st.Coordinates.Longitude,
			&connectors,
			&st.TariffPerUnit,
			&openTime,
			&closeTime,
			&timezone,
			&amenities,
			&total,
		); err != nil {
			return nil, nil, fmt.Errorf("%w: loadStations - scan station: %v", ErrScanRow, err)
		}

		st.ConnectorTypes = make([]domain.ConnectorType, 0, len(connectors))
		for _, c := range connectors {
			st.ConnectorTypes = append(st.ConnectorTypes, domain.ConnectorType(c))
		}
		st.Amenities = []string(amenities)
		zone, err := domain.LoadZone(timezone)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: loadStations - station %d: %v", ErrScanRow, st.ID, err)
		}
		st.OperatingHours = domain.OperatingHours{Open: openTime, Close: closeTime, Location: zone}

		stations = append(stations, st)
		totals[st.ID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: loadStations - iterate rows: %v", ErrScanRow, err)
	}

	return stations, totals, nil
}

func (r *Repository) loadChargers(ctx context.Context) (map[int64][]domain.Charger, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"station_id",
		"id",
		"connector_type",
		"power_kw",
	).
		From("chargers").
		OrderBy("station_id", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadChargers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadChargers - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make(map[int64][]domain.Charger)
	for rows.Next() {
		var (
			c     domain.Charger
			power sql.NullFloat64
		)
		if err := rows.Scan(&c.StationID, &c.ID, &c.ConnectorType, &power); err != nil {
			return nil, fmt.Errorf("%w: loadChargers - scan charger: %v", ErrScanRow, err)
		}
		c.PowerKW = power.Float64
		result[c.StationID] = append(result[c.StationID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadChargers - iterate rows: %v", ErrScanRow, err)
	}

	return result, nil
}
