package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ChargingService/pkg/psqlbuilder"
)

var bookingColumns = []string{
	"id",
	"station_id",
	"charger_id",
	"connector_type",
	"mode",
	"queued",
	"battery_capacity_kwh",
	"current_charge_percent",
	"start_time",
	"end_time",
	"status",
	"estimated_cost",
	"actual_cost",
	"forfeited_cost",
	"notes",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository архив бронирований в Postgres.
// Источник истины для занятости зарядок остаётся в памяти, здесь только копия для перезапуска
type Repository struct {
	db DBExecutor
	tx TxBeginner
}

// NewRepository создает новый экземпляр репозитория бронирований.
// tx может быть nil, тогда SaveAll выполняется без транзакции
func NewRepository(db DBExecutor, tx TxBeginner) *Repository {
	return &Repository{db: db, tx: tx}
}

// Save сохраняет бронирование. Повторный вызов обновляет статус и стоимость
func (r *Repository) Save(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := upsertQuery(booking)
	if err != nil {
		return fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// SaveAll сохраняет пачку бронирований в одной транзакции
func (r *Repository) SaveAll(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	if r.tx == nil || dbmetrics.IsInTransaction(ctx) {
		for _, b := range bookings {
			if err := r.Save(ctx, b); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.tx.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: SaveAll - begin: %v", ErrTransaction, err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)
	for _, b := range bookings {
		if err := r.Save(txCtx, b); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: SaveAll - commit: %v", ErrTransaction, err)
	}
	return nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: GetByID - id=%s", ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListPending бронирования, которые ещё удерживают зарядку (upcoming, active)
func (r *Repository) ListPending(ctx context.Context) ([]*domain.Booking, error) {
	status := make([]string, len(domain.PendingStatuses))
	for i, s := range domain.PendingStatuses {
		status[i] = string(s)
	}
	return r.list(ctx, squirrel.Eq{"status": status})
}

// List бронирования по фильтру, отсортированные по времени начала
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	conditions := squirrel.And{}
	if filter.Status != nil {
		conditions = append(conditions, squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.StationID != nil {
		conditions = append(conditions, squirrel.Eq{"station_id": *filter.StationID})
	}
	return r.list(ctx, conditions)
}

func (r *Repository) list(ctx context.Context, where squirrel.Sqlizer) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listQuery(where)
	if err != nil {
		return nil, fmt.Errorf("%w: list - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: list - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list - iterate rows: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func upsertQuery(b *domain.Booking) (string, []interface{}, error) {
	return psqlbuilder.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			b.ID,
			b.StationID,
			b.ChargerID,
			string(b.ConnectorType),
			string(b.Mode),
			b.Queued,
			b.Vehicle.BatteryCapacityKWh,
			b.Vehicle.CurrentChargePercent,
			b.StartTime,
			b.EndTime,
			string(b.Status),
			b.EstimatedCost,
			b.ActualCost,
			b.ForfeitedCost,
			b.Notes,
			b.CancelledAt,
			b.CreatedAt,
			b.UpdatedAt,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			actual_cost = EXCLUDED.actual_cost,
			forfeited_cost = EXCLUDED.forfeited_cost,
			cancelled_at = EXCLUDED.cancelled_at,
			updated_at = EXCLUDED.updated_at`).
		ToSql()
}

func listQuery(where squirrel.Sqlizer) (string, []interface{}, error) {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		OrderBy("start_time", "charger_id", "id").
		ToSql()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b             domain.Booking
		connector     string
		mode          string
		status        string
		actualCost    sql.NullFloat64
		forfeitedCost sql.NullFloat64
		notes         sql.NullString
		cancelledAt   sql.NullTime
		createdAt     sql.NullTime
		updatedAt     sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.StationID,
		&b.ChargerID,
		&connector,
		&mode,
		&b.Queued,
		&b.Vehicle.BatteryCapacityKWh,
		&b.Vehicle.CurrentChargePercent,
		&b.StartTime,
		&b.EndTime,
		&status,
		&b.EstimatedCost,
		&actualCost,
		&forfeitedCost,
		&notes,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.ConnectorType = domain.ConnectorType(connector)
	b.Mode = domain.BookingMode(mode)
	b.Status = domain.BookingStatus(status)
	if actualCost.Valid {
		b.ActualCost = &actualCost.Float64
	}
	if forfeitedCost.Valid {
		b.ForfeitedCost = &forfeitedCost.Float64
	}
	if notes.Valid {
		b.Notes = &notes.String
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
