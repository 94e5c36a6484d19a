package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Collector приёмник метрик БД
type Collector interface {
	ObserveDBQuery(operation string, elapsed time.Duration, err error)
	SetDBConnections(open, inUse, idle int)
}

// DefaultPoolInterval период сбора статистики пула
const DefaultPoolInterval = 15 * time.Second

// DB обёртка над *sql.DB, замеряющая запросы
type DB struct {
	db        *sql.DB
	collector Collector
}

// Wrap оборачивает db и запускает сбор статистики пула до закрытия stop
func Wrap(db *sql.DB, collector Collector, interval time.Duration, stop <-chan struct{}) *DB {
	w := &DB{db: db, collector: collector}
	go w.collectPoolStats(interval, stop)
	return w
}

// WrapWithDefault Wrap с периодом по умолчанию
func WrapWithDefault(db *sql.DB, collector Collector, stop <-chan struct{}) *DB {
	return Wrap(db, collector, DefaultPoolInterval, stop)
}

func (w *DB) collectPoolStats(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.reportPool()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.reportPool()
		}
	}
}

func (w *DB) reportPool() {
	stats := w.db.Stats()
	w.collector.SetDBConnections(stats.OpenConnections, stats.InUse, stats.Idle)
}

// ExecContext выполняет запрос без результата
func (w *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := w.db.ExecContext(ctx, query, args...)
	w.collector.ObserveDBQuery(Operation(query), time.Since(start), err)
	return res, err
}

// QueryContext выполняет запрос со строками результата
func (w *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := w.db.QueryContext(ctx, query, args...)
	w.collector.ObserveDBQuery(Operation(query), time.Since(start), err)
	return rows, err
}

// QueryRowContext выполняет запрос с одной строкой результата.
// Ошибка станет известна только при Scan, поэтому учитывается только время
func (w *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := w.db.QueryRowContext(ctx, query, args...)
	w.collector.ObserveDBQuery(Operation(query), time.Since(start), nil)
	return row
}

// BeginTx начинает транзакцию, запросы которой тоже замеряются
func (w *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := w.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, collector: w.collector}, nil
}

// PingContext проверяет соединение
func (w *DB) PingContext(ctx context.Context) error {
	return w.db.PingContext(ctx)
}

// Tx транзакция с замером запросов
type Tx struct {
	tx        *sql.Tx
	collector Collector
}

// ExecContext выполняет запрос без результата
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.collector.ObserveDBQuery(Operation(query), time.Since(start), err)
	return res, err
}

// QueryContext выполняет запрос со строками результата
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.collector.ObserveDBQuery(Operation(query), time.Since(start), err)
	return rows, err
}

// QueryRowContext выполняет запрос с одной строкой результата
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.collector.ObserveDBQuery(Operation(query), time.Since(start), nil)
	return row
}

// Commit фиксирует транзакцию
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback откатывает транзакцию
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Operation первое ключевое слово запроса в нижнем регистре: select, insert, update ...
func Operation(query string) string {
	q := strings.TrimSpace(query)
	if i := strings.IndexAny(q, " \t\n("); i > 0 {
		q = q[:i]
	}
	if q == "" {
		return "unknown"
	}
	return strings.ToLower(q)
}
