package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"

	defaultPingTimeout = 5 * time.Second
)

var (
	// ErrEmptyDSN возвращается при пустой строке подключения
	ErrEmptyDSN = errors.New("postgres: empty DSN")

	// ErrUnknownDriver возвращается для неподдерживаемого драйвера
	ErrUnknownDriver = errors.New("postgres: unknown driver")
)

// Options параметры пула соединений
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open открывает пул через lib/pq или pgx/stdlib и проверяет соединение
func Open(opts Options) (*sql.DB, error) {
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, ErrEmptyDSN
	}

	driver, err := resolveDriver(opts.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return db, nil
}

func resolveDriver(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DriverPQ:
		return DriverPQ, nil
	case DriverPGX:
		return DriverPGX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
}
