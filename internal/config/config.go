package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrReadConfig ошибка чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig конфигурация не прошла проверку
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Booking  BookingConfig  `toml:"booking"`
	Seed     SeedConfig     `toml:"seed"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// LogsConfig параметры логгера
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig параметры prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DatabaseConfig подключение к Postgres.
// При enabled=false станции читаются из seed файла, архив бронирований не ведётся
type DatabaseConfig struct {
	Enabled         bool   `toml:"enabled"`
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	LoadStations    bool   `toml:"load_stations"`
}

// DSN строка подключения
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig канал событий бронирований
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

// BookingConfig параметры распределения слотов
type BookingConfig struct {
	AssumedPowerKW       float64 `toml:"assumed_power_kw"`
	SlotStepMinutes      int     `toml:"slot_step_minutes"`
	AdvanceBookingDays   int     `toml:"advance_booking_days"`
	MinNoticeMinutes     int     `toml:"min_notice_minutes"`
	ClockIntervalSeconds int     `toml:"clock_interval_seconds"`
	RestoreHistory       bool    `toml:"restore_history"` // поднимать из БД и завершённые бронирования
}

// ClockInterval период продвижения часов
func (c BookingConfig) ClockInterval() time.Duration {
	return time.Duration(c.ClockIntervalSeconds) * time.Second
}

// SeedConfig файл со станциями
type SeedConfig struct {
	File string `toml:"file"`
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "smc-chargingservice",
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			Channel: "bookings:events",
		},
		Booking: BookingConfig{
			AssumedPowerKW:       30,
			SlotStepMinutes:      30,
			AdvanceBookingDays:   14,
			MinNoticeMinutes:     0,
			ClockIntervalSeconds: 30,
		},
		Seed: SeedConfig{
			File: "configs/stations.yaml",
		},
	}
}

// Load читает TOML поверх значений по умолчанию и проверяет результат
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}
	return Parse(string(data))
}

// Parse разбирает TOML из строки
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range: %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("%w: metrics.path must start with /", ErrInvalidConfig)
	}
	if c.Database.Enabled {
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
		}
		if c.Database.Driver != "postgres" && c.Database.Driver != "pgx" {
			return fmt.Errorf("%w: database.driver must be postgres or pgx", ErrInvalidConfig)
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required", ErrInvalidConfig)
	}
	if c.Booking.AssumedPowerKW <= 0 {
		return fmt.Errorf("%w: booking.assumed_power_kw must be positive", ErrInvalidConfig)
	}
	if c.Booking.SlotStepMinutes <= 0 {
		return fmt.Errorf("%w: booking.slot_step_minutes must be positive", ErrInvalidConfig)
	}
	if c.Booking.AdvanceBookingDays <= 0 {
		return fmt.Errorf("%w: booking.advance_booking_days must be positive", ErrInvalidConfig)
	}
	if c.Booking.MinNoticeMinutes < 0 {
		return fmt.Errorf("%w: booking.min_notice_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Booking.ClockIntervalSeconds <= 0 {
		return fmt.Errorf("%w: booking.clock_interval_seconds must be positive", ErrInvalidConfig)
	}
	if c.Database.LoadStations && !c.Database.Enabled {
		return fmt.Errorf("%w: database.load_stations requires database.enabled", ErrInvalidConfig)
	}
	if !c.Database.LoadStations && c.Seed.File == "" {
		return fmt.Errorf("%w: seed.file is required when stations are not loaded from database", ErrInvalidConfig)
	}
	return nil
}
