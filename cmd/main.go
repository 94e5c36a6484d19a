package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/cancel_booking"
	estimateCostHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/estimate_cost"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/get_booking"
	getStationHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/get_station"
	listBookingsHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/list_bookings"
	listStationsHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/list_stations"
	requestBookingHandler "github.com/m04kA/SMC-ChargingService/internal/api/handlers/request_booking"
	"github.com/m04kA/SMC-ChargingService/internal/api/middleware"
	"github.com/m04kA/SMC-ChargingService/internal/api/ws"
	"github.com/m04kA/SMC-ChargingService/internal/config"
	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/infra/events"
	"github.com/m04kA/SMC-ChargingService/internal/infra/seed"
	bookingRepo "github.com/m04kA/SMC-ChargingService/internal/infra/storage/booking"
	stationRepo "github.com/m04kA/SMC-ChargingService/internal/infra/storage/station"
	"github.com/m04kA/SMC-ChargingService/internal/service/bookings"
	"github.com/m04kA/SMC-ChargingService/internal/service/cost"
	"github.com/m04kA/SMC-ChargingService/internal/service/ledger"
	"github.com/m04kA/SMC-ChargingService/internal/service/registry"
	"github.com/m04kA/SMC-ChargingService/internal/service/stations"
	estimateCostUC "github.com/m04kA/SMC-ChargingService/internal/usecase/estimate_cost"
	getAvailableSlotsUC "github.com/m04kA/SMC-ChargingService/internal/usecase/get_available_slots"
	requestBookingUC "github.com/m04kA/SMC-ChargingService/internal/usecase/request_booking"
	"github.com/m04kA/SMC-ChargingService/internal/worker/clock"
	"github.com/m04kA/SMC-ChargingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ChargingService/pkg/logger"
	"github.com/m04kA/SMC-ChargingService/pkg/metrics"
	"github.com/m04kA/SMC-ChargingService/pkg/postgres"
)

// bookingArchive общий интерфейс архива для usecase и сервиса
type bookingArchive interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Save(ctx context.Context, booking *domain.Booking) error
	SaveAll(ctx context.Context, bookings []*domain.Booking) error
}

// eventPublisher общий интерфейс публикации событий
type eventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ChargingService...")
	log.Info("Configuration loaded from %s", configPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Метрики. При выключенных метриках коллекторы пишут в отдельный реестр, который никто не отдаёт
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		metricsCollector, err = metrics.NewWithRegistry(cfg.Metrics.ServiceName, prometheus.NewRegistry())
		if err != nil {
			log.Fatal("Failed to initialize metrics: %v", err)
		}
	}
	stopMetricsCh := make(chan struct{})

	// База данных (опционально)
	var (
		archive       bookingArchive
		bookingsStore *bookingRepo.Repository
		stationsStore *stationRepo.Repository
	)
	if cfg.Database.Enabled {
		var db *sql.DB
		db, err = postgres.Open(postgres.Options{
			Driver:          cfg.Database.Driver,
			DSN:             cfg.Database.DSN(),
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		})
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Info("Successfully connected to database (driver=%s, host=%s, port=%d, db=%s)",
			cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		bookingsStore = bookingRepo.NewRepository(wrappedDB, wrappedDB)
		stationsStore = stationRepo.NewRepository(wrappedDB)
		archive = bookingsStore
	}

	// Каталог станций
	var stationList []domain.Station
	if cfg.Database.LoadStations {
		stationList, err = stationsStore.LoadAll(ctx)
		if err != nil {
			log.Fatal("Failed to load stations from database: %v", err)
		}
		log.Info("Loaded %d stations from database", len(stationList))
	} else {
		stationList, err = seed.LoadFile(cfg.Seed.File)
		if err != nil {
			log.Fatal("Failed to load stations seed: %v", err)
		}
		log.Info("Loaded %d stations from %s", len(stationList), cfg.Seed.File)
	}

	stationRegistry := registry.New()
	if err := stationRegistry.Load(stationList); err != nil {
		log.Fatal("Invalid station catalog: %v", err)
	}

	estimator := cost.NewEstimator(cfg.Booking.AssumedPowerKW)
	bookingLedger := ledger.New(stationRegistry, estimator)

	// Восстанавливаем бронирования из архива
	if bookingsStore != nil {
		var stored []*domain.Booking
		if cfg.Booking.RestoreHistory {
			stored, err = bookingsStore.List(ctx, domain.BookingsFilter{})
		} else {
			stored, err = bookingsStore.ListPending(ctx)
		}
		if err != nil {
			log.Fatal("Failed to read stored bookings: %v", err)
		}
		restored, err := bookingLedger.Restore(ctx, stored)
		if err != nil {
			log.Fatal("Failed to restore bookings: %v", err)
		}
		log.Info("Restored %d of %d stored bookings (history=%t)", restored, len(stored), cfg.Booking.RestoreHistory)
	}

	// Websocket hub и события
	hub := ws.NewHub(ws.DefaultWriteTimeout, metricsCollector, log)
	defer hub.Close()

	var publisher eventPublisher
	if cfg.Redis.Enabled {
		redisClient, err := events.NewRedisClient(ctx, events.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		publisher = events.NewRedisPublisher(redisClient, cfg.Redis.Channel, metricsCollector)
		subscriber := events.NewSubscriber(redisClient, cfg.Redis.Channel, hub, log)
		go func() {
			if err := subscriber.Run(ctx); err != nil {
				log.Error("Event subscriber stopped: %v", err)
			}
		}()
		log.Info("Booking events published to redis channel %s", cfg.Redis.Channel)
	} else {
		publisher = events.NewLocalPublisher(hub, metricsCollector)
		log.Info("Booking events delivered in-process")
	}

	// Инициализируем сервисы
	bookingSvc := bookings.NewService(bookingLedger, stationRegistry, archive, publisher, metricsCollector, log)
	stationSvc := stations.NewService(stationRegistry, bookingSvc, log)

	// Инициализируем use cases
	requestBookingUseCase := requestBookingUC.NewUseCase(
		stationRegistry,
		bookingLedger,
		bookingSvc,
		archive,
		publisher,
		metricsCollector,
		log,
	)
	estimateCostUseCase := estimateCostUC.NewUseCase(stationRegistry, estimator, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		stationRegistry,
		bookingLedger,
		bookingSvc,
		getAvailableSlotsUC.Options{
			SlotStepMinutes:    cfg.Booking.SlotStepMinutes,
			AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
			MinNoticeMinutes:   cfg.Booking.MinNoticeMinutes,
		},
		log,
	)

	// Часы бронирований
	clockWorker := clock.NewWorker(bookingSvc, cfg.Booking.ClockInterval(), log)
	go clockWorker.Start(ctx)

	// Инициализируем handlers
	listStations := listStationsHandler.NewHandler(stationSvc, log)
	getStation := getStationHandler.NewHandler(stationSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	estimateCost := estimateCostHandler.NewHandler(estimateCostUseCase, log)
	requestBooking := requestBookingHandler.NewHandler(requestBookingUseCase, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Статусы бронирований в реальном времени
	r.Handle("/ws/bookings", hub).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Станции ---
	api.HandleFunc("/stations", listStations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stations/{stationId}", getStation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stations/{stationId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stations/{stationId}/cost-estimate", estimateCost.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	api.HandleFunc("/bookings", requestBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем воркер часов, подписчика событий и сбор метрик пула
	cancel()
	close(stopMetricsCh)

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
