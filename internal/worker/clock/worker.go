package clock

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
)

// Advancer продвигает часы журнала бронирований
type Advancer interface {
	AdvanceClock(ctx context.Context, now time.Time) (int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

// Worker периодически переводит бронирования Upcoming -> Active -> Completed
type Worker struct {
	advancer     Advancer
	interval     time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewWorker создает воркер
func NewWorker(advancer Advancer, interval time.Duration, logger Logger) *Worker {
	if interval <= 0 {
		interval = domain.DefaultClockIntervalSeconds * time.Second
	}
	return &Worker{
		advancer:     advancer,
		interval:     interval,
		timeProvider: realTime{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (w *Worker) WithTimeProvider(tp TimeProvider) *Worker {
	w.timeProvider = tp
	return w
}

// Start блокируется до отмены ctx. Первый тик выполняется сразу
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("ClockWorker: started interval=%s", w.interval)
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("ClockWorker: stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	now := w.timeProvider.Now()

	changed, err := w.advancer.AdvanceClock(ctx, now)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("ClockWorker: advance failed now=%s: %v", now.Format(time.RFC3339), err)
		return
	}

	if changed > 0 {
		w.logger.Info("ClockWorker: advanced now=%s, transitions=%d", now.Format(time.RFC3339), changed)
	}
}
