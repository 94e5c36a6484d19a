package ledger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/allocator"
	"github.com/m04kA/SMC-ChargingService/internal/service/cost"
	"github.com/m04kA/SMC-ChargingService/internal/service/registry"
	"github.com/m04kA/SMC-ChargingService/pkg/ptr"
)

const stationID int64 = 5

var t0 = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*registry.Registry, *Ledger) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Load([]domain.Station{{
		ID:             stationID,
		Name:           "Two Plug Station",
		ConnectorTypes: []domain.ConnectorType{"CCS2"},
		TariffPerUnit:  10,
		Chargers:       domain.GenerateChargers(stationID, 2, []domain.ConnectorType{"CCS2"}),
	}}))
	return reg, New(reg, cost.NewEstimator(30))
}

func request(minutes int) *domain.BookingRequest {
	return &domain.BookingRequest{
		StationID:       stationID,
		ConnectorType:   "CCS2",
		Vehicle:         domain.VehicleProfile{BatteryCapacityKWh: 60, CurrentChargePercent: 40},
		DurationMinutes: minutes,
	}
}

// book allocates and accepts inside one critical section
func book(t *testing.T, reg *registry.Registry, l *Ledger, req *domain.BookingRequest, now time.Time) (*domain.Booking, error) {
	t.Helper()
	var result *domain.Booking
	err := reg.WithStation(context.Background(), req.StationID, func(h *registry.Handle) error {
		st, err := h.Station()
		if err != nil {
			return err
		}
		d, err := allocator.Allocate(&st, l.Pending(h), req, now)
		if err != nil {
			return err
		}
		result, err = l.Accept(h, req, d, now)
		return err
	})
	return result, err
}

func TestLedger_AcceptOccupiesCharger(t *testing.T) {
	reg, l := setup(t)

	b, err := book(t, reg, l, request(60), t0)
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, 1, b.ChargerID)
	assert.Equal(t, domain.StatusUpcoming, b.Status)
	assert.InDelta(t, 300.0, b.EstimatedCost, 0.001)
	assert.Nil(t, b.ActualCost)

	st, err := reg.Get(stationID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.AvailableChargers())
	require.NotNil(t, st.Chargers[0].OccupiedUntil)
	assert.Equal(t, t0.Add(time.Hour), *st.Chargers[0].OccupiedUntil)
}

func TestLedger_TwoChargerScenario(t *testing.T) {
	reg, l := setup(t)

	first, err := book(t, reg, l, request(60), t0)
	require.NoError(t, err)
	second, err := book(t, reg, l, request(90), t0)
	require.NoError(t, err)

	assert.Equal(t, 1, first.ChargerID)
	assert.Equal(t, 2, second.ChargerID)

	_, err = book(t, reg, l, request(30), t0)
	require.ErrorIs(t, err, domain.ErrSlotUnavailable)
	var qe *domain.QueueError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, first.EndTime, qe.EarliestFree)
	assert.Equal(t, 1, qe.ChargerID)

	assert.Len(t, l.List(domain.BookingsFilter{}), 2)
}

func TestLedger_IdleChargerWithLaterBookingServesNow(t *testing.T) {
	reg, l := setup(t)

	tomorrow := request(60)
	tomorrow.PreferredStart = ptr.Ptr(t0.Add(24 * time.Hour))
	scheduled, err := book(t, reg, l, tomorrow, t0)
	require.NoError(t, err)
	require.Equal(t, 1, scheduled.ChargerID)

	now, err := book(t, reg, l, request(60), t0)
	require.NoError(t, err)
	assert.Equal(t, 1, now.ChargerID)
	assert.Equal(t, t0, now.StartTime)
	assert.False(t, now.Queued)

	other, err := book(t, reg, l, request(60), t0)
	require.NoError(t, err)
	assert.Equal(t, 2, other.ChargerID)

	// обе зарядки заняты до t0+1h, следующее окно на зарядке 1 до завтрашней брони
	queued := request(60)
	queued.AllowQueue = true
	next, err := book(t, reg, l, queued, t0)
	require.NoError(t, err)
	assert.True(t, next.Queued)
	assert.Equal(t, 1, next.ChargerID)
	assert.Equal(t, t0.Add(time.Hour), next.StartTime)
}

func TestLedger_NextAvailableSkipsChargerBookedSoon(t *testing.T) {
	reg, l := setup(t)

	soon := request(60)
	soon.PreferredStart = ptr.Ptr(t0.Add(30 * time.Minute))
	scheduled, err := book(t, reg, l, soon, t0)
	require.NoError(t, err)
	require.Equal(t, 1, scheduled.ChargerID)

	b, err := book(t, reg, l, request(60), t0)
	require.NoError(t, err)
	assert.Equal(t, 2, b.ChargerID)
	assert.Equal(t, t0, b.StartTime)

	short, err := book(t, reg, l, request(30), t0)
	require.NoError(t, err)
	assert.Equal(t, 1, short.ChargerID)
	assert.Equal(t, t0, short.StartTime)
}

func TestLedger_AcceptRevalidates(t *testing.T) {
	reg, l := setup(t)
	req := request(60)

	var stale *domain.Decision
	err := reg.WithStation(context.Background(), stationID, func(h *registry.Handle) error {
		st, err := h.Station()
		if err != nil {
			return err
		}
		stale, err = allocator.Allocate(&st, l.Pending(h), req, t0)
		return err
	})
	require.NoError(t, err)

	_, err = book(t, reg, l, request(60), t0)
	require.NoError(t, err)

	err = reg.WithStation(context.Background(), stationID, func(h *registry.Handle) error {
		_, err := l.Accept(h, req, stale, t0)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
	assert.Len(t, l.List(domain.BookingsFilter{}), 1)
}

func TestLedger_AcceptRejectsScheduledOverlap(t *testing.T) {
	reg, l := setup(t)
	req := request(60)
	req.PreferredStart = ptr.Ptr(t0.Add(2 * time.Hour))

	b, err := book(t, reg, l, req, t0)
	require.NoError(t, err)

	err = reg.WithStation(context.Background(), stationID, func(h *registry.Handle) error {
		d := &domain.Decision{
			StationID: stationID,
			ChargerID: b.ChargerID,
			Start:     b.StartTime.Add(30 * time.Minute),
			End:       b.EndTime.Add(30 * time.Minute),
			Mode:      domain.ModeScheduled,
		}
		_, err := l.Accept(h, req, d, t0)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestLedger_AcceptRejectsMalformedDecision(t *testing.T) {
	reg, l := setup(t)
	req := request(60)

	err := reg.WithStation(context.Background(), stationID, func(h *registry.Handle) error {
		_, err := l.Accept(h, req, &domain.Decision{StationID: stationID, ChargerID: 1, Start: t0, End: t0.Add(time.Minute)}, t0)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = reg.WithStation(context.Background(), stationID, func(h *registry.Handle) error {
		_, err := l.Accept(h, req, &domain.Decision{StationID: stationID, ChargerID: 9, Start: t0, End: t0.Add(time.Hour)}, t0)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_Cancel(t *testing.T) {
	reg, l := setup(t)

	b, err := book(t, reg, l, request(60), t0)
	require.NoError(t, err)

	cancelled, err := l.Cancel(context.Background(), b.ID, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Nil(t, cancelled.ForfeitedCost)

	st, err := reg.Get(stationID)
	require.NoError(t, err)
	assert.Equal(t, 2, st.AvailableChargers())

	_, err = l.Cancel(context.Background(), b.ID, t0.Add(2*time.Minute))
	assert.ErrorIs(t, err, domain.ErrNotCancellable)

	_, err = l.Cancel(context.Background(), "missing", t0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_CancelActiveForfeitsElapsedCost(t *testing.T) {
	reg, l := setup(t)

	b, err := book(t, reg, l, request(60), t0)
	require.NoError(t, err)

	_, err = l.AdvanceClock(context.Background(), t0.Add(10*time.Minute))
	require.NoError(t, err)

	cancelled, err := l.Cancel(context.Background(), b.ID, t0.Add(30*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, cancelled.ForfeitedCost)
	assert.InDelta(t, 150.0, *cancelled.ForfeitedCost, 0.001)
	assert.Nil(t, cancelled.ActualCost)
}

func TestLedger_CancelKeepsChargerHeldByOtherBooking(t *testing.T) {
	reg, l := setup(t)

	later := request(60)
	later.PreferredStart = ptr.Ptr(t0.Add(3 * time.Hour))
	scheduled, err := book(t, reg, l, later, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, scheduled.ChargerID)

	earlier := request(60)
	earlier.PreferredStart = ptr.Ptr(t0.Add(time.Hour))
	first, err := book(t, reg, l, earlier, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ChargerID)

	_, err = l.Cancel(context.Background(), first.ID, t0)
	require.NoError(t, err)

	st, err := reg.Get(stationID)
	require.NoError(t, err)
	require.NotNil(t, st.Chargers[0].OccupiedUntil)
	assert.Equal(t, scheduled.EndTime, *st.Chargers[0].OccupiedUntil)
}

func TestLedger_AdvanceClock(t *testing.T) {
	reg, l := setup(t)
	ctx := context.Background()

	b, err := book(t, reg, l, request(60), t0)
	require.NoError(t, err)

	changed, err := l.AdvanceClock(ctx, t0)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, domain.StatusActive, changed[0].Status)

	changed, err = l.AdvanceClock(ctx, t0.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, changed)

	changed, err = l.AdvanceClock(ctx, b.EndTime)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, domain.StatusCompleted, changed[0].Status)
	require.NotNil(t, changed[0].ActualCost)
	assert.InDelta(t, 300.0, *changed[0].ActualCost, 0.001)

	st, err := reg.Get(stationID)
	require.NoError(t, err)
	assert.Equal(t, 2, st.AvailableChargers())

	changed, err = l.AdvanceClock(ctx, b.EndTime)
	require.NoError(t, err)
	assert.Empty(t, changed)

	_, err = l.Cancel(ctx, b.ID, b.EndTime)
	assert.ErrorIs(t, err, domain.ErrNotCancellable)
}

func TestLedger_AdvanceClockSkipsActiveForPastBookings(t *testing.T) {
	reg, l := setup(t)

	b, err := book(t, reg, l, request(15), t0)
	require.NoError(t, err)

	changed, err := l.AdvanceClock(context.Background(), t0.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, b.ID, changed[0].ID)
	assert.Equal(t, domain.StatusCompleted, changed[0].Status)
}

func TestLedger_ListOrderedByStart(t *testing.T) {
	reg, l := setup(t)

	for _, offset := range []time.Duration{5 * time.Hour, time.Hour, 3 * time.Hour} {
		req := request(30)
		req.PreferredStart = ptr.Ptr(t0.Add(offset))
		_, err := book(t, reg, l, req, t0)
		require.NoError(t, err)
	}

	list := l.List(domain.BookingsFilter{})
	require.Len(t, list, 3)
	assert.Equal(t, t0.Add(time.Hour), list[0].StartTime)
	assert.Equal(t, t0.Add(3*time.Hour), list[1].StartTime)
	assert.Equal(t, t0.Add(5*time.Hour), list[2].StartTime)

	_, err := l.Cancel(context.Background(), list[1].ID, t0)
	require.NoError(t, err)
	cancelled := l.List(domain.BookingsFilter{Status: ptr.Ptr(domain.StatusCancelled)})
	require.Len(t, cancelled, 1)
	assert.Equal(t, list[1].ID, cancelled[0].ID)
}

func TestLedger_GetReturnsCopy(t *testing.T) {
	reg, l := setup(t)

	b, err := book(t, reg, l, request(60), t0)
	require.NoError(t, err)

	got, err := l.Get(b.ID)
	require.NoError(t, err)
	got.Status = domain.StatusCompleted

	again, err := l.Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUpcoming, again.Status)

	_, err = l.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_Restore(t *testing.T) {
	reg, l := setup(t)

	archived := []*domain.Booking{
		{ID: "a", StationID: stationID, ChargerID: 2, Status: domain.StatusUpcoming, StartTime: t0, EndTime: t0.Add(time.Hour)},
		{ID: "b", StationID: stationID, ChargerID: 1, Status: domain.StatusCompleted, StartTime: t0.Add(-2 * time.Hour), EndTime: t0.Add(-time.Hour)},
	}
	n, err := l.Restore(context.Background(), archived)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	st, err := reg.Get(stationID)
	require.NoError(t, err)
	assert.True(t, st.Chargers[0].IsFree())
	assert.False(t, st.Chargers[1].IsFree())

	n, err = l.Restore(context.Background(), archived)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = l.Restore(context.Background(), []*domain.Booking{{ID: "c", StationID: 404, ChargerID: 1}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_ConcurrentRequestsNeverDoubleBook(t *testing.T) {
	reg, l := setup(t)

	const workers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted []*domain.Booking
		rejected int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			b, err := book(t, reg, l, request(60), t0)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rejected++
				return
			}
			accepted = append(accepted, b)
		}()
	}
	wg.Wait()

	require.Len(t, accepted, 2)
	assert.Equal(t, workers-2, rejected)
	assert.NotEqual(t, accepted[0].ChargerID, accepted[1].ChargerID)
	assertNoOverlaps(t, l.List(domain.BookingsFilter{}))
}

func assertNoOverlaps(t *testing.T, bookings []*domain.Booking) {
	t.Helper()
	for i, a := range bookings {
		for _, b := range bookings[i+1:] {
			if a.ChargerID == b.ChargerID && a.IsPending() && b.IsPending() {
				assert.False(t, a.Overlaps(b.StartTime, b.EndTime), fmt.Sprintf("%s overlaps %s", a.ID, b.ID))
			}
		}
	}
}
