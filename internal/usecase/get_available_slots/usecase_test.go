package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ChargingService/internal/domain"
	"github.com/m04kA/SMC-ChargingService/internal/service/allocator"
	"github.com/m04kA/SMC-ChargingService/internal/service/cost"
	"github.com/m04kA/SMC-ChargingService/internal/service/ledger"
	"github.com/m04kA/SMC-ChargingService/internal/service/registry"
	"github.com/m04kA/SMC-ChargingService/pkg/logger"
	"github.com/m04kA/SMC-ChargingService/pkg/ptr"
)

var now = time.Date(2026, 9, 1, 13, 10, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type noopRefresher struct{}

func (noopRefresher) Refresh(context.Context) error { return nil }

func setup(t *testing.T) (*UseCase, *registry.Registry, *ledger.Ledger) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Load([]domain.Station{{
		ID:             2,
		Name:           "Technopark Charging Station",
		ConnectorTypes: []domain.ConnectorType{"CCS2", "Type 2"},
		TariffPerUnit:  10,
		OperatingHours: domain.OperatingHours{Open: "06:00", Close: "22:00", Location: time.UTC},
		Chargers: []domain.Charger{
			{ID: 1, ConnectorType: "CCS2"},
			{ID: 2, ConnectorType: "CCS2"},
			{ID: 3, ConnectorType: "Type 2"},
		},
	}}))
	l := ledger.New(reg, cost.NewEstimator(30))
	uc := NewUseCase(reg, l, noopRefresher{}, Options{SlotStepMinutes: 30, AdvanceBookingDays: 7}, logger.NewNop()).
		WithTimeProvider(fixedClock{})
	return uc, reg, l
}

func TestExecute_CountsFreeChargers(t *testing.T) {
	uc, reg, l := setup(t)
	tomorrow := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	req := &domain.BookingRequest{
		StationID:       2,
		ConnectorType:   "CCS2",
		Vehicle:         domain.VehicleProfile{BatteryCapacityKWh: 40, CurrentChargePercent: 10},
		DurationMinutes: 60,
		PreferredStart:  ptr.Ptr(tomorrow.Add(10 * time.Hour)),
	}
	require.NoError(t, reg.WithStation(context.Background(), 2, func(h *registry.Handle) error {
		st, err := h.Station()
		if err != nil {
			return err
		}
		d, err := allocator.Allocate(&st, l.Pending(h), req, now)
		if err != nil {
			return err
		}
		_, err = l.Accept(h, req, d, now)
		return err
	}))

	resp, err := uc.Execute(context.Background(), &Request{
		StationID:       2,
		ConnectorType:   "ccs2",
		Date:            tomorrow,
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 31)

	byStart := make(map[string]domain.AvailableSlot, len(resp.Slots))
	for _, s := range resp.Slots {
		byStart[s.Start.Format(domain.TimeFormat)] = s
	}
	assert.Equal(t, 2, byStart["09:00"].AvailableSpots)
	assert.Equal(t, 1, byStart["09:30"].AvailableSpots)
	assert.Equal(t, 1, byStart["10:00"].AvailableSpots)
	assert.Equal(t, 2, byStart["11:00"].AvailableSpots)
	assert.Equal(t, 2, byStart["11:00"].TotalSpots)
}

func TestExecute_DefaultDurationIsStep(t *testing.T) {
	uc, _, _ := setup(t)

	resp, err := uc.Execute(context.Background(), &Request{
		StationID:     2,
		ConnectorType: "Type 2",
		Date:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "13:30", resp.Slots[0].Start.Format(domain.TimeFormat))
	assert.Equal(t, 30*time.Minute, resp.Slots[0].End.Sub(resp.Slots[0].Start))
	assert.Equal(t, 1, resp.Slots[0].TotalSpots)
}

func TestExecute_Errors(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()
	tomorrow := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(ctx, &Request{StationID: 2, ConnectorType: "CHAdeMO", Date: tomorrow})
	assert.ErrorIs(t, err, domain.ErrNoMatchingConnector)

	_, err = uc.Execute(ctx, &Request{StationID: 9, ConnectorType: "CCS2", Date: tomorrow})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Execute(ctx, &Request{StationID: 2, ConnectorType: "CCS2", Date: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{StationID: 2, ConnectorType: "CCS2", Date: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	_, err = uc.Execute(ctx, &Request{StationID: 2, ConnectorType: "CCS2", Date: tomorrow, DurationMinutes: 600})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{StationID: 2, ConnectorType: "", Date: tomorrow})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
