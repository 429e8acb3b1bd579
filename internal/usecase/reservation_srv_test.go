package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"court-booking/internal/apperror"
	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/pricing"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==================== FAKES ====================

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fakeCourtRepo struct {
	courts map[uuid.UUID]*entity.Court
}

func (f *fakeCourtRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Court, error) {
	court, ok := f.courts[id]
	if !ok {
		return nil, nil
	}
	copied := *court
	return &copied, nil
}

func (f *fakeCourtRepo) FindAllActive(_ context.Context) ([]*entity.Court, error) {
	var courts []*entity.Court
	for _, court := range f.courts {
		if court.IsActive {
			copied := *court
			courts = append(courts, &copied)
		}
	}
	return courts, nil
}

type fakeAddonRepo struct {
	addons map[uuid.UUID]*entity.Addon
}

func (f *fakeAddonRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Addon, error) {
	addon, ok := f.addons[id]
	if !ok {
		return nil, nil
	}
	copied := *addon
	return &copied, nil
}

func (f *fakeAddonRepo) FindAllActive(_ context.Context) ([]*entity.Addon, error) {
	var addons []*entity.Addon
	for _, addon := range f.addons {
		if addon.IsActive {
			copied := *addon
			addons = append(addons, &copied)
		}
	}
	return addons, nil
}

type fakeCoachRepo struct {
	coaches map[uuid.UUID]*entity.Coach
}

func (f *fakeCoachRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Coach, error) {
	coach, ok := f.coaches[id]
	if !ok {
		return nil, nil
	}
	copied := *coach
	return &copied, nil
}

// fakeReservationLedger mirrors the storage guarantees: the uniqueness
// check inside CreateIfSlotFree and the version CAS both happen under
// one lock, like the database index and conditional update do.
type fakeReservationLedger struct {
	mu   sync.Mutex
	byID map[uuid.UUID]entity.Reservation
}

func newFakeLedger() *fakeReservationLedger {
	return &fakeReservationLedger{byID: make(map[uuid.UUID]entity.Reservation)}
}

func (f *fakeReservationLedger) CreateIfSlotFree(_ context.Context, res *entity.Reservation) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.byID {
		if existing.Status.IsLive() && existing.Slot == res.Slot {
			return false, nil
		}
	}

	f.byID[res.ID] = *res
	return true, nil
}

func (f *fakeReservationLedger) FindByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (f *fakeReservationLedger) FindByRequesterID(_ context.Context, requesterID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.Reservation
	for _, res := range f.byID {
		if res.RequesterID == requesterID {
			copied := res
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeReservationLedger) CountByRequesterID(_ context.Context, requesterID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for _, res := range f.byID {
		if res.RequesterID == requesterID {
			count++
		}
	}
	return count, nil
}

func (f *fakeReservationLedger) FindAll(_ context.Context, limit, offset int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*entity.Reservation
	for _, res := range f.byID {
		copied := res
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeReservationLedger) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

func (f *fakeReservationLedger) ExistsLiveSlot(_ context.Context, key entity.SlotKey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, res := range f.byID {
		if res.Status.IsLive() && res.Slot == key {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationLedger) FindLiveStartMinutes(_ context.Context, courtID uuid.UUID, date time.Time) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var starts []int
	for _, res := range f.byID {
		if res.Status.IsLive() && res.Slot.CourtID == courtID && res.Slot.Date.Equal(date) {
			starts = append(starts, res.Slot.StartMinutes)
		}
	}
	return starts, nil
}

func (f *fakeReservationLedger) UpdateStatusVersioned(_ context.Context, id uuid.UUID, status entity.ReservationStatus, expectedVersion int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res, ok := f.byID[id]
	if !ok || res.Version != expectedVersion {
		return false, nil
	}

	res.Status = status
	res.Version++
	f.byID[id] = res
	return true, nil
}

func (f *fakeReservationLedger) CompleteElapsed(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var promoted int64
	for id, res := range f.byID {
		if res.Status == entity.StatusConfirmed && !res.Slot.EndAt().After(cutoff) {
			res.Status = entity.StatusCompleted
			res.Version++
			f.byID[id] = res
			promoted++
		}
	}
	return promoted, nil
}

// ==================== FIXTURE ====================

type fixture struct {
	service   ReservationService
	ledger    *fakeReservationLedger
	court     *entity.Court
	addon     *entity.Addon
	coach     *entity.Coach
	clock     fixedClock
	requester uuid.UUID
}

func newFixture(t *testing.T, initialStatus string) *fixture {
	t.Helper()

	court := &entity.Court{
		Base:      entity.Base{ID: uuid.New()},
		Name:      "Center Court",
		Type:      entity.CourtTypeOutdoor,
		BasePrice: 500,
		IsActive:  true,
	}
	addon := &entity.Addon{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		Name:       "racket",
		Price:      30,
		IsActive:   true,
	}
	coach := &entity.Coach{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		Name:       "ana",
		HourlyFee:  200,
		IsActive:   true,
	}

	ledger := newFakeLedger()
	repo := &repository.Repository{
		Court:       &fakeCourtRepo{courts: map[uuid.UUID]*entity.Court{court.ID: court}},
		Addon:       &fakeAddonRepo{addons: map[uuid.UUID]*entity.Addon{addon.ID: addon}},
		Coach:       &fakeCoachRepo{coaches: map[uuid.UUID]*entity.Coach{coach.ID: coach}},
		Reservation: ledger,
	}

	calculator := pricing.NewCalculator(pricing.Rules{
		PeakStartMinutes: 17 * 60,
		PeakEndMinutes:   21 * 60,
		PeakSurcharge:    100,
	})

	clock := fixedClock{now: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)}

	cfg := utils.BookingConfig{
		OpenHour:      6,
		CloseHour:     22,
		InitialStatus: initialStatus,
	}

	return &fixture{
		service:   NewReservationService(repo, calculator, cfg, clock, zap.NewNop()),
		ledger:    ledger,
		court:     court,
		addon:     addon,
		coach:     coach,
		clock:     clock,
		requester: uuid.New(),
	}
}

func (f *fixture) reserveRequest(date, startTime string) *request.CreateReservationRequest {
	return &request.CreateReservationRequest{
		CourtID:   f.court.ID.String(),
		Date:      date,
		StartTime: startTime,
	}
}

// ==================== TESTS ====================

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success With Peak Surcharge", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "18:00"))

		require.NoError(t, err)
		assert.Equal(t, entity.StatusConfirmed, res.Status)
		assert.Equal(t, int64(1), res.Version)
		assert.Equal(t, "18:00", res.StartTime)
		assert.Equal(t, "19:00", res.EndTime)
		assert.Equal(t, int64(500), res.Price.Base)
		require.Len(t, res.Price.Modifiers, 1)
		assert.Equal(t, "peak_hour", res.Price.Modifiers[0].Name)
		assert.Equal(t, int64(100), res.Price.Modifiers[0].Amount)
		assert.Equal(t, int64(600), res.Price.Total)
	})

	t.Run("Initial Status Pending When Configured", func(t *testing.T) {
		f := newFixture(t, "pending")

		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))

		require.NoError(t, err)
		assert.Equal(t, entity.StatusPending, res.Status)
	})

	t.Run("With Addon And Coach", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		req := f.reserveRequest("2026-09-02", "09:00")
		addonID := f.addon.ID.String()
		coachID := f.coach.ID.String()
		req.AddonIDs = []string{addonID}
		req.CoachID = &coachID

		res, err := f.service.Reserve(ctx, f.requester, req)

		require.NoError(t, err)
		require.Len(t, res.Price.Modifiers, 2)
		assert.Equal(t, "addon:racket", res.Price.Modifiers[0].Name)
		assert.Equal(t, "coach:ana", res.Price.Modifiers[1].Name)
		assert.Equal(t, int64(500+30+200), res.Price.Total)
	})

	t.Run("Unknown Court", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		req := f.reserveRequest("2026-09-02", "09:00")
		req.CourtID = uuid.New().String()

		_, err := f.service.Reserve(ctx, f.requester, req)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("Inactive Court", func(t *testing.T) {
		f := newFixture(t, "confirmed")
		f.court.IsActive = false

		_, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		assert.ErrorIs(t, err, apperror.ErrInvalidSlot)
	})

	t.Run("Past Date", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		_, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-08-31", "09:00"))
		assert.ErrorIs(t, err, apperror.ErrInvalidSlot)
	})

	t.Run("Off Grid Start", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		_, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:30"))
		assert.ErrorIs(t, err, apperror.ErrInvalidSlot)
	})

	t.Run("Outside Opening Hours", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		_, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "05:00"))
		assert.ErrorIs(t, err, apperror.ErrInvalidSlot)

		_, err = f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "22:00"))
		assert.ErrorIs(t, err, apperror.ErrInvalidSlot)
	})

	t.Run("Unresolved Addon Aborts Before Write", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		req := f.reserveRequest("2026-09-02", "09:00")
		req.AddonIDs = []string{uuid.New().String()}

		_, err := f.service.Reserve(ctx, f.requester, req)
		assert.ErrorIs(t, err, apperror.ErrUnresolvedModifier)

		count, _ := f.ledger.Count(ctx)
		assert.Zero(t, count)
	})

	t.Run("Unresolved Coach", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		req := f.reserveRequest("2026-09-02", "09:00")
		coachID := uuid.New().String()
		req.CoachID = &coachID

		_, err := f.service.Reserve(ctx, f.requester, req)
		assert.ErrorIs(t, err, apperror.ErrUnresolvedModifier)
	})

	t.Run("Occupied Slot", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		_, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)

		_, err = f.service.Reserve(ctx, uuid.New(), f.reserveRequest("2026-09-02", "09:00"))
		assert.ErrorIs(t, err, apperror.ErrSlotUnavailable)
	})

	t.Run("Adjacent Slots Do Not Conflict", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		_, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)

		_, err = f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "10:00"))
		assert.NoError(t, err)
	})
}

func TestReserveAtMostOneWinner(t *testing.T) {
	f := newFixture(t, "confirmed")
	ctx := context.Background()

	const workers = 16

	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Reserve(ctx, uuid.New(), f.reserveRequest("2026-09-02", "18:00"))
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrSlotUnavailable)
		losses++
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, losses)

	count, _ := f.ledger.Count(ctx)
	assert.Equal(t, int64(1), count)
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("Requester Cancels Own Confirmed", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)

		updated, err := f.service.Transition(ctx, res.ID, entity.StatusCancelled, f.requester, false, res.Version)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCancelled, updated.Status)
		assert.Equal(t, res.Version+1, updated.Version)
	})

	t.Run("Cancelled Slot Is Reservable Again", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		first, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)

		other := uuid.New()
		_, err = f.service.Reserve(ctx, other, f.reserveRequest("2026-09-02", "09:00"))
		require.ErrorIs(t, err, apperror.ErrSlotUnavailable)

		_, err = f.service.Transition(ctx, first.ID, entity.StatusCancelled, f.requester, false, first.Version)
		require.NoError(t, err)

		second, err := f.service.Reserve(ctx, other, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Stale Version Fails And Leaves Record Unchanged", func(t *testing.T) {
		f := newFixture(t, "pending")

		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)

		// admin confirms, bumping the version
		confirmed, err := f.service.Transition(ctx, res.ID, entity.StatusConfirmed, uuid.New(), true, res.Version)
		require.NoError(t, err)
		assert.Equal(t, int64(2), confirmed.Version)

		// requester retries with the stale version
		_, err = f.service.Transition(ctx, res.ID, entity.StatusCancelled, f.requester, false, res.Version)
		assert.ErrorIs(t, err, apperror.ErrVersionConflict)

		stored, err := f.service.GetByID(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusConfirmed, stored.Status)
		assert.Equal(t, int64(2), stored.Version)
	})

	t.Run("Version Strictly Increases", func(t *testing.T) {
		f := newFixture(t, "pending")

		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.Version)

		admin := uuid.New()

		confirmed, err := f.service.Transition(ctx, res.ID, entity.StatusConfirmed, admin, true, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), confirmed.Version)

		completed, err := f.service.Transition(ctx, res.ID, entity.StatusCompleted, admin, true, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), completed.Version)
	})

	t.Run("Illegal From Completed", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)

		admin := uuid.New()
		completed, err := f.service.Transition(ctx, res.ID, entity.StatusCompleted, admin, true, res.Version)
		require.NoError(t, err)

		for _, target := range []entity.ReservationStatus{entity.StatusPending, entity.StatusConfirmed, entity.StatusCancelled} {
			_, err := f.service.Transition(ctx, res.ID, target, admin, true, completed.Version)
			assert.ErrorIs(t, err, apperror.ErrIllegalTransition)
		}
	})

	t.Run("Illegal From Cancelled", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)

		cancelled, err := f.service.Transition(ctx, res.ID, entity.StatusCancelled, f.requester, false, res.Version)
		require.NoError(t, err)

		_, err = f.service.Transition(ctx, res.ID, entity.StatusConfirmed, uuid.New(), true, cancelled.Version)
		assert.ErrorIs(t, err, apperror.ErrIllegalTransition)
	})

	t.Run("Requester Cannot Touch Foreign Reservation", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)

		_, err = f.service.Transition(ctx, res.ID, entity.StatusCancelled, uuid.New(), false, res.Version)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("Requester Cannot Confirm", func(t *testing.T) {
		f := newFixture(t, "pending")

		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
		require.NoError(t, err)

		_, err = f.service.Transition(ctx, res.ID, entity.StatusConfirmed, f.requester, false, res.Version)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("Requester Cannot Cancel After Start", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		// clock is 10:00; the slot started at 09:00 the same day
		res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-01", "09:00"))
		require.NoError(t, err)

		_, err = f.service.Transition(ctx, res.ID, entity.StatusCancelled, f.requester, false, res.Version)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)

		// admin may still cancel
		_, err = f.service.Transition(ctx, res.ID, entity.StatusCancelled, uuid.New(), true, res.Version)
		assert.NoError(t, err)
	})

	t.Run("Unknown Reservation", func(t *testing.T) {
		f := newFixture(t, "confirmed")

		_, err := f.service.Transition(ctx, uuid.New().String(), entity.StatusCancelled, f.requester, false, 1)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestListAvailability(t *testing.T) {
	f := newFixture(t, "confirmed")
	ctx := context.Background()

	_, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
	require.NoError(t, err)

	slots, err := f.service.ListAvailability(ctx, f.court.ID.String(), "2026-09-02")
	require.NoError(t, err)
	require.Len(t, slots, 16) // 06:00 through 21:00

	for _, slot := range slots {
		if slot.StartTime == "09:00" {
			assert.False(t, slot.Available)
			assert.Equal(t, "10:00", slot.EndTime)
		} else {
			assert.True(t, slot.Available, "slot %s", slot.StartTime)
		}
	}

	_, err = f.service.ListAvailability(ctx, uuid.New().String(), "2026-09-02")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCompleteElapsed(t *testing.T) {
	f := newFixture(t, "confirmed")
	ctx := context.Background()

	// slot ended at 10:00, exactly the fixture's now
	res, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-01", "09:00"))
	require.NoError(t, err)

	// future slot stays confirmed
	future, err := f.service.Reserve(ctx, f.requester, f.reserveRequest("2026-09-02", "09:00"))
	require.NoError(t, err)

	promoted, err := f.service.CompleteElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), promoted)

	elapsed, err := f.service.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, elapsed.Status)
	assert.Equal(t, int64(2), elapsed.Version)

	untouched, err := f.service.GetByID(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, untouched.Status)
}
