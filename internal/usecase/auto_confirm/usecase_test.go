package auto_confirm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/infra/lock"
	"github.com/theyool/booking-service/internal/infra/storage/memstore"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
	"github.com/theyool/booking-service/internal/service/bookings"
	"github.com/theyool/booking-service/internal/service/bookings/models"
	"github.com/theyool/booking-service/internal/service/conflicts"
	"github.com/theyool/booking-service/pkg/logger"
	"github.com/theyool/booking-service/pkg/metrics"
	"github.com/theyool/booking-service/pkg/ptr"
	"github.com/theyool/booking-service/pkg/types"
)

var seoul = time.FixedZone("KST", 9*60*60)

// Wednesday 2025-03-05 10:00 KST
var now = time.Date(2025, 3, 5, 10, 0, 0, 0, seoul)

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type fixture struct {
	store  *memstore.Store
	uc     *UseCase
	locker *lock.LocalLocker
}

func newFixture() *fixture {
	store := memstore.New(memstore.WithClock(func() time.Time { return now }))
	log := logger.NewNop()
	m := metrics.New("test")
	locker := lock.NewLocalLocker()

	svc := bookings.NewService(store.Bookings(), conflicts.NewDetector(store.Bookings()), store.TxManager(),
		eventbus.NopPublisher{}, m, seoul, log)

	uc := NewUseCase(store.Bookings(), svc, locker, m, Settings{}, log)
	uc.timeProvider = &fixedTime{now: now}

	return &fixture{store: store, uc: uc, locker: locker}
}

func (f *fixture) seed(office domain.OfficeLocation, at string, age time.Duration) *domain.Booking {
	return f.store.Seed(&domain.Booking{
		Type:          domain.ConsultationVisit,
		Office:        ptr.Ptr(office),
		PreferredDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		PreferredTime: types.MustTimeString(at),
		Name:          "홍길동",
		Phone:         "010-1234-5678",
		Status:        domain.StatusPending,
		CreatedAt:     now.Add(-age),
	})
}

func (f *fixture) status(t *testing.T, id uuid.UUID) domain.BookingStatus {
	t.Helper()
	b, err := f.store.Bookings().GetByID(context.Background(), id)
	require.NoError(t, err)
	return b.Status
}

func TestUseCase_ConfirmsOldPending(t *testing.T) {
	f := newFixture()
	old := f.seed(domain.OfficeCheonan, "10:00", 25*time.Hour)

	result, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Confirmed)
	require.Len(t, result.Details, 1)
	assert.Equal(t, OutcomeConfirmed, result.Details[0].Outcome)
	assert.Equal(t, "10:00", result.Details[0].Time)

	b, err := f.store.Bookings().GetByID(context.Background(), old.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
	require.NotNil(t, b.ConfirmedAt)
	assert.False(t, b.ConfirmedAt.IsZero())
	require.NotNil(t, b.AdminNotes)
	assert.Contains(t, *b.AdminNotes, "[auto-confirmed at ")
}

func TestUseCase_IgnoresRecentPending(t *testing.T) {
	f := newFixture()
	recent := f.seed(domain.OfficeCheonan, "10:00", 23*time.Hour)

	result, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.Processed)
	assert.Empty(t, result.Details)
	assert.Equal(t, domain.StatusPending, f.status(t, recent.ID))
}

func TestUseCase_SameSlotSecondIsSkipped(t *testing.T) {
	f := newFixture()
	first := f.seed(domain.OfficeCheonan, "11:00", 30*time.Hour)
	second := f.seed(domain.OfficeCheonan, "11:00", 26*time.Hour)

	result, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Confirmed)
	assert.Equal(t, 1, result.Skipped)
	assert.Zero(t, result.Failed)

	require.Len(t, result.Details, 2)
	assert.Equal(t, first.ID, result.Details[0].ID, "oldest first")
	assert.Equal(t, OutcomeSkipped, result.Details[1].Outcome)
	assert.Equal(t, ReasonConflict, result.Details[1].Reason)

	assert.Equal(t, domain.StatusConfirmed, f.status(t, first.ID))
	assert.Equal(t, domain.StatusPending, f.status(t, second.ID))
}

func TestUseCase_SecondRunConfirmsNothing(t *testing.T) {
	f := newFixture()
	f.seed(domain.OfficeCheonan, "10:00", 48*time.Hour)
	f.seed(domain.OfficePyeongtaek, "10:00", 48*time.Hour)

	first, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Confirmed)

	second, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Processed)
	assert.Zero(t, second.Confirmed)
}

func TestUseCase_LeaseHeldElsewhere(t *testing.T) {
	f := newFixture()
	f.seed(domain.OfficeCheonan, "10:00", 48*time.Hour)

	unlock, err := f.locker.TryLock(context.Background(), lockKey, time.Minute)
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, unlock(context.Background()))

	result, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Confirmed)
}

type failingLocker struct{}

func (failingLocker) TryLock(context.Context, string, time.Duration) (lock.Unlock, error) {
	return nil, lock.ErrBackend
}

func TestUseCase_RunsWithoutLockBackend(t *testing.T) {
	f := newFixture()
	f.uc.locker = failingLocker{}
	f.seed(domain.OfficeCheonan, "10:00", 48*time.Hour)

	result, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Confirmed)
}

type stubConfirmer struct {
	errs map[uuid.UUID]error
}

func (s *stubConfirmer) Confirm(_ context.Context, id uuid.UUID, actor string) (*models.BookingResponse, error) {
	if err := s.errs[id]; err != nil {
		return nil, err
	}
	return &models.BookingResponse{ID: id, Status: string(domain.StatusConfirmed), AdminNotes: ptr.Ptr(actor)}, nil
}

func TestUseCase_ClassifiesOutcomes(t *testing.T) {
	f := newFixture()
	ok := f.seed(domain.OfficeCheonan, "09:00", 50*time.Hour)
	gone := f.seed(domain.OfficeCheonan, "09:30", 49*time.Hour)
	moved := f.seed(domain.OfficeCheonan, "10:00", 48*time.Hour)
	broken := f.seed(domain.OfficeCheonan, "10:30", 47*time.Hour)

	f.uc.confirmer = &stubConfirmer{errs: map[uuid.UUID]error{
		gone.ID:   bookings.ErrBookingNotFound,
		moved.ID:  bookings.ErrInvalidTransition,
		broken.ID: errors.Join(bookings.ErrInternal, errors.New("connection reset")),
	}}

	result, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.Processed)
	assert.Equal(t, 1, result.Confirmed)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, 1, result.Failed)

	byID := make(map[uuid.UUID]Detail, len(result.Details))
	for _, d := range result.Details {
		byID[d.ID] = d
	}
	assert.Equal(t, OutcomeConfirmed, byID[ok.ID].Outcome)
	assert.Equal(t, ReasonNotFound, byID[gone.ID].Reason)
	assert.Equal(t, ReasonNotPending, byID[moved.ID].Reason)
	assert.Equal(t, OutcomeFailed, byID[broken.ID].Outcome)
	assert.Contains(t, byID[broken.ID].Error, "connection reset")
}

func TestUseCase_BatchSize(t *testing.T) {
	f := newFixture()
	f.uc.settings.BatchSize = 2
	for _, at := range []string{"09:00", "09:30", "10:00"} {
		f.seed(domain.OfficeCheonan, at, 48*time.Hour)
	}

	result, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)

	result, err = f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
}

// cancels the run after the first booking
type cancellingConfirmer struct {
	cancel context.CancelFunc
}

func (c *cancellingConfirmer) Confirm(_ context.Context, id uuid.UUID, _ string) (*models.BookingResponse, error) {
	c.cancel()
	return &models.BookingResponse{ID: id, Status: string(domain.StatusConfirmed)}, nil
}

func TestUseCase_StopsOnCancelAndCountsOnlyProcessed(t *testing.T) {
	f := newFixture()
	f.seed(domain.OfficeCheonan, "09:00", 50*time.Hour)
	f.seed(domain.OfficeCheonan, "09:30", 49*time.Hour)
	f.seed(domain.OfficeCheonan, "10:00", 48*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.uc.confirmer = &cancellingConfirmer{cancel: cancel}

	result, err := f.uc.Execute(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, result.Confirmed+result.Skipped+result.Failed, result.Processed)
	assert.Len(t, result.Details, 1)
}
