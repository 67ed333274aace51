package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/infra/storage/memstore"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
	"github.com/theyool/booking-service/internal/service/bookings/models"
	"github.com/theyool/booking-service/internal/service/conflicts"
	"github.com/theyool/booking-service/pkg/logger"
	"github.com/theyool/booking-service/pkg/metrics"
	"github.com/theyool/booking-service/pkg/ptr"
	"github.com/theyool/booking-service/pkg/types"
)

var seoul = time.FixedZone("KST", 9*60*60)

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e eventbus.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type fixture struct {
	store     *memstore.Store
	svc       *Service
	publisher *recordingPublisher
	clock     *fixedTime
}

// Monday 2025-03-03 08:00 KST
func newFixture() *fixture {
	clock := &fixedTime{now: time.Date(2025, 3, 3, 8, 0, 0, 0, seoul)}
	store := memstore.New(memstore.WithClock(clock.Now))
	publisher := &recordingPublisher{}

	svc := NewService(
		store.Bookings(),
		conflicts.NewDetector(store.Bookings()),
		store.TxManager(),
		publisher,
		metrics.New("test"),
		seoul,
		logger.NewNop(),
	)
	svc.timeProvider = clock

	return &fixture{store: store, svc: svc, publisher: publisher, clock: clock}
}

func (f *fixture) seed(at string, status domain.BookingStatus) *domain.Booking {
	return f.store.Seed(&domain.Booking{
		Type:          domain.ConsultationVisit,
		Office:        ptr.Ptr(domain.OfficeCheonan),
		PreferredDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		PreferredTime: types.MustTimeString(at),
		Name:          "홍길동",
		Phone:         "010-1234-5678",
		Status:        status,
	})
}

func TestService_Confirm(t *testing.T) {
	f := newFixture()
	b := f.seed("10:00", domain.StatusPending)

	resp, err := f.svc.Confirm(context.Background(), b.ID, "admin@theyool.com")
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	require.NotNil(t, resp.ConfirmedAt)
	assert.True(t, resp.ConfirmedAt.Equal(f.clock.now))
	require.NotNil(t, resp.AdminNotes)
	assert.Contains(t, *resp.AdminNotes, "confirmed by admin@theyool.com")

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, eventbus.EventBookingConfirmed, f.publisher.events[0].Type)
}

func TestService_ConfirmAutoNote(t *testing.T) {
	f := newFixture()
	b := f.seed("10:00", domain.StatusPending)
	b.AdminNotes = ptr.Ptr("전화 요망")
	f.store.Seed(b)

	resp, err := f.svc.Confirm(context.Background(), b.ID, domain.AutoConfirmActor)
	require.NoError(t, err)

	assert.Equal(t, "전화 요망\n[auto-confirmed at 2025-03-02T23:00:00Z]", *resp.AdminNotes)
}

func TestService_ConfirmRejectsTakenSlot(t *testing.T) {
	f := newFixture()
	f.seed("10:00", domain.StatusConfirmed)
	second := f.seed("10:00", domain.StatusPending)

	_, err := f.svc.Confirm(context.Background(), second.ID, "admin")
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.store.Bookings().GetByID(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Empty(t, f.publisher.events)
}

func TestService_TerminalStatesAreImmutable(t *testing.T) {
	ctx := context.Background()

	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture()
			b := f.seed("10:00", status)

			_, err := f.svc.Confirm(ctx, b.ID, "admin")
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)

			_, err = f.svc.Cancel(ctx, b.ID, "admin", "")
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)

			f.clock.now = f.clock.now.Add(24 * time.Hour)
			_, err = f.svc.Complete(ctx, b.ID, "admin")
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)

			got, err := f.store.Bookings().GetByID(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, status, got.Status)
			assert.Equal(t, b.UpdatedAt, got.UpdatedAt)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestService_Cancel(t *testing.T) {
	f := newFixture()
	b := f.seed("10:00", domain.StatusConfirmed)

	resp, err := f.svc.Cancel(context.Background(), b.ID, "admin", "고객 요청")
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancelledAt)
	assert.Contains(t, *resp.AdminNotes, "고객 요청")
	assert.Equal(t, "고객 요청", f.publisher.events[0].Reason)

	// the slot is free again
	taken, err := conflicts.NewDetector(f.store.Bookings()).
		ConflictExists(context.Background(), b.Channel(), b.PreferredDate, b.PreferredTime, nil)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestService_CancelByCustomer(t *testing.T) {
	f := newFixture()
	b := f.seed("10:00", domain.StatusPending)
	ctx := context.Background()

	_, err := f.svc.CancelByCustomer(ctx, b.ID, "010-0000-0000", "")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.svc.CancelByCustomer(ctx, b.ID, "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	resp, err := f.svc.CancelByCustomer(ctx, b.ID, "01012345678", "일정 변경")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Contains(t, *resp.AdminNotes, "cancelled by customer")
}

func TestService_Complete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.seed("10:00", domain.StatusConfirmed)

	// 08:00 KST, the appointment starts at 10:00 KST
	_, err := f.svc.Complete(ctx, b.ID, "admin")
	assert.ErrorIs(t, err, ErrNotStarted)

	f.clock.now = time.Date(2025, 3, 3, 10, 0, 0, 0, seoul)
	resp, err := f.svc.Complete(ctx, b.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	pending := f.seed("11:00", domain.StatusPending)
	f.clock.now = time.Date(2025, 3, 4, 9, 0, 0, 0, seoul)
	_, err = f.svc.Complete(ctx, pending.ID, "admin")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_UnknownBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := uuid.New()

	_, err := f.svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.svc.Confirm(ctx, id, "admin")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_PublishFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture()
	f.publisher.err = eventbus.ErrConnect
	b := f.seed("10:00", domain.StatusPending)

	resp, err := f.svc.Confirm(context.Background(), b.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestService_UpdateDetails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.seed("10:00", domain.StatusPending)

	resp, err := f.svc.UpdateDetails(ctx, b.ID, &models.UpdateDetailsRequest{
		AssignedLawyer: ptr.Ptr("임은지"),
		VideoLink:      ptr.Ptr("https://meet.example.com/abc"),
	})
	require.NoError(t, err)
	assert.Equal(t, "임은지", *resp.AssignedLawyer)
	assert.Equal(t, "pending", resp.Status, "details never touch the status")

	_, err = f.svc.UpdateDetails(ctx, b.ID, &models.UpdateDetailsRequest{AssignedLawyer: ptr.Ptr("김변호사")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateDetails(ctx, b.ID, &models.UpdateDetailsRequest{VideoLink: ptr.Ptr("not a url")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateDetails(ctx, b.ID, &models.UpdateDetailsRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateDetails(ctx, uuid.New(), &models.UpdateDetailsRequest{AdminNotes: ptr.Ptr("메모")})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_ListFilters(t *testing.T) {
	f := newFixture()
	f.seed("10:00", domain.StatusPending)
	f.seed("11:00", domain.StatusConfirmed)
	f.seed("12:00", domain.StatusCancelled)

	resp, err := f.svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr(domain.StatusPending)})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)

	resp, err = f.svc.List(context.Background(), &models.ListBookingsRequest{})
	require.NoError(t, err)
	require.Equal(t, 3, resp.Count)
	assert.Equal(t, "12:00", resp.Bookings[0].PreferredTime, "latest appointment first")

	_, err = f.svc.List(context.Background(), &models.ListBookingsRequest{Status: ptr.Ptr(domain.BookingStatus("paid"))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Stats(t *testing.T) {
	f := newFixture()
	// Wednesday 2025-03-05 10:00 KST
	f.clock.now = time.Date(2025, 3, 5, 10, 0, 0, 0, seoul)

	created := func(at time.Time, status domain.BookingStatus) {
		b := f.seed("10:00", status)
		b.CreatedAt = at
		f.store.Seed(b)
	}
	created(time.Date(2025, 3, 5, 9, 0, 0, 0, seoul), domain.StatusPending)    // today
	created(time.Date(2025, 3, 3, 0, 30, 0, 0, seoul), domain.StatusConfirmed) // Monday, this week
	created(time.Date(2025, 3, 2, 23, 0, 0, 0, seoul), domain.StatusPending)   // Sunday, last week
	created(time.Date(2025, 2, 20, 9, 0, 0, 0, seoul), domain.StatusCancelled)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &models.StatsResponse{Total: 4, Pending: 2, Confirmed: 1, Today: 1, ThisWeek: 2}, stats)
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "01012345678", NormalizePhone("010-1234-5678"))
	assert.Equal(t, "01012345678", NormalizePhone(" 010 1234 5678 "))
	assert.Equal(t, "", NormalizePhone("--"))
}
