package create_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/infra/storage/memstore"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
	"github.com/theyool/booking-service/internal/service/blockedtimes"
	blockedModels "github.com/theyool/booking-service/internal/service/blockedtimes/models"
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

type countingPublisher struct {
	mu    sync.Mutex
	count int
}

func (p *countingPublisher) Publish(context.Context, eventbus.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return nil
}

type fixture struct {
	store     *memstore.Store
	blocked   *blockedtimes.Service
	uc        *UseCase
	publisher *countingPublisher
}

// now: Friday 2025-02-28 15:00 KST
func newFixture(settings Settings) *fixture {
	store := memstore.New()
	blocked := blockedtimes.NewService(store.BlockedTimes(), logger.NewNop())
	publisher := &countingPublisher{}
	if settings.Location == nil {
		settings.Location = seoul
	}

	uc := NewUseCase(
		store.Bookings(),
		blocked,
		conflicts.NewDetector(store.Bookings()),
		store.TxManager(),
		publisher,
		metrics.New("test"),
		settings,
		logger.NewNop(),
	)
	uc.timeProvider = &fixedTime{now: time.Date(2025, 2, 28, 15, 0, 0, 0, seoul)}

	return &fixture{store: store, blocked: blocked, uc: uc, publisher: publisher}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func visitRequest(d time.Time, at string) *Request {
	return &Request{
		Type:          domain.ConsultationVisit,
		Office:        ptr.Ptr(domain.OfficeCheonan),
		PreferredDate: d,
		PreferredTime: types.MustTimeString(at),
		Name:          "홍길동",
		Phone:         "010-1234-5678",
	}
}

func TestUseCase_CreatesPending(t *testing.T) {
	f := newFixture(Settings{})

	resp, err := f.uc.Execute(context.Background(), visitRequest(date(2025, 3, 3), "09:00"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, domain.OfficeCheonan, *resp.Office)
	assert.Equal(t, 1, f.publisher.count)
}

func TestUseCase_SecondCreateConflicts(t *testing.T) {
	f := newFixture(Settings{})
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, visitRequest(date(2025, 3, 3), "09:00"))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, visitRequest(date(2025, 3, 3), "09:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)

	other := visitRequest(date(2025, 3, 3), "09:00")
	other.Office = ptr.Ptr(domain.OfficePyeongtaek)
	_, err = f.uc.Execute(ctx, other)
	assert.NoError(t, err, "another office is another channel")
}

func TestUseCase_ConcurrentCreatesExactlyOneWins(t *testing.T) {
	f := newFixture(Settings{})
	const n = 20

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		conflicted int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := visitRequest(date(2025, 3, 4), "14:00")
			req.Type = domain.ConsultationVideo
			req.Office = nil

			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotNotAvailable):
				conflicted++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicted)

	active, err := f.store.Bookings().List(context.Background(), domain.BookingFilter{Statuses: domain.ActiveStatuses})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestUseCase_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"short name", func(r *Request) { r.Name = "홍" }, ErrInvalidInput},
		{"bad phone", func(r *Request) { r.Phone = "02-123-4567" }, ErrInvalidInput},
		{"bad email", func(r *Request) { r.Email = ptr.Ptr("not-an-email") }, ErrInvalidInput},
		{"unknown lawyer", func(r *Request) { r.PreferredLawyer = ptr.Ptr(domain.LawyerName("김변호사")) }, ErrInvalidInput},
		{"visit without office", func(r *Request) { r.Office = nil }, domain.ErrOfficeRequired},
		{"video with office", func(r *Request) { r.Type = domain.ConsultationVideo }, domain.ErrOfficeNotAllowed},
		{"unknown type", func(r *Request) { r.Type = "phone" }, domain.ErrInvalidConsultationType},
		{"past date", func(r *Request) { r.PreferredDate = date(2025, 2, 27) }, ErrPastDate},
		{"today, slot already started", func(r *Request) { r.PreferredDate = date(2025, 2, 28); r.PreferredTime = types.MustTimeString("14:30") }, ErrPastDate},
		{"weekend", func(r *Request) { r.PreferredDate = date(2025, 3, 1) }, ErrNotBusinessDay},
		{"lunch break", func(r *Request) { r.PreferredTime = types.MustTimeString("12:30") }, ErrInvalidTimeSlot},
		{"misaligned", func(r *Request) { r.PreferredTime = types.MustTimeString("10:15") }, ErrInvalidTimeSlot},
		{"after hours", func(r *Request) { r.PreferredTime = types.MustTimeString("18:00") }, ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Settings{})
			req := visitRequest(date(2025, 3, 3), "10:00")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, f.publisher.count)
		})
	}
}

func TestUseCase_TodayLaterSlotAllowed(t *testing.T) {
	f := newFixture(Settings{})

	_, err := f.uc.Execute(context.Background(), visitRequest(date(2025, 2, 28), "15:30"))
	assert.NoError(t, err)
}

func TestUseCase_MaxAdvanceDays(t *testing.T) {
	f := newFixture(Settings{MaxAdvanceDays: 30})

	_, err := f.uc.Execute(context.Background(), visitRequest(date(2025, 4, 1), "10:00"))
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	_, err = f.uc.Execute(context.Background(), visitRequest(date(2025, 3, 28), "10:00"))
	assert.NoError(t, err)
}

func TestUseCase_BlockedDateRejectsEveryChannel(t *testing.T) {
	f := newFixture(Settings{})
	ctx := context.Background()
	christmas := date(2025, 12, 25)

	_, err := f.blocked.Create(ctx, &blockedModels.CreateBlockedTimeRequest{
		BlockType:   domain.BlockTypeDate,
		BlockedDate: christmas,
	})
	require.NoError(t, err)

	for _, req := range []*Request{
		visitRequest(christmas, "10:00"),
		{Type: domain.ConsultationVideo, PreferredDate: christmas, PreferredTime: types.MustTimeString("10:00"), Name: "홍길동", Phone: "01012345678"},
	} {
		_, err := f.uc.Execute(ctx, req)
		assert.ErrorIs(t, err, ErrSlotBlocked)
	}
}

func TestUseCase_BlockedTimeSlot(t *testing.T) {
	f := newFixture(Settings{})
	ctx := context.Background()

	_, err := f.blocked.Create(ctx, &blockedModels.CreateBlockedTimeRequest{
		BlockType:   domain.BlockTypeTimeSlot,
		BlockedDate: date(2025, 3, 3),
		StartTime:   ptr.Ptr(types.MustTimeString("14:00")),
		EndTime:     ptr.Ptr(types.MustTimeString("15:00")),
		Office:      ptr.Ptr(domain.OfficeCheonan),
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, visitRequest(date(2025, 3, 3), "14:30"))
	assert.ErrorIs(t, err, ErrSlotBlocked)

	_, err = f.uc.Execute(ctx, visitRequest(date(2025, 3, 3), "15:00"))
	assert.NoError(t, err, "end of the block is exclusive")

	other := visitRequest(date(2025, 3, 3), "14:30")
	other.Office = ptr.Ptr(domain.OfficePyeongtaek)
	_, err = f.uc.Execute(ctx, other)
	assert.NoError(t, err, "office-scoped block does not affect other offices")
}
