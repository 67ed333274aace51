package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/infra/storage/memstore"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
	"github.com/theyool/booking-service/internal/service/blockedtimes"
	blockedModels "github.com/theyool/booking-service/internal/service/blockedtimes/models"
	"github.com/theyool/booking-service/internal/service/bookings"
	"github.com/theyool/booking-service/internal/service/conflicts"
	"github.com/theyool/booking-service/internal/usecase/create_booking"
	"github.com/theyool/booking-service/pkg/logger"
	"github.com/theyool/booking-service/pkg/metrics"
	"github.com/theyool/booking-service/pkg/ptr"
	"github.com/theyool/booking-service/pkg/types"
)

var seoul = time.FixedZone("KST", 9*60*60)

type environment struct {
	store   *memstore.Store
	blocked *blockedtimes.Service
	create  *create_booking.UseCase
	booking *bookings.Service
	slots   *UseCase
}

func newEnvironment() *environment {
	store := memstore.New()
	log := logger.NewNop()
	blocked := blockedtimes.NewService(store.BlockedTimes(), log)
	detector := conflicts.NewDetector(store.Bookings())
	m := metrics.New("test")

	return &environment{
		store:   store,
		blocked: blocked,
		create: create_booking.NewUseCase(store.Bookings(), blocked, detector, store.TxManager(),
			eventbus.NopPublisher{}, m, create_booking.Settings{Location: seoul}, log),
		booking: bookings.NewService(store.Bookings(), detector, store.TxManager(),
			eventbus.NopPublisher{}, m, seoul, log),
		slots: NewUseCase(blocked, detector, log),
	}
}

func statusAt(slots []Slot, at string) domain.SlotStatus {
	for _, s := range slots {
		if s.Time.String() == at {
			return s.Status
		}
	}
	return ""
}

// a Monday far enough ahead for the wall clock used by create_booking
var nextMonday = func() time.Time {
	d := domain.DateOf(time.Now().AddDate(0, 0, 7), seoul)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}()

func TestUseCase_BookedSlotAfterConfirm(t *testing.T) {
	env := newEnvironment()
	ctx := context.Background()
	cheonan := ptr.Ptr(domain.OfficeCheonan)

	req := &create_booking.Request{
		Type:          domain.ConsultationVisit,
		Office:        cheonan,
		PreferredDate: nextMonday,
		PreferredTime: types.MustTimeString("09:00"),
		Name:          "홍길동",
		Phone:         "010-1234-5678",
	}

	first, err := env.create.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Status)

	_, err = env.create.Execute(ctx, req)
	require.ErrorIs(t, err, domain.ErrConflict)

	confirmed, err := env.booking.Confirm(ctx, first.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)

	resp, err := env.slots.Execute(ctx, &Request{Type: domain.ConsultationVisit, Office: cheonan, Date: nextMonday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 16)

	assert.Equal(t, domain.SlotBooked, statusAt(resp.Slots, "09:00"))
	assert.False(t, resp.Slots[0].Available)
	assert.Equal(t, domain.SlotAvailable, statusAt(resp.Slots, "09:30"))
	assert.True(t, resp.Slots[1].Available)

	other, err := env.slots.Execute(ctx, &Request{Type: domain.ConsultationVisit, Office: ptr.Ptr(domain.OfficePyeongtaek), Date: nextMonday})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotAvailable, statusAt(other.Slots, "09:00"))
}

func TestUseCase_GlobalDateBlock(t *testing.T) {
	env := newEnvironment()
	ctx := context.Background()
	christmas := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	_, err := env.blocked.Create(ctx, &blockedModels.CreateBlockedTimeRequest{
		BlockType:   domain.BlockTypeDate,
		BlockedDate: christmas,
	})
	require.NoError(t, err)

	for _, req := range []*Request{
		{Type: domain.ConsultationVisit, Office: ptr.Ptr(domain.OfficeCheonan), Date: christmas},
		{Type: domain.ConsultationVisit, Office: ptr.Ptr(domain.OfficePyeongtaek), Date: christmas},
		{Type: domain.ConsultationVideo, Date: christmas},
	} {
		resp, err := env.slots.Execute(ctx, req)
		require.NoError(t, err)
		require.Len(t, resp.Slots, 16)
		for _, s := range resp.Slots {
			assert.False(t, s.Available)
			assert.Equal(t, domain.SlotBlocked, s.Status)
		}
	}
}

func TestUseCase_WeekendIsEmpty(t *testing.T) {
	env := newEnvironment()

	resp, err := env.slots.Execute(context.Background(), &Request{
		Type: domain.ConsultationVideo,
		Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestUseCase_InvalidChannel(t *testing.T) {
	env := newEnvironment()
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	_, err := env.slots.Execute(context.Background(), &Request{Type: domain.ConsultationVisit, Date: monday})
	assert.ErrorIs(t, err, domain.ErrOfficeRequired)

	_, err = env.slots.Execute(context.Background(), &Request{Type: domain.ConsultationVideo})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalculateSlots_BlockedWinsOverBooked(t *testing.T) {
	monday := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	video := domain.VideoChannel()
	blocks := []*domain.BlockedTime{{
		BlockType:   domain.BlockTypeTimeSlot,
		BlockedDate: monday,
		StartTime:   ptr.Ptr(types.MustTimeString("14:00")),
		EndTime:     ptr.Ptr(types.MustTimeString("15:00")),
	}}
	occupied := map[types.TimeString]struct{}{
		types.MustTimeString("14:30"): {},
		types.MustTimeString("16:00"): {},
	}

	slots := calculateSlots(monday, video, blocks, occupied)

	assert.Equal(t, domain.SlotBlocked, statusAt(slots, "14:00"))
	assert.Equal(t, domain.SlotBlocked, statusAt(slots, "14:30"))
	assert.Equal(t, domain.SlotAvailable, statusAt(slots, "15:00"))
	assert.Equal(t, domain.SlotBooked, statusAt(slots, "16:00"))
}
