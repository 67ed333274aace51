package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theyool/booking-service/internal/domain"
	bookingRepo "github.com/theyool/booking-service/internal/infra/storage/booking"
	"github.com/theyool/booking-service/pkg/ptr"
	"github.com/theyool/booking-service/pkg/types"
)

func newBooking(office domain.OfficeLocation, at string) *domain.Booking {
	return &domain.Booking{
		Type:          domain.ConsultationVisit,
		Office:        ptr.Ptr(office),
		PreferredDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		PreferredTime: types.MustTimeString(at),
		Name:          "홍길동",
		Phone:         "010-1234-5678",
		Status:        domain.StatusPending,
	}
}

func TestBookingRepository_ActiveSlotUnique(t *testing.T) {
	store := New()
	repo := store.Bookings()
	ctx := context.Background()

	_, err := repo.Create(ctx, newBooking(domain.OfficeCheonan, "10:00"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newBooking(domain.OfficeCheonan, "10:00"))
	assert.ErrorIs(t, err, bookingRepo.ErrSlotNotAvailable)

	_, err = repo.Create(ctx, newBooking(domain.OfficePyeongtaek, "10:00"))
	assert.NoError(t, err, "different office is a different channel")
}

func TestTxManager_RollbackRestoresWrites(t *testing.T) {
	store := New()
	repo := store.Bookings()
	tm := store.TxManager()
	errAbort := errors.New("abort")

	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		if _, err := repo.Create(ctx, newBooking(domain.OfficeCheonan, "10:00")); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	all, err := repo.List(context.Background(), domain.BookingFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBookingRepository_UpdateStatusCompareAndSet(t *testing.T) {
	store := New()
	repo := store.Bookings()
	ctx := context.Background()

	b := store.Seed(newBooking(domain.OfficeCheonan, "10:00"))
	b.Status = domain.StatusConfirmed
	require.NoError(t, repo.UpdateStatus(ctx, b, domain.StatusPending))

	b.Status = domain.StatusCancelled
	err := repo.UpdateStatus(ctx, b, domain.StatusPending)
	assert.ErrorIs(t, err, bookingRepo.ErrStatusChanged)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestBookingRepository_ReturnsCopies(t *testing.T) {
	store := New()
	repo := store.Bookings()
	ctx := context.Background()

	b := store.Seed(newBooking(domain.OfficeCheonan, "10:00"))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	got.Status = domain.StatusCancelled

	again, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)
}

func TestBookingRepository_ListOrderByCreated(t *testing.T) {
	store := New()
	repo := store.Bookings()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	second := newBooking(domain.OfficeCheonan, "11:00")
	second.CreatedAt = base.Add(time.Hour)
	first := newBooking(domain.OfficeCheonan, "10:00")
	first.CreatedAt = base
	store.Seed(second)
	store.Seed(first)

	got, err := repo.List(context.Background(), domain.BookingFilter{OrderByCreated: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "10:00", got[0].PreferredTime.String())
}
