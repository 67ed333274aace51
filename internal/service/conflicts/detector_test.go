package conflicts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/infra/storage/memstore"
	"github.com/theyool/booking-service/pkg/ptr"
	"github.com/theyool/booking-service/pkg/types"
)

var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func seed(store *memstore.Store, ch domain.Channel, at string, status domain.BookingStatus) *domain.Booking {
	return store.Seed(&domain.Booking{
		Type:          ch.Type,
		Office:        ch.Office,
		PreferredDate: monday,
		PreferredTime: types.MustTimeString(at),
		Name:          "홍길동",
		Phone:         "01012345678",
		Status:        status,
	})
}

func TestDetector_ConflictExists(t *testing.T) {
	store := memstore.New()
	d := NewDetector(store.Bookings())
	ctx := context.Background()
	cheonan := domain.VisitChannel(domain.OfficeCheonan)
	at := types.MustTimeString("10:00")

	pending := seed(store, cheonan, "10:00", domain.StatusPending)
	seed(store, cheonan, "11:00", domain.StatusCancelled)

	tests := []struct {
		name    string
		ch      domain.Channel
		at      string
		exclude bool
		want    bool
	}{
		{name: "pending holds the slot", ch: cheonan, at: "10:00", want: true},
		{name: "self is excluded", ch: cheonan, at: "10:00", exclude: true, want: false},
		{name: "cancelled is inert", ch: cheonan, at: "11:00", want: false},
		{name: "other office is independent", ch: domain.VisitChannel(domain.OfficePyeongtaek), at: "10:00", want: false},
		{name: "video is independent", ch: domain.VideoChannel(), at: "10:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exclude = ptr.Ptr(pending.ID)
			if !tt.exclude {
				exclude = nil
			}
			got, err := d.ConflictExists(ctx, tt.ch, monday, types.MustTimeString(tt.at), exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	confirmed, err := d.ConfirmedConflictExists(ctx, cheonan, monday, at, nil)
	require.NoError(t, err)
	assert.False(t, confirmed, "a pending booking is not a confirmed holder")
}

func TestDetector_OccupiedSlots(t *testing.T) {
	store := memstore.New()
	d := NewDetector(store.Bookings())
	video := domain.VideoChannel()

	seed(store, video, "14:00", domain.StatusConfirmed)
	seed(store, video, "15:00", domain.StatusPending)
	seed(store, video, "16:00", domain.StatusCompleted)
	seed(store, domain.VisitChannel(domain.OfficeCheonan), "09:00", domain.StatusPending)

	occupied, err := d.OccupiedSlots(context.Background(), video, monday)
	require.NoError(t, err)

	assert.Len(t, occupied, 2)
	assert.Contains(t, occupied, types.MustTimeString("14:00"))
	assert.Contains(t, occupied, types.MustTimeString("15:00"))
}
