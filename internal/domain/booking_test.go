package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theyool/booking-service/pkg/ptr"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	all := []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

	allowed := map[BookingStatus][]BookingStatus{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCompleted, StatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatus_TerminalAndActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusCompleted.IsActive())

	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
}

func TestNewChannel(t *testing.T) {
	ch, err := NewChannel(ConsultationVisit, ptr.Ptr(OfficeCheonan))
	require.NoError(t, err)
	assert.Equal(t, "visit:천안", ch.Key())

	ch, err = NewChannel(ConsultationVideo, nil)
	require.NoError(t, err)
	assert.Equal(t, "video", ch.Key())

	_, err = NewChannel(ConsultationVisit, nil)
	assert.ErrorIs(t, err, ErrOfficeRequired)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewChannel(ConsultationVisit, ptr.Ptr(OfficeLocation("서울")))
	assert.ErrorIs(t, err, ErrInvalidOffice)

	_, err = NewChannel(ConsultationVideo, ptr.Ptr(OfficePyeongtaek))
	assert.ErrorIs(t, err, ErrOfficeNotAllowed)

	_, err = NewChannel("phone", nil)
	assert.ErrorIs(t, err, ErrInvalidConsultationType)
}

func TestBooking_Channel(t *testing.T) {
	visit := &Booking{Type: ConsultationVisit, Office: ptr.Ptr(OfficePyeongtaek)}
	video := &Booking{Type: ConsultationVideo}

	assert.True(t, visit.Channel().Equal(VisitChannel(OfficePyeongtaek)))
	assert.False(t, visit.Channel().Equal(VisitChannel(OfficeCheonan)))
	assert.True(t, video.Channel().Equal(VideoChannel()))
}

func TestBooking_AppendAdminNote(t *testing.T) {
	b := &Booking{}
	b.AppendAdminNote("first")
	b.AppendAdminNote("")
	b.AppendAdminNote("second")

	assert.Equal(t, "first\nsecond", *b.AdminNotes)
}

func TestKindOf(t *testing.T) {
	errSlot := NewError(ErrConflict, "create_booking: slot is not available")

	assert.Equal(t, "create_booking: slot is not available", errSlot.Error())
	assert.Equal(t, ErrConflict, KindOf(fmt.Errorf("%w: in tx", errSlot)))
	assert.Equal(t, ErrValidation, KindOf(ErrOfficeRequired))
	assert.Equal(t, ErrStore, KindOf(errors.New("connection refused")))
}
