package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/pkg/types"
)

// BookingFilter criteria for listing bookings. Nil / empty fields are not applied.
type BookingFilter struct {
	Channel       *Channel // exact channel (conflict checks)
	Type          *ConsultationType
	Office        *OfficeLocation
	DateFrom      *time.Time // inclusive
	DateTo        *time.Time // inclusive
	Time          *types.TimeString
	Statuses      []BookingStatus
	ExcludeID     *uuid.UUID
	CreatedBefore *time.Time
	CreatedFrom   *time.Time

	// OrderByCreated sorts oldest-created first; default is by appointment, latest first
	OrderByCreated bool
	Limit          int
	Offset         int

	// ForUpdate locks the selected rows; only honoured inside a transaction
	ForUpdate bool
}

// Matches applies the filter to a single booking (used by in-memory stores)
func (f BookingFilter) Matches(b *Booking) bool {
	if f.Channel != nil && !b.Channel().Equal(*f.Channel) {
		return false
	}
	if f.Type != nil && b.Type != *f.Type {
		return false
	}
	if f.Office != nil && (b.Office == nil || *b.Office != *f.Office) {
		return false
	}
	if f.DateFrom != nil && b.PreferredDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && b.PreferredDate.After(*f.DateTo) {
		return false
	}
	if f.Time != nil && !b.PreferredTime.Equal(*f.Time) {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status) {
		return false
	}
	if f.ExcludeID != nil && b.ID == *f.ExcludeID {
		return false
	}
	if f.CreatedBefore != nil && !b.CreatedAt.Before(*f.CreatedBefore) {
		return false
	}
	if f.CreatedFrom != nil && b.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	return true
}

func containsStatus(statuses []BookingStatus, s BookingStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

// BlockedTimeFilter criteria for listing blocked times
type BlockedTimeFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Office   *OfficeLocation // entries of this office plus global ones
}

// Matches applies the filter to a single entry
func (f BlockedTimeFilter) Matches(b *BlockedTime) bool {
	if f.DateFrom != nil && b.BlockedDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && b.BlockedDate.After(*f.DateTo) {
		return false
	}
	if f.Office != nil && b.Office != nil && *b.Office != *f.Office {
		return false
	}
	return true
}
