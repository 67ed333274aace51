// Package conflicts answers whether a (channel, date, time) is already held by an active booking.
//
// Every check must run with the caller's transactional context: inside a transaction the
// candidate rows are read FOR UPDATE, so the check and the following write form one unit.
package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/types"
)

// Detector conflict checks over the booking store
type Detector struct {
	repo BookingRepository
}

// NewDetector creates a detector
func NewDetector(repo BookingRepository) *Detector {
	return &Detector{repo: repo}
}

// ConflictExists reports whether a pending or confirmed booking other than excludeID
// occupies the slot
func (d *Detector) ConflictExists(ctx context.Context, ch domain.Channel, date time.Time, t types.TimeString, excludeID *uuid.UUID) (bool, error) {
	return d.exists(ctx, ch, date, t, excludeID, domain.ActiveStatuses)
}

// ConfirmedConflictExists like ConflictExists but only confirmed bookings count.
// Confirm uses it: a pending competitor is not yet a holder and must not block promotion.
func (d *Detector) ConfirmedConflictExists(ctx context.Context, ch domain.Channel, date time.Time, t types.TimeString, excludeID *uuid.UUID) (bool, error) {
	return d.exists(ctx, ch, date, t, excludeID, []domain.BookingStatus{domain.StatusConfirmed})
}

// OccupiedSlots slot times on date held by an active booking of the channel
func (d *Detector) OccupiedSlots(ctx context.Context, ch domain.Channel, date time.Time) (map[types.TimeString]struct{}, error) {
	list, err := d.repo.List(ctx, domain.BookingFilter{
		Channel:  &ch,
		DateFrom: &date,
		DateTo:   &date,
		Statuses: domain.ActiveStatuses,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: OccupiedSlots - list bookings: %w", ErrInternal, err)
	}

	occupied := make(map[types.TimeString]struct{}, len(list))
	for _, b := range list {
		occupied[b.PreferredTime] = struct{}{}
	}
	return occupied, nil
}

func (d *Detector) exists(
	ctx context.Context,
	ch domain.Channel,
	date time.Time,
	t types.TimeString,
	excludeID *uuid.UUID,
	statuses []domain.BookingStatus,
) (bool, error) {
	list, err := d.repo.List(ctx, domain.BookingFilter{
		Channel:   &ch,
		DateFrom:  &date,
		DateTo:    &date,
		Time:      &t,
		Statuses:  statuses,
		ExcludeID: excludeID,
		Limit:     1,
		ForUpdate: true,
	})
	if err != nil {
		return false, fmt.Errorf("%w: conflict check - list bookings: %w", ErrInternal, err)
	}
	return len(list) > 0, nil
}
