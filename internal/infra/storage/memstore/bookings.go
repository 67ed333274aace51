package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
	bookingRepo "github.com/theyool/booking-service/internal/infra/storage/booking"
)

// BookingRepository same contract and errors as the Postgres booking repository
type BookingRepository struct {
	store *Store
}

// Create inserts b, enforcing one active booking per channel, date and time
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	var err error
	r.store.write(ctx, func() {
		if b.Status.IsActive() {
			for _, existing := range r.store.bookings {
				if existing.Status.IsActive() &&
					existing.Channel().Equal(b.Channel()) &&
					existing.PreferredDate.Equal(b.PreferredDate) &&
					existing.PreferredTime.Equal(b.PreferredTime) {
					err = fmt.Errorf("%w: Create - %s %s %s", bookingRepo.ErrSlotNotAvailable,
						b.Channel().Key(), b.PreferredDate.Format(domain.DateFormat), b.PreferredTime)
					return
				}
			}
		}

		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		now := r.store.now()
		b.CreatedAt = now
		b.UpdatedAt = now
		r.store.bookings[b.ID] = cloneBooking(b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID returns a copy of the booking
func (r *BookingRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	var found *domain.Booking
	r.store.read(func() {
		if b, ok := r.store.bookings[id]; ok {
			found = cloneBooking(b)
		}
	})
	if found == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return found, nil
}

// List returns copies of the matching bookings in the Postgres repository's order
func (r *BookingRepository) List(_ context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	r.store.read(func() {
		for _, b := range r.store.bookings {
			if filter.Matches(b) {
				result = append(result, cloneBooking(b))
			}
		}
	})

	if filter.OrderByCreated {
		sort.Slice(result, func(i, j int) bool {
			if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
				return result[i].CreatedAt.Before(result[j].CreatedAt)
			}
			return result[i].ID.String() < result[j].ID.String()
		})
	} else {
		sort.Slice(result, func(i, j int) bool {
			a, b := result[i], result[j]
			if !a.PreferredDate.Equal(b.PreferredDate) {
				return a.PreferredDate.After(b.PreferredDate)
			}
			if !a.PreferredTime.Equal(b.PreferredTime) {
				return a.PreferredTime.IsAfter(b.PreferredTime)
			}
			return a.CreatedAt.After(b.CreatedAt)
		})
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*domain.Booking{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

// UpdateStatus compare-and-set on the status
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error {
	var err error
	r.store.write(ctx, func() {
		current, ok := r.store.bookings[b.ID]
		if !ok || current.Status != from {
			err = fmt.Errorf("%w: booking id=%s is no longer %s", bookingRepo.ErrStatusChanged, b.ID, from)
			return
		}

		current.Status = b.Status
		current.ConfirmedAt = clonePtr(b.ConfirmedAt)
		current.CancelledAt = clonePtr(b.CancelledAt)
		current.AdminNotes = clonePtr(b.AdminNotes)
		current.UpdatedAt = r.store.now()
		b.UpdatedAt = current.UpdatedAt
	})
	return err
}

// UpdateDetails changes admin-editable fields
func (r *BookingRepository) UpdateDetails(ctx context.Context, id uuid.UUID, update domain.BookingDetailsUpdate) (*domain.Booking, error) {
	var updated *domain.Booking
	r.store.write(ctx, func() {
		current, ok := r.store.bookings[id]
		if !ok {
			return
		}
		update.Apply(current)
		current.UpdatedAt = r.store.now()
		updated = cloneBooking(current)
	})
	if updated == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return updated, nil
}

// Stats dashboard counters
func (r *BookingRepository) Stats(_ context.Context, todayStart, weekStart time.Time) (*domain.BookingStats, error) {
	var stats domain.BookingStats
	r.store.read(func() {
		for _, b := range r.store.bookings {
			stats.Total++
			switch b.Status {
			case domain.StatusPending:
				stats.Pending++
			case domain.StatusConfirmed:
				stats.Confirmed++
			}
			if !b.CreatedAt.Before(todayStart) {
				stats.Today++
			}
			if !b.CreatedAt.Before(weekStart) {
				stats.ThisWeek++
			}
		}
	})
	return &stats, nil
}
