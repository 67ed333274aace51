package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
	blockedTimeRepo "github.com/theyool/booking-service/internal/infra/storage/blockedtime"
)

// BlockedTimeRepository same contract and errors as the Postgres blocked time repository
type BlockedTimeRepository struct {
	store *Store
}

func (r *BlockedTimeRepository) Create(ctx context.Context, bt *domain.BlockedTime) (*domain.BlockedTime, error) {
	r.store.write(ctx, func() {
		if bt.ID == uuid.Nil {
			bt.ID = uuid.New()
		}
		now := r.store.now()
		bt.CreatedAt = now
		bt.UpdatedAt = now
		r.store.blocked[bt.ID] = cloneBlockedTime(bt)
	})
	return bt, nil
}

func (r *BlockedTimeRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.BlockedTime, error) {
	var found *domain.BlockedTime
	r.store.read(func() {
		if bt, ok := r.store.blocked[id]; ok {
			found = cloneBlockedTime(bt)
		}
	})
	if found == nil {
		return nil, blockedTimeRepo.ErrBlockedTimeNotFound
	}
	return found, nil
}

func (r *BlockedTimeRepository) List(_ context.Context, filter domain.BlockedTimeFilter) ([]*domain.BlockedTime, error) {
	return r.collect(filter.Matches), nil
}

// ListForDate entries of the date whose scope covers the channel
func (r *BlockedTimeRepository) ListForDate(_ context.Context, date time.Time, ch domain.Channel) ([]*domain.BlockedTime, error) {
	return r.collect(func(bt *domain.BlockedTime) bool {
		return bt.BlockedDate.Equal(date) && bt.AppliesTo(ch)
	}), nil
}

func (r *BlockedTimeRepository) UpdateReason(ctx context.Context, id uuid.UUID, reason *string) (*domain.BlockedTime, error) {
	var updated *domain.BlockedTime
	r.store.write(ctx, func() {
		current, ok := r.store.blocked[id]
		if !ok {
			return
		}
		current.Reason = clonePtr(reason)
		current.UpdatedAt = r.store.now()
		updated = cloneBlockedTime(current)
	})
	if updated == nil {
		return nil, blockedTimeRepo.ErrBlockedTimeNotFound
	}
	return updated, nil
}

func (r *BlockedTimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	found := false
	r.store.write(ctx, func() {
		if _, ok := r.store.blocked[id]; ok {
			delete(r.store.blocked, id)
			found = true
		}
	})
	if !found {
		return blockedTimeRepo.ErrBlockedTimeNotFound
	}
	return nil
}

func (r *BlockedTimeRepository) collect(match func(*domain.BlockedTime) bool) []*domain.BlockedTime {
	result := make([]*domain.BlockedTime, 0)
	r.store.read(func() {
		for _, bt := range r.store.blocked {
			if match(bt) {
				result = append(result, cloneBlockedTime(bt))
			}
		}
	})

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.BlockedDate.Equal(b.BlockedDate) {
			return a.BlockedDate.Before(b.BlockedDate)
		}
		// NULLS FIRST
		if a.StartTime == nil || b.StartTime == nil {
			return a.StartTime == nil && b.StartTime != nil
		}
		return a.StartTime.IsBefore(*b.StartTime)
	})
	return result
}
