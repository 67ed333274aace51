package auto_confirm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/infra/lock"
)

const (
	jobName = "auto_confirm"
	lockKey = "jobs:auto-confirm"
)

// UseCase promotes pending bookings older than the threshold.
//
// Re-running is safe: only bookings still pending are selected and each promotion is a
// compare-and-set, so a second run over the same data confirms nothing new.
type UseCase struct {
	bookingRepo  BookingRepository
	confirmer    Confirmer
	locker       Locker
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the job; locker may be nil
func NewUseCase(
	bookingRepo BookingRepository,
	confirmer Confirmer,
	locker Locker,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Threshold <= 0 {
		settings.Threshold = domain.DefaultAutoConfirmAfter
	}
	if settings.BatchSize <= 0 {
		settings.BatchSize = domain.DefaultAutoConfirmBatchSize
	}
	if settings.LockTTL <= 0 {
		settings.LockTTL = 5 * time.Minute
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		confirmer:    confirmer,
		locker:       locker,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute runs one batch
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	started := uc.timeProvider.Now()
	defer func() {
		uc.metrics.ObserveJobDuration(jobName, time.Since(started))
	}()

	// 1. Lease
	if uc.locker != nil {
		unlock, err := uc.locker.TryLock(ctx, lockKey, uc.settings.LockTTL)
		switch {
		case errors.Is(err, lock.ErrNotAcquired):
			uc.logger.Warn("AutoConfirm: another run holds the lease")
			return nil, ErrAlreadyRunning
		case err != nil:
			uc.logger.Warn("AutoConfirm: lock unavailable, running without it: %v", err)
		default:
			defer func() {
				if err := unlock(context.WithoutCancel(ctx)); err != nil {
					uc.logger.Warn("AutoConfirm: release lease: %v", err)
				}
			}()
		}
	}

	// 2. Candidates, oldest first
	cutoff := started.Add(-uc.settings.Threshold)
	pending, err := uc.bookingRepo.List(ctx, domain.BookingFilter{
		Statuses:       []domain.BookingStatus{domain.StatusPending},
		CreatedBefore:  &cutoff,
		OrderByCreated: true,
		Limit:          uc.settings.BatchSize,
	})
	if err != nil {
		uc.logger.Error("AutoConfirm: failed to fetch pending bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to fetch pending bookings: %w", ErrInternal, err)
	}

	uc.logger.Info("AutoConfirm: %d pending bookings created before %s", len(pending), cutoff.Format(time.RFC3339))

	result := &Result{
		Details: make([]Detail, 0, len(pending)),
	}

	// 3. Confirm each through the lifecycle manager; one failure never stops the batch
	for _, b := range pending {
		if err := ctx.Err(); err != nil {
			uc.logger.Warn("AutoConfirm: stopped after %d bookings: %v", len(result.Details), err)
			break
		}

		detail := Detail{
			ID:   b.ID,
			Name: b.Name,
			Date: b.PreferredDate,
			Time: b.PreferredTime.String(),
		}

		_, err := uc.confirmer.Confirm(ctx, b.ID, domain.AutoConfirmActor)
		detail.Outcome, detail.Reason = classify(err)

		switch detail.Outcome {
		case OutcomeConfirmed:
			result.Confirmed++
		case OutcomeSkipped:
			result.Skipped++
			uc.logger.Info("AutoConfirm: skipped booking id=%s: %s", b.ID, detail.Reason)
		case OutcomeFailed:
			result.Failed++
			detail.Error = err.Error()
			uc.logger.Error("AutoConfirm: failed to confirm booking id=%s: %v", b.ID, err)
		}

		uc.metrics.IncJobOutcome(jobName, string(detail.Outcome))
		result.Details = append(result.Details, detail)
	}

	result.Processed = len(result.Details)
	result.Timestamp = uc.timeProvider.Now()

	uc.logger.Info("AutoConfirm: processed=%d confirmed=%d skipped=%d failed=%d",
		result.Processed, result.Confirmed, result.Skipped, result.Failed)

	return result, nil
}

// classify maps a Confirm error to an outcome. Losing the slot or the pending status is an
// expected skip; only store failures count as failed.
func classify(err error) (Outcome, string) {
	switch {
	case err == nil:
		return OutcomeConfirmed, ""
	case errors.Is(err, domain.ErrConflict):
		return OutcomeSkipped, ReasonConflict
	case errors.Is(err, domain.ErrInvalidTransition):
		return OutcomeSkipped, ReasonNotPending
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeSkipped, ReasonNotFound
	default:
		return OutcomeFailed, ""
	}
}
