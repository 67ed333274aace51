package send_reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
)

const jobName = "send_reminders"

// UseCase publishes a reminder event for every confirmed booking of the next day.
// Delivery (SMS, e-mail) is up to the consumers of the events.
type UseCase struct {
	bookingRepo  BookingRepository
	publisher    EventPublisher
	metrics      Metrics
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the job
func NewUseCase(
	bookingRepo BookingRepository,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		publisher:    publisher,
		metrics:      metrics,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute runs the job once
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	started := uc.timeProvider.Now()
	defer func() {
		uc.metrics.ObserveJobDuration(jobName, time.Since(started))
	}()

	// 1. Tomorrow in the service timezone
	tomorrow := domain.DateOf(started, uc.location).AddDate(0, 0, 1)

	// 2. Confirmed bookings of that day
	list, err := uc.bookingRepo.List(ctx, domain.BookingFilter{
		Statuses: []domain.BookingStatus{domain.StatusConfirmed},
		DateFrom: &tomorrow,
		DateTo:   &tomorrow,
	})
	if err != nil {
		uc.logger.Error("SendReminders: failed to fetch bookings for %s: %v", tomorrow.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to fetch bookings: %w", ErrInternal, err)
	}

	uc.logger.Info("SendReminders: %d confirmed bookings on %s", len(list), tomorrow.Format(domain.DateFormat))

	result := &Result{
		Date:    tomorrow,
		Details: make([]Detail, 0, len(list)),
	}

	// 3. One event per booking, earliest first (the list comes latest first); keep going on failure
	for i := len(list) - 1; i >= 0; i-- {
		b := list[i]
		detail := Detail{ID: b.ID, Name: b.Name, Time: b.PreferredTime.String()}

		event := eventbus.NewBookingEvent(eventbus.EventBookingReminder, b, jobName, "", uc.timeProvider.Now())
		if err := uc.publisher.Publish(ctx, event); err != nil {
			uc.logger.Error("SendReminders: publish for booking id=%s failed: %v", b.ID, err)
			detail.Error = err.Error()
			result.Failed++
			uc.metrics.IncJobOutcome(jobName, "failed")
		} else {
			detail.Sent = true
			result.Sent++
			uc.metrics.IncJobOutcome(jobName, "sent")
		}

		result.Details = append(result.Details, detail)
	}

	result.Timestamp = uc.timeProvider.Now()

	uc.logger.Info("SendReminders: sent=%d failed=%d", result.Sent, result.Failed)

	return result, nil
}
