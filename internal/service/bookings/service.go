package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
	bookingRepo "github.com/theyool/booking-service/internal/infra/storage/booking"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
	"github.com/theyool/booking-service/internal/service/bookings/models"
)

// Service booking lifecycle manager. Every status change goes through here,
// interactive or from the auto-confirmation job.
type Service struct {
	bookingRepo  BookingRepository
	detector     ConflictDetector
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService creates the lifecycle manager
func NewService(
	bookingRepo BookingRepository,
	detector ConflictDetector,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		detector:     detector,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// GetByID returns one booking
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapError("GetByID", id, err)
	}
	return models.FromDomainBooking(b), nil
}

// List returns bookings for the admin list, latest appointment first
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if req.Status != nil && !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}
	if req.Type != nil && !req.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown consultation type %q", ErrInvalidInput, *req.Type)
	}
	if req.Office != nil && !req.Office.IsValid() {
		return nil, fmt.Errorf("%w: unknown office %q", ErrInvalidInput, *req.Office)
	}
	if req.DateFrom != nil && req.DateTo != nil && req.DateTo.Before(*req.DateFrom) {
		return nil, fmt.Errorf("%w: date_to is before date_from", ErrInvalidInput)
	}

	list, err := s.bookingRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("ListBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListBookings: fetched %d bookings", len(list))
	return models.FromDomainBookingList(list), nil
}

// UpdateDetails changes assigned lawyer, video link or admin notes. Never the status.
func (s *Service) UpdateDetails(ctx context.Context, id uuid.UUID, req *models.UpdateDetailsRequest) (*models.BookingResponse, error) {
	if err := validateDetails(req); err != nil {
		s.logger.Warn("UpdateDetails: validation failed for booking id=%s: %v", id, err)
		return nil, err
	}

	update := req.ToDomain()
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	b, err := s.bookingRepo.UpdateDetails(ctx, id, update)
	if err != nil {
		return nil, s.mapError("UpdateDetails", id, err)
	}

	s.logger.Info("UpdateDetails: updated booking id=%s", id)
	return models.FromDomainBooking(b), nil
}

// Stats dashboard counters; today and this week are in the service timezone
func (s *Service) Stats(ctx context.Context) (*models.StatsResponse, error) {
	now := s.timeProvider.Now().In(s.location)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	// Monday-based week
	offset := (int(todayStart.Weekday()) + 6) % 7
	weekStart := todayStart.AddDate(0, 0, -offset)

	stats, err := s.bookingRepo.Stats(ctx, todayStart, weekStart)
	if err != nil {
		s.logger.Error("Stats: repository error: %v", err)
		return nil, fmt.Errorf("%w: Stats - repository error: %w", ErrInternal, err)
	}
	return models.FromDomainStats(stats), nil
}

// Confirm pending -> confirmed. The slot is rechecked against confirmed bookings
// in the same transaction as the write.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID, actor string) (*models.BookingResponse, error) {
	return s.transition(ctx, "Confirm", id, domain.StatusConfirmed, actor, "",
		func(txCtx context.Context, b *domain.Booking) error {
			if b.Status != domain.StatusPending {
				return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.Status)
			}
			taken, err := s.detector.ConfirmedConflictExists(txCtx, b.Channel(), b.PreferredDate, b.PreferredTime, &b.ID)
			if err != nil {
				return fmt.Errorf("%w: Confirm - conflict check: %w", ErrInternal, err)
			}
			if taken {
				return fmt.Errorf("%w: %s %s %s", ErrSlotTaken,
					b.Channel(), b.PreferredDate.Format(domain.DateFormat), b.PreferredTime)
			}
			return nil
		},
		func(b *domain.Booking, now time.Time) {
			b.ConfirmedAt = &now
			if actor == domain.AutoConfirmActor {
				b.AppendAdminNote(fmt.Sprintf("[auto-confirmed at %s]", now.Format(time.RFC3339)))
				return
			}
			b.AppendAdminNote(fmt.Sprintf("[confirmed by %s at %s]", actor, now.Format(time.RFC3339)))
		})
}

// Cancel pending|confirmed -> cancelled by an admin
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, actor, reason string) (*models.BookingResponse, error) {
	return s.cancel(ctx, "Cancel", id, actor, reason, nil)
}

// CancelByCustomer cancellation by the customer, who proves ownership with the phone on record.
// A mismatch reads as not found.
func (s *Service) CancelByCustomer(ctx context.Context, id uuid.UUID, phone, reason string) (*models.BookingResponse, error) {
	digits := NormalizePhone(phone)
	if digits == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	return s.cancel(ctx, "CancelByCustomer", id, "customer", reason, func(b *domain.Booking) error {
		if NormalizePhone(b.Phone) != digits {
			s.logger.Warn("CancelByCustomer: phone mismatch for booking id=%s", id)
			return ErrBookingNotFound
		}
		return nil
	})
}

// Complete confirmed -> completed, once the appointment has started
func (s *Service) Complete(ctx context.Context, id uuid.UUID, actor string) (*models.BookingResponse, error) {
	return s.transition(ctx, "Complete", id, domain.StatusCompleted, actor, "",
		func(_ context.Context, b *domain.Booking) error {
			if b.Status != domain.StatusConfirmed {
				return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.Status)
			}
			if s.timeProvider.Now().Before(b.StartsAt(s.location)) {
				return fmt.Errorf("%w: starts at %s", ErrNotStarted, b.StartsAt(s.location).Format(time.RFC3339))
			}
			return nil
		},
		func(b *domain.Booking, now time.Time) {
			b.AppendAdminNote(fmt.Sprintf("[completed by %s at %s]", actor, now.Format(time.RFC3339)))
		})
}

func (s *Service) cancel(
	ctx context.Context,
	op string,
	id uuid.UUID,
	actor, reason string,
	authorize func(b *domain.Booking) error,
) (*models.BookingResponse, error) {
	reason = strings.TrimSpace(reason)
	if len([]rune(reason)) > domain.MaxReasonLength {
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	return s.transition(ctx, op, id, domain.StatusCancelled, actor, reason,
		func(_ context.Context, b *domain.Booking) error {
			if authorize != nil {
				if err := authorize(b); err != nil {
					return err
				}
			}
			if !b.Status.CanTransitionTo(domain.StatusCancelled) {
				return fmt.Errorf("%w: booking is %s", ErrInvalidTransition, b.Status)
			}
			return nil
		},
		func(b *domain.Booking, now time.Time) {
			b.CancelledAt = &now
			note := fmt.Sprintf("[cancelled by %s at %s]", actor, now.Format(time.RFC3339))
			if reason != "" {
				note += " " + reason
			}
			b.AppendAdminNote(note)
		})
}

// transition loads the booking under lock, runs check, applies mutate and writes the new
// status with a compare-and-set, all in one serializable transaction. The event is
// published after commit; a publishing failure is logged and never fails the call.
func (s *Service) transition(
	ctx context.Context,
	op string,
	id uuid.UUID,
	to domain.BookingStatus,
	actor, reason string,
	check func(txCtx context.Context, b *domain.Booking) error,
	mutate func(b *domain.Booking, now time.Time),
) (*models.BookingResponse, error) {
	s.logger.Info("%s: booking id=%s by %s", op, id, actor)

	var result *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := check(txCtx, b); err != nil {
			return err
		}

		from := b.Status
		b.Status = to
		mutate(b, s.timeProvider.Now().UTC())

		if err := s.bookingRepo.UpdateStatus(txCtx, b, from); err != nil {
			return err
		}

		result = b
		return nil
	})
	if err != nil {
		return nil, s.mapError(op, id, err)
	}

	s.metrics.IncBookingTransition(string(to))
	s.logger.Info("%s: booking id=%s is now %s", op, id, to)

	s.publish(ctx, eventFor(to), result, actor, reason)

	return models.FromDomainBooking(result), nil
}

func (s *Service) publish(ctx context.Context, t eventbus.EventType, b *domain.Booking, actor, reason string) {
	event := eventbus.NewBookingEvent(t, b, actor, reason, s.timeProvider.Now())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("publish %s for booking id=%s failed: %v", t, b.ID, err)
	}
}

// mapError converts store errors into this package's sentinels and logs them
func (s *Service) mapError(op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound), errors.Is(err, ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%s not found", op, id)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusChanged):
		s.logger.Warn("%s: booking id=%s changed concurrently", op, id)
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrSlotTaken),
		errors.Is(err, ErrNotStarted), errors.Is(err, ErrInvalidInput):
		s.logger.Warn("%s: booking id=%s rejected: %v", op, id, err)
		return err
	case errors.Is(err, ErrInternal):
		s.logger.Error("%s: booking id=%s: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
}

func eventFor(status domain.BookingStatus) eventbus.EventType {
	switch status {
	case domain.StatusConfirmed:
		return eventbus.EventBookingConfirmed
	case domain.StatusCancelled:
		return eventbus.EventBookingCancelled
	case domain.StatusCompleted:
		return eventbus.EventBookingCompleted
	default:
		return eventbus.EventBookingCreated
	}
}
