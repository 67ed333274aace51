package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theyool/booking-service/internal/domain"
	bookingRepo "github.com/theyool/booking-service/internal/infra/storage/booking"
	"github.com/theyool/booking-service/internal/integrations/eventbus"
)

// UseCase creates pending bookings
type UseCase struct {
	bookingRepo  BookingRepository
	blocked      BlockedTimeChecker
	detector     ConflictDetector
	txManager    TransactionManager
	publisher    EventPublisher
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase creates the use case
func NewUseCase(
	bookingRepo BookingRepository,
	blocked BlockedTimeChecker,
	detector ConflictDetector,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		blocked:      blocked,
		detector:     detector,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute validates the intent and inserts a pending booking.
// The blocked check, the conflict check and the insert run in one serializable transaction.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: type=%s, date=%s, time=%s",
		req.Type, req.PreferredDate.Format(domain.DateFormat), req.PreferredTime)

	// 1. Customer fields
	ch, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Booking window and calendar
	now := uc.timeProvider.Now()
	if err := validateDate(req.PreferredDate, req.PreferredTime, now, uc.settings); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 3. Check and insert atomically
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Administrator blocks
		blocked, err := uc.blocked.IsSlotBlocked(txCtx, req.PreferredDate, req.PreferredTime, ch)
		if err != nil {
			return fmt.Errorf("%w: failed to check blocked times: %w", ErrInternal, err)
		}
		if blocked {
			return fmt.Errorf("%w: %s %s %s", ErrSlotBlocked, ch, req.PreferredDate.Format(domain.DateFormat), req.PreferredTime)
		}

		// 3.2. Active booking on the slot, rows locked
		taken, err := uc.detector.ConflictExists(txCtx, ch, req.PreferredDate, req.PreferredTime, nil)
		if err != nil {
			return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
		}
		if taken {
			return fmt.Errorf("%w: %s %s %s", ErrSlotNotAvailable, ch, req.PreferredDate.Format(domain.DateFormat), req.PreferredTime)
		}

		// 3.3. Insert
		created, err := uc.bookingRepo.Create(txCtx, newBooking(req, ch))
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotAvailable), errors.Is(err, ErrSlotBlocked):
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, err
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CreateBooking: %v", err)
			return nil, err
		default:
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrInternal, err)
		}
	}

	uc.metrics.IncBookingTransition(string(domain.StatusPending))
	uc.logger.Info("CreateBooking: created booking id=%s on %s", result.ID, ch)

	// 4. Notify; failures never fail the request
	event := eventbus.NewBookingEvent(eventbus.EventBookingCreated, result, "customer", "", now)
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: publish event for booking id=%s failed: %v", result.ID, err)
	}

	return &Response{
		ID:            result.ID,
		Type:          result.Type,
		Office:        result.Office,
		PreferredDate: result.PreferredDate,
		PreferredTime: result.PreferredTime,
		Name:          result.Name,
		Status:        result.Status,
		CreatedAt:     result.CreatedAt,
	}, nil
}

func newBooking(req *Request, ch domain.Channel) *domain.Booking {
	return &domain.Booking{
		Type:            ch.Type,
		Office:          ch.Office,
		PreferredDate:   req.PreferredDate,
		PreferredTime:   req.PreferredTime,
		Name:            strings.TrimSpace(req.Name),
		Phone:           strings.TrimSpace(req.Phone),
		Email:           emptyToNil(req.Email),
		Category:        emptyToNil(req.Category),
		Message:         emptyToNil(req.Message),
		PreferredLawyer: req.PreferredLawyer,
		Status:          domain.StatusPending,
	}
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
