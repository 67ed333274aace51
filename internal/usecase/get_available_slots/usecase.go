package get_available_slots

import (
	"context"
	"fmt"

	"github.com/theyool/booking-service/internal/domain"
)

// UseCase availability calculator. Read-only and lock-free; the result may be stale by the
// time a booking is attempted, which is rechecked at write time.
type UseCase struct {
	blocked  BlockedTimeLister
	detector ConflictDetector
	logger   Logger
}

// NewUseCase creates the use case
func NewUseCase(blocked BlockedTimeLister, detector ConflictDetector, logger Logger) *UseCase {
	return &UseCase{
		blocked:  blocked,
		detector: detector,
		logger:   logger,
	}
}

// Execute returns the day's slots for the channel
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	ch, err := domain.NewChannel(req.Type, req.Office)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Closed days have no slots
	if !domain.IsBusinessDay(req.Date) {
		return &Response{Date: req.Date, Channel: ch, Slots: []Slot{}}, nil
	}

	// 3. Blocks and occupancy
	blocks, err := uc.blocked.ListForDate(ctx, req.Date, ch)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked times: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked times: %w", ErrInternal, err)
	}

	occupied, err := uc.detector.OccupiedSlots(ctx, ch, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	// 4. Annotate
	slots := calculateSlots(req.Date, ch, blocks, occupied)

	uc.logger.Info("GetAvailableSlots: %d slots, %d occupied, %d blocks for %s on %s",
		len(slots), len(occupied), len(blocks), ch, req.Date.Format(domain.DateFormat))

	return &Response{Date: req.Date, Channel: ch, Slots: slots}, nil
}
