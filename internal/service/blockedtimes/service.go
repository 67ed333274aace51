package blockedtimes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
	blockedTimeRepo "github.com/theyool/booking-service/internal/infra/storage/blockedtime"
	"github.com/theyool/booking-service/internal/service/blockedtimes/models"
	"github.com/theyool/booking-service/pkg/types"
)

// Service registry of admin-declared exclusions
type Service struct {
	repo   BlockedTimeRepository
	logger Logger
}

// NewService creates the registry
func NewService(repo BlockedTimeRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and stores a new blocked time
func (s *Service) Create(ctx context.Context, req *models.CreateBlockedTimeRequest) (*domain.BlockedTime, error) {
	if err := validateCreate(req); err != nil {
		s.logger.Warn("CreateBlockedTime: validation failed: %v", err)
		return nil, err
	}

	bt := &domain.BlockedTime{
		BlockType:   req.BlockType,
		BlockedDate: req.BlockedDate,
		Office:      req.Office,
		Reason:      req.Reason,
		CreatedBy:   req.CreatedBy,
	}
	// a date block covers the whole day; bounds are meaningless
	if req.BlockType == domain.BlockTypeTimeSlot {
		bt.StartTime = req.StartTime
		bt.EndTime = req.EndTime
	}

	created, err := s.repo.Create(ctx, bt)
	if err != nil {
		s.logger.Error("CreateBlockedTime: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("CreateBlockedTime: created id=%s type=%s date=%s office=%s",
		created.ID, created.BlockType, created.BlockedDate.Format(domain.DateFormat), officeLabel(created.Office))
	return created, nil
}

// Delete removes a blocked time
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, blockedTimeRepo.ErrBlockedTimeNotFound) {
			s.logger.Warn("DeleteBlockedTime: id=%s not found", id)
			return ErrBlockedTimeNotFound
		}
		s.logger.Error("DeleteBlockedTime: repository error for id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("DeleteBlockedTime: deleted id=%s", id)
	return nil
}

// UpdateReason changes the reason; nil clears it
func (s *Service) UpdateReason(ctx context.Context, id uuid.UUID, reason *string) (*domain.BlockedTime, error) {
	if reason != nil && len([]rune(*reason)) > domain.MaxReasonLength {
		return nil, ErrReasonTooLong
	}

	updated, err := s.repo.UpdateReason(ctx, id, reason)
	if err != nil {
		if errors.Is(err, blockedTimeRepo.ErrBlockedTimeNotFound) {
			s.logger.Warn("UpdateBlockedTime: id=%s not found", id)
			return nil, ErrBlockedTimeNotFound
		}
		s.logger.Error("UpdateBlockedTime: repository error for id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateReason - repository error: %w", ErrInternal, err)
	}

	return updated, nil
}

// List returns blocked times matching the filter
func (s *Service) List(ctx context.Context, filter domain.BlockedTimeFilter) ([]*domain.BlockedTime, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListBlockedTimes: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}
	return list, nil
}

// ListForDate entries on date that apply to the channel
func (s *Service) ListForDate(ctx context.Context, date time.Time, ch domain.Channel) ([]*domain.BlockedTime, error) {
	list, err := s.repo.ListForDate(ctx, date, ch)
	if err != nil {
		s.logger.Error("ListBlockedTimesForDate: repository error for date=%s channel=%s: %v",
			date.Format(domain.DateFormat), ch, err)
		return nil, fmt.Errorf("%w: ListForDate - repository error: %w", ErrInternal, err)
	}
	return list, nil
}

// IsDateFullyBlocked reports whether a date block covers the channel on date
func (s *Service) IsDateFullyBlocked(ctx context.Context, date time.Time, ch domain.Channel) (bool, error) {
	list, err := s.ListForDate(ctx, date, ch)
	if err != nil {
		return false, err
	}
	return domain.IsDateFullyBlocked(list, ch), nil
}

// IsSlotBlocked reports whether the slot is unavailable because of a block
func (s *Service) IsSlotBlocked(ctx context.Context, date time.Time, t types.TimeString, ch domain.Channel) (bool, error) {
	list, err := s.ListForDate(ctx, date, ch)
	if err != nil {
		return false, err
	}
	return domain.IsSlotBlocked(list, t, ch), nil
}

func validateCreate(req *models.CreateBlockedTimeRequest) error {
	if !req.BlockType.IsValid() {
		return ErrInvalidBlockType
	}
	if req.BlockedDate.IsZero() {
		return ErrDateRequired
	}
	if req.Office != nil && !req.Office.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidOffice, *req.Office)
	}
	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxReasonLength {
		return ErrReasonTooLong
	}

	if req.BlockType == domain.BlockTypeTimeSlot {
		if req.StartTime == nil || req.EndTime == nil || req.StartTime.IsZero() || req.EndTime.IsZero() {
			return ErrTimeRangeRequired
		}
		if !req.StartTime.IsBefore(*req.EndTime) {
			return fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, req.StartTime, req.EndTime)
		}
	}

	return nil
}

func officeLabel(o *domain.OfficeLocation) string {
	if o == nil {
		return "all"
	}
	return string(*o)
}
