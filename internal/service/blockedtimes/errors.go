package blockedtimes

import "github.com/theyool/booking-service/internal/domain"

var (
	ErrInvalidBlockType  = domain.NewError(domain.ErrValidation, "blockedtimes: block_type must be date or time_slot")
	ErrDateRequired      = domain.NewError(domain.ErrValidation, "blockedtimes: blocked_date is required")
	ErrTimeRangeRequired = domain.NewError(domain.ErrValidation, "blockedtimes: time_slot blocks require start and end time")
	ErrInvalidTimeRange  = domain.NewError(domain.ErrValidation, "blockedtimes: start time must be before end time")
	ErrInvalidOffice     = domain.NewError(domain.ErrValidation, "blockedtimes: unknown office location")
	ErrReasonTooLong     = domain.NewError(domain.ErrValidation, "blockedtimes: reason is too long")

	// ErrBlockedTimeNotFound no blocked time with the given id
	ErrBlockedTimeNotFound = domain.NewError(domain.ErrNotFound, "blockedtimes: blocked time not found")

	// ErrInternal storage failure
	ErrInternal = domain.NewError(domain.ErrStore, "blockedtimes: internal error")
)
