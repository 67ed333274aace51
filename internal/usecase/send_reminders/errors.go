package send_reminders

import "github.com/theyool/booking-service/internal/domain"

var (
	// ErrInternal the confirmed bookings could not be read
	ErrInternal = domain.NewError(domain.ErrStore, "send_reminders: internal error")
)
