package conflicts

import "github.com/theyool/booking-service/internal/domain"

var (
	// ErrInternal store failure while checking occupancy
	ErrInternal = domain.NewError(domain.ErrStore, "conflicts: internal error")
)
