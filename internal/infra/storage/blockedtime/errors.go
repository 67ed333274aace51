package blockedtime

import "github.com/theyool/booking-service/internal/domain"

var (
	// ErrBlockedTimeNotFound no row with the given id
	ErrBlockedTimeNotFound = domain.NewError(domain.ErrNotFound, "blockedtime.repository: blocked time not found")

	ErrBuildQuery = domain.NewError(domain.ErrStore, "blockedtime.repository: failed to build query")
	ErrExecQuery  = domain.NewError(domain.ErrStore, "blockedtime.repository: failed to execute query")
	ErrScanRow    = domain.NewError(domain.ErrStore, "blockedtime.repository: failed to scan row")
)
