package domain

import "time"

// Calendar
const (
	SlotDurationMinutes = 30
	DefaultTimezone     = "Asia/Seoul"
)

// Auto-confirmation defaults
const (
	DefaultAutoConfirmAfter     = 24 * time.Hour
	DefaultAutoConfirmBatchSize = 100
	AutoConfirmActor            = "auto-confirmation"
)

// Business validation constants
const (
	MinNameLength        = 2
	MaxNameLength        = 100
	MaxMessageLength     = 2000
	MaxCategoryLength    = 100
	MaxReasonLength      = 500
	MaxAdminNotesLength  = 5000
	MaxVideoLinkLength   = 500
	DefaultListLimit     = 100
	MaxListLimit         = 500
	MaxAdvanceBookingCap = 365
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that hold a slot
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
