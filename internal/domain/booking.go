package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsActive returns true if a booking in this status holds its slot
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true for statuses that never change again
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo reports whether the lifecycle allows s -> to
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	switch s {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// LawyerName lawyers a customer can ask for
type LawyerName string

const (
	LawyerYukSimwon LawyerName = "육심원"
	LawyerLimEunji  LawyerName = "임은지"
)

// IsValid reports whether l is a known lawyer
func (l LawyerName) IsValid() bool {
	return l == LawyerYukSimwon || l == LawyerLimEunji
}

// Booking a consultation appointment request
type Booking struct {
	ID uuid.UUID

	// Intent, immutable after creation
	Type            ConsultationType
	Office          *OfficeLocation
	PreferredDate   time.Time // calendar date, midnight UTC
	PreferredTime   types.TimeString
	Name            string
	Phone           string
	Email           *string
	Category        *string
	Message         *string
	PreferredLawyer *LawyerName

	// Lifecycle
	Status         BookingStatus
	AssignedLawyer *string
	VideoLink      *string
	AdminNotes     *string
	ConfirmedAt    *time.Time
	CancelledAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Channel returns the resource the booking occupies
func (b *Booking) Channel() Channel {
	if b.Type == ConsultationVisit && b.Office != nil {
		return VisitChannel(*b.Office)
	}
	return Channel{Type: b.Type}
}

// IsActive returns true if the booking holds its slot
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// StartsAt appointment start in loc
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.PreferredTime.On(b.PreferredDate, loc)
}

// AppendAdminNote adds a line to the admin notes
func (b *Booking) AppendAdminNote(note string) {
	if note == "" {
		return
	}
	if b.AdminNotes == nil || *b.AdminNotes == "" {
		b.AdminNotes = &note
		return
	}
	joined := *b.AdminNotes + "\n" + note
	b.AdminNotes = &joined
}

// BookingDetailsUpdate admin-editable fields; nil fields are left unchanged.
// Status is never part of it.
type BookingDetailsUpdate struct {
	AssignedLawyer *string
	VideoLink      *string
	AdminNotes     *string
}

// IsEmpty returns true if nothing is to be changed
func (u BookingDetailsUpdate) IsEmpty() bool {
	return u.AssignedLawyer == nil && u.VideoLink == nil && u.AdminNotes == nil
}

// Apply copies the set fields onto b
func (u BookingDetailsUpdate) Apply(b *Booking) {
	if u.AssignedLawyer != nil {
		v := *u.AssignedLawyer
		b.AssignedLawyer = &v
	}
	if u.VideoLink != nil {
		v := *u.VideoLink
		b.VideoLink = &v
	}
	if u.AdminNotes != nil {
		v := *u.AdminNotes
		b.AdminNotes = &v
	}
}

// BookingStats dashboard counters
type BookingStats struct {
	Total     int
	Pending   int
	Confirmed int
	Today     int // created today
	ThisWeek  int // created since Monday
}
