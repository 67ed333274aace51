package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/types"
)

// Request customer intent
type Request struct {
	Type            domain.ConsultationType
	Office          *domain.OfficeLocation
	PreferredDate   time.Time // calendar date, midnight UTC
	PreferredTime   types.TimeString
	Name            string
	Phone           string
	Email           *string
	Category        *string
	Message         *string
	PreferredLawyer *domain.LawyerName
}

// Response created booking
type Response struct {
	ID            uuid.UUID
	Type          domain.ConsultationType
	Office        *domain.OfficeLocation
	PreferredDate time.Time
	PreferredTime types.TimeString
	Name          string
	Status        domain.BookingStatus
	CreatedAt     time.Time
}

// Settings booking window policy
type Settings struct {
	Location *time.Location

	// MaxAdvanceDays how far ahead a date may be; 0 means unlimited
	MaxAdvanceDays int
}
