package eventbus

import (
	"time"

	"github.com/theyool/booking-service/internal/domain"
)

// EventType routing key of a notification event; also the queue name
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
	EventBookingReminder  EventType = "booking.reminder"
)

// BookingEvent payload consumed by the notification senders (SMS, e-mail).
// Carries enough to render a message without reading the database.
type BookingEvent struct {
	Type             EventType `json:"type"`
	BookingID        string    `json:"booking_id"`
	Status           string    `json:"status"`
	ConsultationType string    `json:"consultation_type"`
	OfficeLocation   *string   `json:"office_location,omitempty"`
	PreferredDate    string    `json:"preferred_date"`
	PreferredTime    string    `json:"preferred_time"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            *string   `json:"email,omitempty"`
	AssignedLawyer   *string   `json:"assigned_lawyer,omitempty"`
	VideoLink        *string   `json:"video_link,omitempty"`
	Actor            string    `json:"actor,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	OccurredAt       string    `json:"occurred_at"`
}

// NewBookingEvent builds the payload for b
func NewBookingEvent(t EventType, b *domain.Booking, actor, reason string, at time.Time) BookingEvent {
	e := BookingEvent{
		Type:             t,
		BookingID:        b.ID.String(),
		Status:           string(b.Status),
		ConsultationType: string(b.Type),
		PreferredDate:    b.PreferredDate.Format(domain.DateFormat),
		PreferredTime:    b.PreferredTime.String(),
		Name:             b.Name,
		Phone:            b.Phone,
		Email:            b.Email,
		AssignedLawyer:   b.AssignedLawyer,
		VideoLink:        b.VideoLink,
		Actor:            actor,
		Reason:           reason,
		OccurredAt:       at.UTC().Format(time.RFC3339),
	}
	if b.Office != nil {
		office := string(*b.Office)
		e.OfficeLocation = &office
	}
	return e
}
