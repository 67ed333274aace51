package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
)

// Request models

// ListBookingsRequest admin listing filter; empty fields are not applied
type ListBookingsRequest struct {
	Status   *domain.BookingStatus
	Type     *domain.ConsultationType
	Office   *domain.OfficeLocation
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// ToDomainFilter converts the request into a store filter
func (r *ListBookingsRequest) ToDomainFilter() domain.BookingFilter {
	filter := domain.BookingFilter{
		Type:     r.Type,
		Office:   r.Office,
		DateFrom: r.DateFrom,
		DateTo:   r.DateTo,
		Limit:    r.Limit,
		Offset:   r.Offset,
	}
	if r.Status != nil {
		filter.Statuses = []domain.BookingStatus{*r.Status}
	}
	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultListLimit
	}
	if filter.Limit > domain.MaxListLimit {
		filter.Limit = domain.MaxListLimit
	}
	return filter
}

// UpdateDetailsRequest admin-editable fields. Status is changed only through the lifecycle operations.
type UpdateDetailsRequest struct {
	AssignedLawyer *string
	VideoLink      *string
	AdminNotes     *string
}

// ToDomain converts the request into a details update
func (r *UpdateDetailsRequest) ToDomain() domain.BookingDetailsUpdate {
	return domain.BookingDetailsUpdate{
		AssignedLawyer: r.AssignedLawyer,
		VideoLink:      r.VideoLink,
		AdminNotes:     r.AdminNotes,
	}
}

// Response models

// BookingResponse booking as returned by the API
type BookingResponse struct {
	ID               uuid.UUID `json:"id"`
	ConsultationType string    `json:"type"`
	OfficeLocation   *string   `json:"office_location"`
	PreferredDate    string    `json:"preferred_date"` // "2025-03-03"
	PreferredTime    string    `json:"preferred_time"` // "10:00"
	Name             string    `json:"name"`
	Phone            string    `json:"phone"`
	Email            *string   `json:"email,omitempty"`
	Category         *string   `json:"category,omitempty"`
	Message          *string   `json:"message,omitempty"`
	PreferredLawyer  *string   `json:"preferred_lawyer,omitempty"`

	Status         string     `json:"status"`
	AssignedLawyer *string    `json:"assigned_lawyer,omitempty"`
	VideoLink      *string    `json:"video_link,omitempty"`
	AdminNotes     *string    `json:"admin_notes,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingListResponse list of bookings
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Count    int               `json:"count"`
}

// StatsResponse dashboard counters
type StatsResponse struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Today     int `json:"today"`
	ThisWeek  int `json:"thisWeek"`
}

// Conversion

// FromDomainBooking converts a booking into its DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:               b.ID,
		ConsultationType: string(b.Type),
		PreferredDate:    b.PreferredDate.Format(domain.DateFormat),
		PreferredTime:    b.PreferredTime.String(),
		Name:             b.Name,
		Phone:            b.Phone,
		Email:            b.Email,
		Category:         b.Category,
		Message:          b.Message,
		Status:           string(b.Status),
		AssignedLawyer:   b.AssignedLawyer,
		VideoLink:        b.VideoLink,
		AdminNotes:       b.AdminNotes,
		ConfirmedAt:      b.ConfirmedAt,
		CancelledAt:      b.CancelledAt,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	if b.Office != nil {
		office := string(*b.Office)
		resp.OfficeLocation = &office
	}
	if b.PreferredLawyer != nil {
		lawyer := string(*b.PreferredLawyer)
		resp.PreferredLawyer = &lawyer
	}

	return resp
}

// FromDomainBookingList converts a list of bookings
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		if r := FromDomainBooking(b); r != nil {
			resp.Bookings = append(resp.Bookings, *r)
		}
	}
	resp.Count = len(resp.Bookings)
	return resp
}

// FromDomainStats converts the counters
func FromDomainStats(s *domain.BookingStats) *StatsResponse {
	return &StatsResponse{
		Total:     s.Total,
		Pending:   s.Pending,
		Confirmed: s.Confirmed,
		Today:     s.Today,
		ThisWeek:  s.ThisWeek,
	}
}
