package create_booking

import (
	"time"

	"github.com/theyool/booking-service/internal/domain"
	createBooking "github.com/theyool/booking-service/internal/usecase/create_booking"
	"github.com/theyool/booking-service/pkg/ptr"
	"github.com/theyool/booking-service/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Type            string  `json:"type" validate:"required,oneof=visit video"`
	OfficeLocation  *string `json:"office_location,omitempty"`
	PreferredDate   string  `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime   string  `json:"preferred_time" validate:"required,datetime=15:04"`
	Name            string  `json:"name" validate:"required"`
	Phone           string  `json:"phone" validate:"required"`
	Email           *string `json:"email,omitempty"`
	Category        *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Message         *string `json:"message,omitempty" validate:"omitempty,max=2000"`
	PreferredLawyer *string `json:"preferred_lawyer,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	OfficeLocation *string `json:"office_location"`
	PreferredDate  string  `json:"preferred_date"`
	PreferredTime  string  `json:"preferred_time"`
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

// ToUseCaseRequest converts the body, parsing date and time
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := domain.ParseDate(r.PreferredDate)
	if err != nil {
		return nil, err
	}

	at, err := types.NewTimeStringFromString(r.PreferredTime)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		Type:          domain.ConsultationType(r.Type),
		PreferredDate: date,
		PreferredTime: at,
		Name:          r.Name,
		Phone:         r.Phone,
		Email:         r.Email,
		Category:      r.Category,
		Message:       r.Message,
	}
	if r.OfficeLocation != nil && *r.OfficeLocation != "" {
		req.Office = ptr.Ptr(domain.OfficeLocation(*r.OfficeLocation))
	}
	if r.PreferredLawyer != nil && *r.PreferredLawyer != "" {
		req.PreferredLawyer = ptr.Ptr(domain.LawyerName(*r.PreferredLawyer))
	}

	return req, nil
}

// FromUseCaseResponse converts the created booking
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	out := &BookingResponse{
		ID:            resp.ID.String(),
		Type:          string(resp.Type),
		PreferredDate: resp.PreferredDate.Format(domain.DateFormat),
		PreferredTime: resp.PreferredTime.String(),
		Name:          resp.Name,
		Status:        string(resp.Status),
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
	}
	if resp.Office != nil {
		out.OfficeLocation = ptr.Ptr(string(*resp.Office))
	}
	return out
}
