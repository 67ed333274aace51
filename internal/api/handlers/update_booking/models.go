package update_booking

import "github.com/theyool/booking-service/internal/service/bookings/models"

// UpdateBookingRequest HTTP request model. Status is not accepted here;
// it changes only through confirm, cancel and complete.
type UpdateBookingRequest struct {
	AssignedLawyer *string `json:"assigned_lawyer,omitempty"`
	VideoLink      *string `json:"video_link,omitempty"`
	AdminNotes     *string `json:"admin_notes,omitempty"`
}

func (r *UpdateBookingRequest) ToServiceRequest() *models.UpdateDetailsRequest {
	return &models.UpdateDetailsRequest{
		AssignedLawyer: r.AssignedLawyer,
		VideoLink:      r.VideoLink,
		AdminNotes:     r.AdminNotes,
	}
}
