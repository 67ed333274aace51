package create_blocked_time

import (
	"github.com/theyool/booking-service/internal/api/handlers"
	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/service/blockedtimes/models"
	"github.com/theyool/booking-service/pkg/ptr"
)

// CreateBlockedTimeRequest HTTP request model
type CreateBlockedTimeRequest struct {
	BlockType      string  `json:"block_type" validate:"required,oneof=date time_slot"`
	BlockedDate    string  `json:"blocked_date" validate:"required,datetime=2006-01-02"`
	StartTime      *string `json:"blocked_time_start,omitempty"`
	EndTime        *string `json:"blocked_time_end,omitempty"`
	OfficeLocation *string `json:"office_location,omitempty"`
	Reason         *string `json:"reason,omitempty"`
}

// ToServiceRequest converts the body; createdBy is the authenticated admin
func (r *CreateBlockedTimeRequest) ToServiceRequest(createdBy string) (*models.CreateBlockedTimeRequest, error) {
	date, err := domain.ParseDate(r.BlockedDate)
	if err != nil {
		return nil, err
	}
	start, err := handlers.ParseOptionalTime(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseOptionalTime(r.EndTime)
	if err != nil {
		return nil, err
	}

	req := &models.CreateBlockedTimeRequest{
		BlockType:   domain.BlockType(r.BlockType),
		BlockedDate: date,
		StartTime:   start,
		EndTime:     end,
		Reason:      r.Reason,
		CreatedBy:   &createdBy,
	}
	if r.OfficeLocation != nil && *r.OfficeLocation != "" {
		req.Office = ptr.Ptr(domain.OfficeLocation(*r.OfficeLocation))
	}
	return req, nil
}
