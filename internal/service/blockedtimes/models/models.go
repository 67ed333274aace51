package models

import (
	"time"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/types"
)

// CreateBlockedTimeRequest new exclusion declared by an admin
type CreateBlockedTimeRequest struct {
	BlockType   domain.BlockType
	BlockedDate time.Time
	StartTime   *types.TimeString
	EndTime     *types.TimeString
	Office      *domain.OfficeLocation
	Reason      *string
	CreatedBy   *string
}

// BlockedTimeResponse blocked time as returned over the API
type BlockedTimeResponse struct {
	ID             string  `json:"id"`
	BlockType      string  `json:"block_type"`
	BlockedDate    string  `json:"blocked_date"`
	StartTime      *string `json:"blocked_time_start,omitempty"`
	EndTime        *string `json:"blocked_time_end,omitempty"`
	OfficeLocation *string `json:"office_location"`
	Reason         *string `json:"reason,omitempty"`
	CreatedBy      *string `json:"created_by,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// FromDomain converts a domain entry
func FromDomain(bt *domain.BlockedTime) *BlockedTimeResponse {
	resp := &BlockedTimeResponse{
		ID:          bt.ID.String(),
		BlockType:   string(bt.BlockType),
		BlockedDate: bt.BlockedDate.Format(domain.DateFormat),
		Reason:      bt.Reason,
		CreatedBy:   bt.CreatedBy,
		CreatedAt:   bt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   bt.UpdatedAt.Format(time.RFC3339),
	}
	if bt.StartTime != nil {
		s := bt.StartTime.String()
		resp.StartTime = &s
	}
	if bt.EndTime != nil {
		e := bt.EndTime.String()
		resp.EndTime = &e
	}
	if bt.Office != nil {
		o := string(*bt.Office)
		resp.OfficeLocation = &o
	}
	return resp
}

// FromDomainList converts a list
func FromDomainList(list []*domain.BlockedTime) []*BlockedTimeResponse {
	result := make([]*BlockedTimeResponse, 0, len(list))
	for _, bt := range list {
		result = append(result, FromDomain(bt))
	}
	return result
}
