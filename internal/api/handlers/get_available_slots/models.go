package get_available_slots

import (
	"github.com/theyool/booking-service/internal/domain"
	getAvailableSlots "github.com/theyool/booking-service/internal/usecase/get_available_slots"
	"github.com/theyool/booking-service/pkg/ptr"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date           string         `json:"date"`
	Type           string         `json:"type"`
	OfficeLocation *string        `json:"office_location"`
	Slots          []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Status    string `json:"status"`
}

// ToUseCaseRequest builds the request from query parameters
func ToUseCaseRequest(dateStr, typeStr, officeStr string) (*getAvailableSlots.Request, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		Type: domain.ConsultationType(typeStr),
		Date: date,
	}
	if officeStr != "" {
		req.Office = ptr.Ptr(domain.OfficeLocation(officeStr))
	}
	return req, nil
}

// FromUseCaseResponse converts the annotated day
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	out := &SlotsResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Type:  string(resp.Channel.Type),
		Slots: make([]SlotResponse, 0, len(resp.Slots)),
	}
	if resp.Channel.Office != nil {
		out.OfficeLocation = ptr.Ptr(string(*resp.Channel.Office))
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			Time:      s.Time.String(),
			Available: s.Available,
			Status:    string(s.Status),
		})
	}
	return out
}
