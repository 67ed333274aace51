package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/theyool/booking-service/internal/api/handlers"
	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/service/bookings/models"
	"github.com/theyool/booking-service/pkg/ptr"
)

// ToServiceRequest builds the filter from query parameters; "all" means no filter
func ToServiceRequest(q url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	if s := q.Get("status"); s != "" && s != "all" {
		req.Status = ptr.Ptr(domain.BookingStatus(s))
	}
	if t := q.Get("type"); t != "" && t != "all" {
		req.Type = ptr.Ptr(domain.ConsultationType(t))
	}
	if o := q.Get("office"); o != "" && o != "all" {
		req.Office = ptr.Ptr(domain.OfficeLocation(o))
	}

	var err error
	if req.DateFrom, err = handlers.ParseOptionalDate(q.Get("date_from")); err != nil {
		return nil, fmt.Errorf("date_from: %w", err)
	}
	if req.DateTo, err = handlers.ParseOptionalDate(q.Get("date_to")); err != nil {
		return nil, fmt.Errorf("date_to: %w", err)
	}

	if req.Limit, err = optionalInt(q.Get("limit")); err != nil {
		return nil, fmt.Errorf("limit: %w", err)
	}
	if req.Offset, err = optionalInt(q.Get("offset")); err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}

	return req, nil
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}
