package get_available_slots

import (
	"time"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/types"
)

// Request day and channel to inspect
type Request struct {
	Type   domain.ConsultationType
	Office *domain.OfficeLocation
	Date   time.Time // calendar date, midnight UTC
}

// Response every slot of the day, annotated
type Response struct {
	Date    time.Time
	Channel domain.Channel
	Slots   []Slot
}

// Slot one slot of the day
type Slot struct {
	Time      types.TimeString
	Available bool
	Status    domain.SlotStatus
}
