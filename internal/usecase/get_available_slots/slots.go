package get_available_slots

import (
	"time"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/types"
)

// calculateSlots annotates each slot of the day. A blocked slot reports blocked even when
// it is also booked: the block is what an administrator has to lift.
func calculateSlots(
	date time.Time,
	ch domain.Channel,
	blocks []*domain.BlockedTime,
	occupied map[types.TimeString]struct{},
) []Slot {
	daySlots := domain.SlotsForDay(date)
	slots := make([]Slot, 0, len(daySlots))

	for _, t := range daySlots {
		status := domain.SlotAvailable
		if domain.IsSlotBlocked(blocks, t, ch) {
			status = domain.SlotBlocked
		} else if _, taken := occupied[t]; taken {
			status = domain.SlotBooked
		}

		slots = append(slots, Slot{
			Time:      t,
			Available: status == domain.SlotAvailable,
			Status:    status,
		})
	}

	return slots
}
