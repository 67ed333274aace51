package domain

import "github.com/theyool/booking-service/pkg/types"

// SlotStatus why a slot is or is not bookable
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotBlocked   SlotStatus = "blocked"
)

// SlotAvailability one slot of a day for a channel
type SlotAvailability struct {
	Time   types.TimeString
	Status SlotStatus
}

// Available returns true if the slot can be booked
func (s SlotAvailability) Available() bool {
	return s.Status == SlotAvailable
}
