package domain

import (
	"time"

	"github.com/theyool/booking-service/pkg/types"
)

// business hours, lunch break excluded
var workingPeriods = []struct {
	from, to int // minutes since midnight, [from, to)
}{
	{from: 9 * 60, to: 12 * 60},
	{from: 13 * 60, to: 18 * 60},
}

var daySlots = buildDaySlots()

func buildDaySlots() []types.TimeString {
	slots := make([]types.TimeString, 0, 16)
	for _, p := range workingPeriods {
		for m := p.from; m < p.to; m += SlotDurationMinutes {
			ts, err := types.FromMinutes(m)
			if err != nil {
				panic(err)
			}
			slots = append(slots, ts)
		}
	}
	return slots
}

// IsBusinessDay Monday through Friday
func IsBusinessDay(date time.Time) bool {
	wd := date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// SlotsForDay bookable slot starts for the date in ascending order; empty on non-business days
func SlotsForDay(date time.Time) []types.TimeString {
	if !IsBusinessDay(date) {
		return []types.TimeString{}
	}
	slots := make([]types.TimeString, len(daySlots))
	copy(slots, daySlots)
	return slots
}

// IsValidSlot reports whether t is a slot start on date
func IsValidSlot(date time.Time, t types.TimeString) bool {
	for _, s := range SlotsForDay(date) {
		if s.Equal(t) {
			return true
		}
	}
	return false
}

// DateOf calendar date of t in loc, as midnight UTC
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD into midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
