package send_reminders

import (
	"time"

	"github.com/google/uuid"
)

// Detail outcome for one booking
type Detail struct {
	ID    uuid.UUID
	Name  string
	Time  string
	Sent  bool
	Error string
}

// Result run summary
type Result struct {
	Date      time.Time // the day reminded about
	Sent      int
	Failed    int
	Details   []Detail
	Timestamp time.Time
}
