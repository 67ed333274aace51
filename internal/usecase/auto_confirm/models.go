package auto_confirm

import (
	"time"

	"github.com/google/uuid"
)

// Outcome per-booking result of a run
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Skip reasons
const (
	ReasonConflict   = "conflict"
	ReasonNotPending = "no longer pending"
	ReasonNotFound   = "not found"
)

// Settings job policy
type Settings struct {
	// Threshold minimum age of a pending booking
	Threshold time.Duration
	// BatchSize maximum bookings per run
	BatchSize int
	// LockTTL lease duration; should exceed the longest expected run
	LockTTL time.Duration
}

// Detail outcome for one booking
type Detail struct {
	ID      uuid.UUID
	Name    string
	Date    time.Time
	Time    string
	Outcome Outcome
	Reason  string // skipped only
	Error   string // failed only
}

// Result run summary
type Result struct {
	Processed int
	Confirmed int
	Skipped   int
	Failed    int
	Details   []Detail
	Timestamp time.Time
}
