package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	timeLayout        = "15:04"
	timeLayoutSeconds = "15:04:05"
	minutesPerDay     = 24 * 60
)

var (
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow is returned when arithmetic leaves the day
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString time of day with minute precision ("HH:MM").
// The zero value means "not set".
type TimeString struct {
	minutes int
	set     bool
}

// NewTimeString takes the time of day from t, dropping seconds.
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute(), set: true}
}

// NewTimeStringFromString parses "HH:MM" (or "HH:MM:SS" as returned by Postgres TIME columns).
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)

	layout := timeLayout
	if len(s) == len(timeLayoutSeconds) {
		layout = timeLayoutSeconds
	}

	t, err := time.Parse(layout, s)
	if err != nil || (layout == timeLayout && len(s) != len(timeLayout)) {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	return NewTimeString(t), nil
}

// MustTimeString is NewTimeStringFromString for constants; panics on malformed input.
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// FromMinutes builds a TimeString from minutes since midnight.
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return TimeString{}, fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString{minutes: minutes, set: true}, nil
}

// IsZero reports whether the value was never set.
func (t TimeString) IsZero() bool {
	return !t.set
}

// Validate checks that the value is set and inside the day.
func (t TimeString) Validate() error {
	if !t.set {
		return fmt.Errorf("%w: empty", ErrInvalidTimeString)
	}
	if t.minutes < 0 || t.minutes >= minutesPerDay {
		return fmt.Errorf("%w: %d minutes", ErrTimeOverflow, t.minutes)
	}
	return nil
}

// Minutes returns minutes since midnight.
func (t TimeString) Minutes() int {
	return t.minutes
}

// AddMinutes returns t shifted by n minutes; the result must stay within the same day.
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	return FromMinutes(t.minutes + n)
}

// IsBefore reports t < other.
func (t TimeString) IsBefore(other TimeString) bool {
	return t.minutes < other.minutes
}

// IsAfter reports t > other.
func (t TimeString) IsAfter(other TimeString) bool {
	return t.minutes > other.minutes
}

// Equal reports t == other.
func (t TimeString) Equal(other TimeString) bool {
	return t == other
}

// On places the time of day on the calendar date of d in loc.
func (t TimeString) On(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, t.minutes/60, t.minutes%60, 0, 0, loc)
}

// String formats the value as "HH:MM"; empty string when not set.
func (t TimeString) String() string {
	if !t.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// MarshalJSON implements json.Marshaler
func (t TimeString) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *TimeString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TimeString{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeString, err)
	}

	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if !t.set {
		return nil, nil
	}
	return t.String(), nil
}

// Scan implements sql.Scanner for TIME columns
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// lib/pq returns TIME as "HH:MM:SS" and may append fractional seconds
	if idx := strings.IndexByte(s, '.'); idx > 0 {
		s = s[:idx]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
