package create_booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/types"
)

// Korean mobile number, dashes optional
var phonePattern = regexp.MustCompile(`^01[0-9]-?[0-9]{3,4}-?[0-9]{4}$`)

var validate = validator.New()

// validateRequest checks the customer fields and returns the requested channel
func validateRequest(req *Request) (domain.Channel, error) {
	ch, err := domain.NewChannel(req.Type, req.Office)
	if err != nil {
		return domain.Channel{}, err
	}

	name := []rune(strings.TrimSpace(req.Name))
	if len(name) < domain.MinNameLength {
		return domain.Channel{}, fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, domain.MinNameLength)
	}
	if len(name) > domain.MaxNameLength {
		return domain.Channel{}, fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}

	if !phonePattern.MatchString(strings.TrimSpace(req.Phone)) {
		return domain.Channel{}, fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
	}

	if req.Email != nil && *req.Email != "" {
		if err := validate.Var(*req.Email, "email"); err != nil {
			return domain.Channel{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
	}

	if req.Category != nil && len([]rune(*req.Category)) > domain.MaxCategoryLength {
		return domain.Channel{}, fmt.Errorf("%w: category is too long", ErrInvalidInput)
	}
	if req.Message != nil && len([]rune(*req.Message)) > domain.MaxMessageLength {
		return domain.Channel{}, fmt.Errorf("%w: message is too long", ErrInvalidInput)
	}
	if req.PreferredLawyer != nil && !req.PreferredLawyer.IsValid() {
		return domain.Channel{}, fmt.Errorf("%w: unknown lawyer %q", ErrInvalidInput, *req.PreferredLawyer)
	}

	if req.PreferredDate.IsZero() {
		return domain.Channel{}, fmt.Errorf("%w: preferred_date is required", ErrInvalidInput)
	}
	if req.PreferredTime.IsZero() {
		return domain.Channel{}, fmt.Errorf("%w: preferred_time is required", ErrInvalidInput)
	}

	return ch, nil
}

// validateDate checks the booking window and the calendar
func validateDate(date time.Time, t types.TimeString, now time.Time, settings Settings) error {
	today := domain.DateOf(now, settings.Location)

	if date.Before(today) {
		return ErrPastDate
	}

	if settings.MaxAdvanceDays > 0 && date.After(today.AddDate(0, 0, settings.MaxAdvanceDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, settings.MaxAdvanceDays)
	}

	if !domain.IsBusinessDay(date) {
		return fmt.Errorf("%w: %s", ErrNotBusinessDay, date.Weekday())
	}

	if !domain.IsValidSlot(date, t) {
		return fmt.Errorf("%w: %s", ErrInvalidTimeSlot, t)
	}

	// today's slots that have already started
	if date.Equal(today) && !now.Before(t.On(date, settings.Location)) {
		return fmt.Errorf("%w: slot %s has already started", ErrPastDate, t)
	}

	return nil
}
