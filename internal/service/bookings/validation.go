package bookings

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/internal/service/bookings/models"
)

var validate = validator.New()

// validateDetails checks the admin-editable fields
func validateDetails(req *models.UpdateDetailsRequest) error {
	if req.AssignedLawyer != nil && *req.AssignedLawyer != "" {
		if !domain.LawyerName(*req.AssignedLawyer).IsValid() {
			return fmt.Errorf("%w: unknown lawyer %q", ErrInvalidInput, *req.AssignedLawyer)
		}
	}

	if req.VideoLink != nil && *req.VideoLink != "" {
		if err := validate.Var(*req.VideoLink, fmt.Sprintf("url,max=%d", domain.MaxVideoLinkLength)); err != nil {
			return fmt.Errorf("%w: invalid video link", ErrInvalidInput)
		}
	}

	if req.AdminNotes != nil && len([]rune(*req.AdminNotes)) > domain.MaxAdminNotesLength {
		return fmt.Errorf("%w: admin notes are too long", ErrInvalidInput)
	}

	return nil
}

// NormalizePhone keeps only the digits: "010-1234-5678" and "01012345678" compare equal
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}
