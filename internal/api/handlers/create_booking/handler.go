package create_booking

import (
	"errors"
	"net/http"

	"github.com/theyool/booking-service/internal/api/handlers"
	"github.com/theyool/booking-service/internal/domain"
	createBooking "github.com/theyool/booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateTime    = "invalid preferred_date or preferred_time, expected YYYY-MM-DD and HH:MM"
	msgInvalidInput       = "invalid booking details"
	msgInvalidChannel     = "office_location is required for visit and not allowed for video"
	msgPastDate           = "the selected date or time has already passed"
	msgDateTooFar         = "the selected date is too far in the future"
	msgNotBusinessDay     = "consultations are available on weekdays only"
	msgInvalidTimeSlot    = "the selected time is not a bookable slot"
	msgSlotBlocked        = "the selected time is not available for booking"
	msgSlotNotAvailable   = "this time slot is no longer available, please choose another"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidRequestBody, err.Error())
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse date/time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: type=%s date=%s time=%s", req.Type, req.PreferredDate, req.PreferredTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrSlotBlocked):
			handlers.RespondBadRequest(w, msgSlotBlocked)

		case errors.Is(err, createBooking.ErrPastDate):
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrNotBusinessDay):
			handlers.RespondBadRequest(w, msgNotBusinessDay)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, domain.ErrOfficeRequired), errors.Is(err, domain.ErrOfficeNotAllowed),
			errors.Is(err, domain.ErrInvalidOffice), errors.Is(err, domain.ErrInvalidConsultationType):
			handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidChannel, err.Error())

		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgInvalidInput, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: %v", err)
			handlers.RespondDomainError(w, err, msgInvalidInput)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%s", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
