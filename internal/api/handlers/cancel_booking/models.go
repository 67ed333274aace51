package cancel_booking

// AdminCancelRequest HTTP request model; the body is optional
type AdminCancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// CustomerCancelRequest HTTP request model; phone must match the booking
type CustomerCancelRequest struct {
	Phone  string `json:"phone" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// CancelResponse reduced view for customers
type CancelResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
