package run_auto_confirmation

import (
	"fmt"
	"time"

	"github.com/theyool/booking-service/internal/domain"
	autoConfirm "github.com/theyool/booking-service/internal/usecase/auto_confirm"
)

const msgNothingToProcess = "No pending bookings to process"

// RunResponse HTTP response model
type RunResponse struct {
	Message        string           `json:"message"`
	TotalProcessed int              `json:"total_processed"`
	Confirmed      int              `json:"confirmed"`
	Skipped        int              `json:"skipped"`
	Failed         int              `json:"failed"`
	Details        []DetailResponse `json:"details,omitempty"`
	Timestamp      string           `json:"timestamp"`
}

type DetailResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// FromUseCaseResult converts the run summary
func FromUseCaseResult(res *autoConfirm.Result) *RunResponse {
	out := &RunResponse{
		TotalProcessed: res.Processed,
		Confirmed:      res.Confirmed,
		Skipped:        res.Skipped,
		Failed:         res.Failed,
		Timestamp:      res.Timestamp.UTC().Format(time.RFC3339),
	}

	if res.Processed == 0 {
		out.Message = msgNothingToProcess
		return out
	}

	out.Message = fmt.Sprintf("Auto-confirmation completed: %d confirmed, %d skipped, %d failed",
		res.Confirmed, res.Skipped, res.Failed)
	out.Details = make([]DetailResponse, 0, len(res.Details))
	for _, d := range res.Details {
		out.Details = append(out.Details, DetailResponse{
			ID:     d.ID.String(),
			Name:   d.Name,
			Date:   d.Date.Format(domain.DateFormat),
			Time:   d.Time,
			Status: string(d.Outcome),
			Reason: d.Reason,
			Error:  d.Error,
		})
	}
	return out
}
