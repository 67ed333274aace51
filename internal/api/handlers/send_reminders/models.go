package send_reminders

import (
	"fmt"
	"time"

	"github.com/theyool/booking-service/internal/domain"
	sendReminders "github.com/theyool/booking-service/internal/usecase/send_reminders"
)

// RunResponse HTTP response model
type RunResponse struct {
	Message   string           `json:"message"`
	Date      string           `json:"date"`
	Sent      int              `json:"sent"`
	Failed    int              `json:"failed"`
	Details   []DetailResponse `json:"details"`
	Timestamp string           `json:"timestamp"`
}

type DetailResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Time  string `json:"time"`
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

// FromUseCaseResult converts the run summary
func FromUseCaseResult(res *sendReminders.Result) *RunResponse {
	out := &RunResponse{
		Message:   fmt.Sprintf("Reminders sent: %d, failed: %d", res.Sent, res.Failed),
		Date:      res.Date.Format(domain.DateFormat),
		Sent:      res.Sent,
		Failed:    res.Failed,
		Details:   make([]DetailResponse, 0, len(res.Details)),
		Timestamp: res.Timestamp.UTC().Format(time.RFC3339),
	}
	for _, d := range res.Details {
		out.Details = append(out.Details, DetailResponse{
			ID:    d.ID.String(),
			Name:  d.Name,
			Time:  d.Time,
			Sent:  d.Sent,
			Error: d.Error,
		})
	}
	return out
}
