package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	autoConfirm "github.com/theyool/booking-service/internal/usecase/auto_confirm"
	sendReminders "github.com/theyool/booking-service/internal/usecase/send_reminders"
)

// AutoConfirmJob auto-confirmation run
type AutoConfirmJob interface {
	Execute(ctx context.Context) (*autoConfirm.Result, error)
}

// ReminderJob reminder run
type ReminderJob interface {
	Execute(ctx context.Context) (*sendReminders.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler triggers the batch jobs in-process on cron schedules.
// The HTTP cron routes call the same use cases; the job lease keeps the two from overlapping.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  Logger
}

// NewScheduler creates a scheduler evaluating expressions in loc.
// timeout bounds a single run.
func NewScheduler(loc *time.Location, timeout time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
		timeout: timeout,
		logger:  logger,
	}
}

// AddAutoConfirm schedules the auto-confirmation job
func (s *Scheduler) AddAutoConfirm(spec string, job AutoConfirmJob) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		result, err := job.Execute(ctx)
		switch {
		case errors.Is(err, autoConfirm.ErrAlreadyRunning):
			s.logger.Info("Scheduler: auto-confirmation skipped, another run holds the lease")
		case err != nil:
			s.logger.Error("Scheduler: auto-confirmation failed: %v", err)
		default:
			s.logger.Info("Scheduler: auto-confirmation done: processed=%d confirmed=%d skipped=%d failed=%d",
				result.Processed, result.Confirmed, result.Skipped, result.Failed)
		}
	})
	if err != nil {
		return fmt.Errorf("worker: schedule auto-confirmation %q: %w", spec, err)
	}
	return nil
}

// AddReminders schedules the reminder job
func (s *Scheduler) AddReminders(spec string, job ReminderJob) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		result, err := job.Execute(ctx)
		if err != nil {
			s.logger.Error("Scheduler: reminders failed: %v", err)
			return
		}
		s.logger.Info("Scheduler: reminders done: sent=%d failed=%d", result.Sent, result.Failed)
	})
	if err != nil {
		return fmt.Errorf("worker: schedule reminders %q: %w", spec, err)
	}
	return nil
}

// Start runs the scheduler until ctx is done; running jobs are waited for
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.logger.Info("Scheduler: started with %d jobs", len(s.cron.Entries()))

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler: stopped")
}

// cronLogger adapts Logger to cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("cron: %s %v", msg, keysAndValues)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: %s: %v %v", msg, err, keysAndValues)
}
