package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autoConfirm "github.com/theyool/booking-service/internal/usecase/auto_confirm"
	sendReminders "github.com/theyool/booking-service/internal/usecase/send_reminders"
	"github.com/theyool/booking-service/pkg/logger"
)

type countingAutoConfirm struct {
	runs atomic.Int32
	err  error
}

func (c *countingAutoConfirm) Execute(context.Context) (*autoConfirm.Result, error) {
	c.runs.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &autoConfirm.Result{}, nil
}

type countingReminders struct {
	runs atomic.Int32
}

func (c *countingReminders) Execute(context.Context) (*sendReminders.Result, error) {
	c.runs.Add(1)
	return &sendReminders.Result{}, nil
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(time.UTC, time.Minute, logger.NewNop())

	assert.Error(t, s.AddAutoConfirm("not a cron spec", &countingAutoConfirm{}))
	assert.Error(t, s.AddReminders("61 * * * *", &countingReminders{}))
	assert.NoError(t, s.AddAutoConfirm("0 * * * *", &countingAutoConfirm{}))
}

func TestScheduler_RunsJobsUntilCancelled(t *testing.T) {
	s := NewScheduler(time.UTC, time.Minute, logger.NewNop())
	ac := &countingAutoConfirm{err: autoConfirm.ErrAlreadyRunning}
	rem := &countingReminders{}

	require.NoError(t, s.AddAutoConfirm("@every 1s", ac))
	require.NoError(t, s.AddReminders("@every 1s", rem))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return ac.runs.Load() > 0 && rem.runs.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
