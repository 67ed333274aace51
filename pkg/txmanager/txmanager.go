package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"

	"github.com/theyool/booking-service/pkg/dbmetrics"
	"github.com/theyool/booking-service/pkg/metrics"
)

const (
	defaultMaxRetries      = 3
	defaultInitialInterval = 20 * time.Millisecond
	defaultMaxInterval     = 500 * time.Millisecond
)

// Postgres SQLSTATE codes that mean "run the transaction again"
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

var (
	// ErrBeginTx transaction could not be opened
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommit commit failed; the work is not persisted
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrRetriesExhausted serialization conflicts persisted after all retries
	ErrRetriesExhausted = errors.New("txmanager: serialization retries exhausted")
)

// TxBeginner *dbmetrics.DB or anything else able to open a transaction
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Option configures the manager
type Option func(*TransactionManager)

// WithRetry sets how serialization failures are retried
func WithRetry(maxRetries int, initial, max time.Duration) Option {
	return func(m *TransactionManager) {
		if maxRetries >= 0 {
			m.maxRetries = uint64(maxRetries)
		}
		if initial > 0 {
			m.initialInterval = initial
		}
		if max > 0 {
			m.maxInterval = max
		}
	}
}

// WithMetrics counts retries
func WithMetrics(m *metrics.Metrics) Option {
	return func(tm *TransactionManager) {
		tm.metrics = m
	}
}

// TransactionManager runs functions inside a database transaction stored in the context.
// Repositories pick it up through dbmetrics.GetExecutor.
type TransactionManager struct {
	db              TxBeginner
	metrics         *metrics.Metrics
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewTransactionManager creates a manager over db
func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:              db,
		maxRetries:      defaultMaxRetries,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do runs fn in a READ COMMITTED transaction
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable runs fn in a SERIALIZABLE transaction, retrying on serialization failures
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

// DoReadOnly runs fn in a read-only REPEATABLE READ transaction
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Nested call: join the outer transaction
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	attempt := 0
	operation := func() error {
		attempt++
		if attempt > 1 {
			m.metrics.IncTxRetry()
		}

		err := m.runOnce(ctx, opts, fn)
		if err == nil {
			return nil
		}
		if IsRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = m.initialInterval
	policy.MaxInterval = m.maxInterval
	policy.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, m.maxRetries), ctx))
	if err != nil && IsRetryable(err) {
		return fmt.Errorf("%w: after %d attempts: %w", ErrRetriesExhausted, attempt, err)
	}
	return err
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}

	return nil
}

// IsRetryable reports whether err is a serialization failure or a deadlock
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
}
