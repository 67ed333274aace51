// Package memstore keeps bookings and blocked times in process memory.
//
// Transactions are emulated with a single writer lock and a snapshot that is restored on
// rollback, which makes every transaction serializable. Used for local runs
// (database.in_memory = true) and as the store behind the service tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
)

type txKey struct{}

// Store in-memory backing for both repositories
type Store struct {
	txMu   sync.Mutex   // held for the whole of a write transaction
	dataMu sync.RWMutex // guards the maps

	bookings map[uuid.UUID]*domain.Booking
	blocked  map[uuid.UUID]*domain.BlockedTime

	now func() time.Time
}

// Option configures the store
type Option func(*Store)

// WithClock sets the source of created_at / updated_at
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		bookings: make(map[uuid.UUID]*domain.Booking),
		blocked:  make(map[uuid.UUID]*domain.BlockedTime),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bookings booking repository view
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// BlockedTimes blocked time repository view
func (s *Store) BlockedTimes() *BlockedTimeRepository {
	return &BlockedTimeRepository{store: s}
}

// TxManager transaction manager over the store
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// Seed stores b as is, bypassing every check; missing id and timestamps are filled in.
// Tests use it to set up history such as old created_at values.
func (s *Store) Seed(b *domain.Booking) *domain.Booking {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	s.bookings[b.ID] = cloneBooking(b)
	return cloneBooking(b)
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// write runs fn under the data lock. Outside a transaction it also takes the writer lock
// so autocommit writes never interleave with an open transaction.
func (s *Store) write(ctx context.Context, fn func()) {
	if !s.inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	fn()
}

func (s *Store) read(fn func()) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	fn()
}

type snapshot struct {
	bookings map[uuid.UUID]*domain.Booking
	blocked  map[uuid.UUID]*domain.BlockedTime
}

func (s *Store) snapshot() snapshot {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()

	snap := snapshot{
		bookings: make(map[uuid.UUID]*domain.Booking, len(s.bookings)),
		blocked:  make(map[uuid.UUID]*domain.BlockedTime, len(s.blocked)),
	}
	for id, b := range s.bookings {
		snap.bookings[id] = cloneBooking(b)
	}
	for id, bt := range s.blocked {
		snap.blocked[id] = cloneBlockedTime(bt)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.bookings = snap.bookings
	s.blocked = snap.blocked
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.Office = clonePtr(b.Office)
	c.Email = clonePtr(b.Email)
	c.Category = clonePtr(b.Category)
	c.Message = clonePtr(b.Message)
	c.PreferredLawyer = clonePtr(b.PreferredLawyer)
	c.AssignedLawyer = clonePtr(b.AssignedLawyer)
	c.VideoLink = clonePtr(b.VideoLink)
	c.AdminNotes = clonePtr(b.AdminNotes)
	c.ConfirmedAt = clonePtr(b.ConfirmedAt)
	c.CancelledAt = clonePtr(b.CancelledAt)
	return &c
}

func cloneBlockedTime(bt *domain.BlockedTime) *domain.BlockedTime {
	c := *bt
	c.StartTime = clonePtr(bt.StartTime)
	c.EndTime = clonePtr(bt.EndTime)
	c.Office = clonePtr(bt.Office)
	c.Reason = clonePtr(bt.Reason)
	c.CreatedBy = clonePtr(bt.CreatedBy)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
