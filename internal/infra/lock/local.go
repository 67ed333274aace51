package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker in-process leases, for a single replica or when Redis is not configured
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time // key -> expiry
	now  func() time.Time
}

// NewLocalLocker creates an in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		held: make(map[string]time.Time),
		now:  time.Now,
	}
}

// TryLock takes the lease for ttl or returns ErrNotAcquired
func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (Unlock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return nil, ErrNotAcquired
	}

	expiry := now.Add(ttl)
	l.held[key] = expiry

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// a newer holder took over after expiry; leave it alone
		if current, ok := l.held[key]; ok && current.Equal(expiry) {
			delete(l.held, key)
		}
		return nil
	}, nil
}
