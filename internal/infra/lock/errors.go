package lock

import "errors"

var (
	// ErrNotAcquired another holder owns the lease
	ErrNotAcquired = errors.New("lock: already held")

	// ErrBackend the lock backend could not be reached
	ErrBackend = errors.New("lock: backend error")
)
