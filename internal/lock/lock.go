package lock

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrLockUnavailable is returned when a lock cannot be acquired
	// within the caller's wait budget.
	ErrLockUnavailable = errors.New("failed to acquire lock, please try again")
)

// Manager grants mutually-exclusive, self-expiring leases on named keys.
//
// Acquire blocks up to waitBudget for the key to become free. On success it
// returns a fencing token identifying this ownership; the lease ends when
// Release is called with the matching token or when leaseBudget elapses,
// whichever comes first. Release is idempotent and a no-op once the lease
// has expired or been taken over.
type Manager interface {
	Acquire(ctx context.Context, key string, waitBudget, leaseBudget time.Duration) (string, error)
	Release(ctx context.Context, key, token string) error
}

// ReservationKey names the per-event critical section used by the
// reservation engine. One independent lock per event.
func ReservationKey(eventID int64) string {
	return fmt.Sprintf("ticket:reserve:event:%d", eventID)
}
