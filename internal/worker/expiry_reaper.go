package worker

import (
	"context"
	"log"
	"time"

	"github.com/raflibima25/ticket-reservation-service/internal/repository"
	"github.com/raflibima25/ticket-reservation-service/internal/service"
	"github.com/raflibima25/ticket-reservation-service/internal/utility"
)

// ExpiryReaper periodically reclaims reservations whose hold has lapsed,
// reopening those seats. It does not take the per-event reservation lock:
// it only moves tickets RESERVED -> AVAILABLE, the direction the lock does
// not guard, and the batch update is idempotent.
type ExpiryReaper struct {
	ticketRepo   repository.TicketRepository
	cache        *utility.RedisClient
	period       time.Duration
	initialDelay time.Duration
	stopChan     chan struct{}
}

// NewExpiryReaper creates new reaper instance
func NewExpiryReaper(
	ticketRepo repository.TicketRepository,
	cache *utility.RedisClient,
	period, initialDelay time.Duration,
) *ExpiryReaper {
	return &ExpiryReaper{
		ticketRepo:   ticketRepo,
		cache:        cache,
		period:       period,
		initialDelay: initialDelay,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the reaper loop: first tick after the initial delay, then
// one tick per period. Blocks until Stop is called or ctx is cancelled.
func (r *ExpiryReaper) Start(ctx context.Context) {
	log.Printf("[Reaper] Expiry reaper started (period: %v, initial delay: %v)", r.period, r.initialDelay)

	select {
	case <-time.After(r.initialDelay):
	case <-r.stopChan:
		log.Println("[Reaper] Expiry reaper stopped")
		return
	case <-ctx.Done():
		log.Println("[Reaper] Expiry reaper stopped due to context cancellation")
		return
	}

	ticker := time.NewTicker(r.period)
	defer ticker.Stop()

	r.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-r.stopChan:
			log.Println("[Reaper] Expiry reaper stopped")
			return
		case <-ctx.Done():
			log.Println("[Reaper] Expiry reaper stopped due to context cancellation")
			return
		}
	}
}

// Stop gracefully stops the reaper
func (r *ExpiryReaper) Stop() {
	close(r.stopChan)
}

// RunOnce executes a single reap tick. Failures are logged, never
// propagated; the next tick retries.
func (r *ExpiryReaper) RunOnce(ctx context.Context) {
	startTime := time.Now()

	reaped, err := r.ticketRepo.ReapExpired(ctx, startTime)
	if err != nil {
		log.Printf("[Reaper] Reap failed: %v (duration: %v)", err, time.Since(startTime))
		return
	}

	if len(reaped) == 0 {
		return
	}

	// Coarse availability invalidation for every affected event
	seen := make(map[int64]struct{}, len(reaped))
	eventIDs := make([]int64, 0, len(reaped))
	for _, t := range reaped {
		if _, ok := seen[t.EventID]; ok {
			continue
		}
		seen[t.EventID] = struct{}{}
		eventIDs = append(eventIDs, t.EventID)
	}

	service.InvalidateEventCaches(ctx, r.cache, eventIDs...)

	log.Printf("[Reaper] Reclaimed %d expired reservations across %d events (duration: %v)",
		len(reaped), len(eventIDs), time.Since(startTime))
}
