package service

import (
	"context"
	"fmt"
	"log"

	"github.com/raflibima25/ticket-reservation-service/internal/utility"
)

// Cache key layout. Read models are JSON-serialised responses; invalidation
// is deletion-based, never in-place updates, so the next reader re-derives
// from the store.
const (
	cacheKeyEventFmt           = "events:%d"
	cacheKeyEventsList         = "events-list"
	cacheKeyEventsPagedFmt     = "events-paged:%d:%d:%s"
	cacheKeyEventsPagedPattern = "events-paged:*"
	cacheKeyAvailableEvents    = "available-events"
	cacheKeyAvailableCountFmt  = "available-tickets-count:%d"
)

func eventCacheKey(eventID int64) string {
	return fmt.Sprintf(cacheKeyEventFmt, eventID)
}

func eventsPagedCacheKey(page, size int, sort string) string {
	return fmt.Sprintf(cacheKeyEventsPagedFmt, page, size, sort)
}

func availableCountCacheKey(eventID int64) string {
	return fmt.Sprintf(cacheKeyAvailableCountFmt, eventID)
}

// InvalidateEventCaches drops every cache entry whose content can change
// when an event's inventory moves: the event read model, the availability
// count, and the three list caches. Failures are logged and swallowed; the
// cache self-heals via TTL.
func InvalidateEventCaches(ctx context.Context, cache *utility.RedisClient, eventIDs ...int64) {
	if cache == nil {
		return
	}

	keys := []string{cacheKeyEventsList, cacheKeyAvailableEvents}
	for _, id := range eventIDs {
		keys = append(keys, eventCacheKey(id), availableCountCacheKey(id))
	}

	if err := cache.Delete(ctx, keys...); err != nil {
		log.Printf("[Cache] Failed to invalidate keys %v: %v", keys, err)
	}

	if err := cache.DeleteByPattern(ctx, cacheKeyEventsPagedPattern); err != nil {
		log.Printf("[Cache] Failed to invalidate paged event caches: %v", err)
	}
}
