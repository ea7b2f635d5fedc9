package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/raflibima25/ticket-reservation-service/internal/payload/entity"
	"github.com/raflibima25/ticket-reservation-service/internal/payload/request"
	"github.com/raflibima25/ticket-reservation-service/internal/payload/response"
	"github.com/raflibima25/ticket-reservation-service/internal/repository"
	"github.com/raflibima25/ticket-reservation-service/internal/utility"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventDateNotFuture = errors.New("event date must be in the future")
)

// EventService defines interface for event read-path and admin operations
type EventService interface {
	CreateEvent(ctx context.Context, req *request.CreateEventRequest) (*response.EventResponse, error)
	GetEventByID(ctx context.Context, id int64) (*response.EventResponse, error)
	ListEvents(ctx context.Context) ([]response.EventResponse, error)
	ListEventsPaged(ctx context.Context, req request.ListEventsPagedRequest) (*response.PageResponse, error)
	ListAvailableEvents(ctx context.Context) ([]response.EventResponse, error)
	GetAvailableCount(ctx context.Context, eventID int64) (int, error)
}

// eventService implements EventService interface
type eventService struct {
	eventRepo  repository.EventRepository
	ticketRepo repository.TicketRepository
	cache      *utility.RedisClient
	cacheTTL   time.Duration
}

// NewEventService creates new event service instance
func NewEventService(
	eventRepo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	cache *utility.RedisClient,
	cacheTTL time.Duration,
) EventService {
	return &eventService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

// CreateEvent validates, persists the event and seeds its full ticket
// inventory in one transaction, then invalidates the list caches.
func (s *eventService) CreateEvent(ctx context.Context, req *request.CreateEventRequest) (*response.EventResponse, error) {
	if !req.EventDate.After(time.Now()) {
		return nil, ErrEventDateNotFuture
	}

	event := &entity.Event{
		Name:         req.Name,
		Venue:        req.Venue,
		EventDate:    req.EventDate,
		TotalTickets: req.TotalTickets,
	}

	tx, err := s.eventRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.eventRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err = s.ticketRepo.SeedForEvent(ctx, tx, event.ID, event.TotalTickets); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	InvalidateEventCaches(ctx, s.cache, event.ID)

	event.AvailableTickets = event.TotalTickets
	return response.ToEventResponse(event), nil
}

// GetEventByID retrieves one event with its availability count, read-through cached
func (s *eventService) GetEventByID(ctx context.Context, id int64) (*response.EventResponse, error) {
	cacheKey := eventCacheKey(id)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var resp response.EventResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	event.AvailableTickets, err = s.GetAvailableCount(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	resp := response.ToEventResponse(event)
	s.cacheJSON(ctx, cacheKey, resp)

	return resp, nil
}

// ListEvents retrieves all events with availability counts, read-through cached
func (s *eventService) ListEvents(ctx context.Context) ([]response.EventResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKeyEventsList); err == nil {
			var resp []response.EventResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.populateAvailability(ctx, events); err != nil {
		return nil, err
	}

	resp := response.ToEventResponses(events)

	// Empty results are not cached so a freshly-seeded deployment is
	// not masked by a stale negative entry.
	if len(resp) > 0 {
		s.cacheJSON(ctx, cacheKeyEventsList, resp)
	}

	return resp, nil
}

// ListEventsPaged retrieves one page of events, read-through cached per page+size+sort
func (s *eventService) ListEventsPaged(ctx context.Context, req request.ListEventsPagedRequest) (*response.PageResponse, error) {
	cacheKey := eventsPagedCacheKey(req.Page, req.Size, req.Sort)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var resp response.PageResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	events, total, err := s.eventRepo.ListPaged(ctx, req.Page, req.Size, req.Sort)
	if err != nil {
		return nil, err
	}

	if err := s.populateAvailability(ctx, events); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(req.Size) - 1) / int64(req.Size))
	resp := &response.PageResponse{
		Content:       response.ToEventResponses(events),
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}

	if len(resp.Content) > 0 {
		s.cacheJSON(ctx, cacheKey, resp)
	}

	return resp, nil
}

// ListAvailableEvents retrieves events that still have open inventory
func (s *eventService) ListAvailableEvents(ctx context.Context) ([]response.EventResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKeyAvailableEvents); err == nil {
			var resp []response.EventResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	events, err := s.eventRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.populateAvailability(ctx, events); err != nil {
		return nil, err
	}

	resp := response.ToEventResponses(events)

	if len(resp) > 0 {
		s.cacheJSON(ctx, cacheKeyAvailableEvents, resp)
	}

	return resp, nil
}

// GetAvailableCount counts AVAILABLE tickets for an event, read-through cached.
// The count is always derived from ticket rows, never maintained as a column.
func (s *eventService) GetAvailableCount(ctx context.Context, eventID int64) (int, error) {
	cacheKey := availableCountCacheKey(eventID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var count int
			if err := json.Unmarshal([]byte(cached), &count); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.ticketRepo.CountAvailable(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.cacheJSON(ctx, cacheKey, count)
	}

	return count, nil
}

// populateAvailability fills AvailableTickets on each event through the
// per-event cached count.
func (s *eventService) populateAvailability(ctx context.Context, events []entity.Event) error {
	for i := range events {
		count, err := s.GetAvailableCount(ctx, events[i].ID)
		if err != nil {
			return err
		}
		events[i].AvailableTickets = count
	}
	return nil
}

// cacheJSON stores a read model best-effort; cache failures never fail reads
func (s *eventService) cacheJSON(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		log.Printf("[Cache] Failed to store %s: %v", key, err)
	}
}
