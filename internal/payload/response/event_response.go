package response

import (
	"time"

	"github.com/raflibima25/ticket-reservation-service/internal/payload/entity"
)

// EventResponse represents event information in responses
type EventResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Venue            string    `json:"venue"`
	EventDate        time.Time `json:"eventDate"`
	TotalTickets     int       `json:"totalTickets"`
	AvailableTickets int       `json:"availableTickets"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ToEventResponse converts an event entity to its response form
func ToEventResponse(e *entity.Event) *EventResponse {
	return &EventResponse{
		ID:               e.ID,
		Name:             e.Name,
		Venue:            e.Venue,
		EventDate:        e.EventDate,
		TotalTickets:     e.TotalTickets,
		AvailableTickets: e.AvailableTickets,
		CreatedAt:        e.CreatedAt,
	}
}

// ToEventResponses converts a slice of event entities
func ToEventResponses(events []entity.Event) []EventResponse {
	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = *ToEventResponse(&events[i])
	}
	return out
}

// PageResponse represents one page of results
type PageResponse struct {
	Content       []EventResponse `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
}
