package response

import (
	"time"

	"github.com/raflibima25/ticket-reservation-service/internal/payload/entity"
)

// TicketResponse represents ticket information in responses
type TicketResponse struct {
	ID            int64      `json:"id"`
	EventID       int64      `json:"eventId"`
	Status        string     `json:"status"`
	CustomerEmail *string    `json:"customerEmail,omitempty"`
	ReservedUntil *time.Time `json:"reservedUntil,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ToTicketResponse converts a ticket entity to its response form
func ToTicketResponse(t *entity.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:            t.ID,
		EventID:       t.EventID,
		Status:        t.Status,
		CustomerEmail: t.CustomerEmail,
		ReservedUntil: t.ReservedUntil,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTicketResponses converts a slice of ticket entities
func ToTicketResponses(tickets []entity.Ticket) []TicketResponse {
	out := make([]TicketResponse, len(tickets))
	for i := range tickets {
		out[i] = *ToTicketResponse(&tickets[i])
	}
	return out
}
