package request

// ReserveTicketRequest represents a single-seat reservation request.
// Accepted both as query parameters and as a JSON body.
type ReserveTicketRequest struct {
	EventID       int64  `form:"eventId" json:"eventId" binding:"required,gt=0"`
	CustomerEmail string `form:"customerEmail" json:"customerEmail" binding:"required,email"`
}
