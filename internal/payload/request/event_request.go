package request

import "time"

// CreateEventRequest represents create event request
type CreateEventRequest struct {
	Name         string    `json:"name" binding:"required,min=3,max=100"`
	Venue        string    `json:"venue" binding:"required,min=3,max=255"`
	EventDate    time.Time `json:"eventDate" binding:"required"`
	TotalTickets int       `json:"totalTickets" binding:"required,min=1"`
}

// ListEventsPagedRequest represents paged event listing query parameters
type ListEventsPagedRequest struct {
	Page int    `form:"page,default=0" binding:"min=0"`
	Size int    `form:"size,default=20" binding:"min=1,max=100"`
	Sort string `form:"sort,default=id" binding:"omitempty,oneof=id name event_date total_tickets"`
}
