package entity

import "time"

// Event represents a scheduled event with a fixed ticket inventory
type Event struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Venue        string    `db:"venue"`
	EventDate    time.Time `db:"event_date"`
	TotalTickets int       `db:"total_tickets"`
	CreatedAt    time.Time `db:"created_at"`

	// AvailableTickets is derived from the tickets table, never stored
	// on the event row.
	AvailableTickets int `db:"-"`
}
