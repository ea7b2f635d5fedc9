package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/raflibima25/ticket-reservation-service/internal/payload/entity"
)

var (
	ErrEventNotFound = errors.New("event not found")
)

// sortColumns whitelists the sort keys accepted by ListPaged
var sortColumns = map[string]string{
	"id":            "id",
	"name":          "name",
	"event_date":    "event_date",
	"total_tickets": "total_tickets",
}

// EventRepository defines interface for event data operations
type EventRepository interface {
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	Create(ctx context.Context, tx *sqlx.Tx, event *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	List(ctx context.Context) ([]entity.Event, error)
	ListPaged(ctx context.Context, page, size int, sort string) ([]entity.Event, int64, error)
	ListAvailable(ctx context.Context) ([]entity.Event, error)
}

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates new event repository instance
func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

// BeginTx starts a database transaction
func (r *eventRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// Create inserts a new event (must be called within a transaction so
// ticket seeding commits atomically with the event row)
func (r *eventRepository) Create(ctx context.Context, tx *sqlx.Tx, event *entity.Event) error {
	query := `
		INSERT INTO events (name, venue, event_date, total_tickets)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := tx.QueryRowContext(ctx, query,
		event.Name,
		event.Venue,
		event.EventDate,
		event.TotalTickets,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetByID retrieves event by ID
func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	var event entity.Event
	query := `
		SELECT id, name, venue, event_date, total_tickets, created_at
		FROM events
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

// List retrieves all events ordered by id
func (r *eventRepository) List(ctx context.Context) ([]entity.Event, error) {
	query := `
		SELECT id, name, venue, event_date, total_tickets, created_at
		FROM events
		ORDER BY id ASC
	`

	events := []entity.Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}

// ListPaged retrieves one page of events plus the total row count.
// The sort key is resolved against a whitelist; unknown keys fall back to id.
func (r *eventRepository) ListPaged(ctx context.Context, page, size int, sort string) ([]entity.Event, int64, error) {
	column, ok := sortColumns[sort]
	if !ok {
		column = "id"
	}

	query := fmt.Sprintf(`
		SELECT id, name, venue, event_date, total_tickets, created_at
		FROM events
		ORDER BY %s ASC, id ASC
		LIMIT $1 OFFSET $2
	`, column)

	events := []entity.Event{}
	if err := r.db.SelectContext(ctx, &events, query, size, page*size); err != nil {
		return nil, 0, fmt.Errorf("failed to list events page: %w", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM events`); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	return events, total, nil
}

// ListAvailable retrieves events that still have at least one AVAILABLE ticket
func (r *eventRepository) ListAvailable(ctx context.Context) ([]entity.Event, error) {
	query := `
		SELECT DISTINCT e.id, e.name, e.venue, e.event_date, e.total_tickets, e.created_at
		FROM events e
		INNER JOIN tickets t ON t.event_id = e.id AND t.status = 'AVAILABLE'
		ORDER BY e.id ASC
	`

	events := []entity.Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("failed to list available events: %w", err)
	}

	return events, nil
}
