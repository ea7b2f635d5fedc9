package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/raflibima25/ticket-reservation-service/internal/payload/entity"
)

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrNoTicketsAvailable = errors.New("no tickets available")
)

// ReapedTicket identifies a ticket reclaimed by the expiry reaper
type ReapedTicket struct {
	ID      int64 `db:"id"`
	EventID int64 `db:"event_id"`
}

// TicketRepository defines interface for ticket data operations
type TicketRepository interface {
	SeedForEvent(ctx context.Context, tx *sqlx.Tx, eventID int64, count int) error
	SelectAvailableForUpdate(ctx context.Context, tx *sqlx.Tx, eventID int64) (*entity.Ticket, error)
	Reserve(ctx context.Context, tx *sqlx.Tx, ticketID int64, customerEmail string, reservedUntil time.Time) error
	ReapExpired(ctx context.Context, now time.Time) ([]ReapedTicket, error)
	GetByID(ctx context.Context, id int64) (*entity.Ticket, error)
	ListAvailableByEvent(ctx context.Context, eventID int64) ([]entity.Ticket, error)
	ListByCustomer(ctx context.Context, customerEmail string) ([]entity.Ticket, error)
	CountAvailable(ctx context.Context, eventID int64) (int, error)
}

// ticketRepository implements TicketRepository interface
type ticketRepository struct {
	db *sqlx.DB
}

// NewTicketRepository creates new ticket repository instance
func NewTicketRepository(db *sqlx.DB) TicketRepository {
	return &ticketRepository{db: db}
}

// SeedForEvent inserts count AVAILABLE tickets for an event in a single
// statement. MUST be called within the event-creation transaction.
func (r *ticketRepository) SeedForEvent(ctx context.Context, tx *sqlx.Tx, eventID int64, count int) error {
	query := `
		INSERT INTO tickets (event_id, status)
		SELECT $1, 'AVAILABLE' FROM generate_series(1, $2)
	`

	if _, err := tx.ExecContext(ctx, query, eventID, count); err != nil {
		return fmt.Errorf("failed to seed tickets: %w", err)
	}

	return nil
}

// SelectAvailableForUpdate fetches the AVAILABLE ticket with the smallest id
// for the event, holding a row-level lock until the transaction ends.
// The deterministic ORDER BY keeps seat allocation stable across replicas.
func (r *ticketRepository) SelectAvailableForUpdate(ctx context.Context, tx *sqlx.Tx, eventID int64) (*entity.Ticket, error) {
	query := `
		SELECT id, event_id, status, customer_email, reserved_until, created_at
		FROM tickets
		WHERE event_id = $1 AND status = 'AVAILABLE'
		ORDER BY id ASC
		LIMIT 1
		FOR UPDATE
	`

	ticket := &entity.Ticket{}
	err := tx.GetContext(ctx, ticket, query, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoTicketsAvailable
		}
		return nil, fmt.Errorf("failed to select available ticket: %w", err)
	}

	return ticket, nil
}

// Reserve transitions a ticket to RESERVED with the customer's hold.
// MUST be called within the transaction that selected the ticket.
func (r *ticketRepository) Reserve(ctx context.Context, tx *sqlx.Tx, ticketID int64, customerEmail string, reservedUntil time.Time) error {
	query := `
		UPDATE tickets
		SET status = 'RESERVED', customer_email = $1, reserved_until = $2
		WHERE id = $3 AND status = 'AVAILABLE'
	`

	result, err := tx.ExecContext(ctx, query, customerEmail, reservedUntil, ticketID)
	if err != nil {
		return fmt.Errorf("failed to reserve ticket: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNoTicketsAvailable
	}

	return nil
}

// ReapExpired reopens every RESERVED ticket whose hold has lapsed, in one
// batch statement, and reports the affected tickets for cache invalidation.
// The comparison is inclusive so a hold expiring exactly now is reclaimed.
// Idempotent: a second run with no new expiries matches zero rows.
func (r *ticketRepository) ReapExpired(ctx context.Context, now time.Time) ([]ReapedTicket, error) {
	query := `
		UPDATE tickets
		SET status = 'AVAILABLE', customer_email = NULL, reserved_until = NULL
		WHERE status = 'RESERVED' AND reserved_until <= $1
		RETURNING id, event_id
	`

	reaped := []ReapedTicket{}
	if err := r.db.SelectContext(ctx, &reaped, query, now); err != nil {
		return nil, fmt.Errorf("failed to reap expired reservations: %w", err)
	}

	return reaped, nil
}

// GetByID retrieves ticket by ID
func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*entity.Ticket, error) {
	var ticket entity.Ticket
	query := `
		SELECT id, event_id, status, customer_email, reserved_until, created_at
		FROM tickets
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &ticket, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return &ticket, nil
}

// ListAvailableByEvent retrieves all AVAILABLE tickets for an event
func (r *ticketRepository) ListAvailableByEvent(ctx context.Context, eventID int64) ([]entity.Ticket, error) {
	query := `
		SELECT id, event_id, status, customer_email, reserved_until, created_at
		FROM tickets
		WHERE event_id = $1 AND status = 'AVAILABLE'
		ORDER BY id ASC
	`

	tickets := []entity.Ticket{}
	if err := r.db.SelectContext(ctx, &tickets, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to list available tickets: %w", err)
	}

	return tickets, nil
}

// ListByCustomer retrieves all tickets held by a customer, any status
func (r *ticketRepository) ListByCustomer(ctx context.Context, customerEmail string) ([]entity.Ticket, error) {
	query := `
		SELECT id, event_id, status, customer_email, reserved_until, created_at
		FROM tickets
		WHERE customer_email = $1
		ORDER BY id ASC
	`

	tickets := []entity.Ticket{}
	if err := r.db.SelectContext(ctx, &tickets, query, customerEmail); err != nil {
		return nil, fmt.Errorf("failed to list customer tickets: %w", err)
	}

	return tickets, nil
}

// CountAvailable counts AVAILABLE tickets for an event
func (r *ticketRepository) CountAvailable(ctx context.Context, eventID int64) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE event_id = $1 AND status = 'AVAILABLE'
	`

	if err := r.db.GetContext(ctx, &count, query, eventID); err != nil {
		return 0, fmt.Errorf("failed to count available tickets: %w", err)
	}

	return count, nil
}
