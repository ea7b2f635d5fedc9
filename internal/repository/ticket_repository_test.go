package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/raflibima25/ticket-reservation-service/internal/payload/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_SeedForEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	var eventID int64
	err := db.QueryRow(`
		INSERT INTO events (name, venue, event_date, total_tickets)
		VALUES ('Seeding', 'Hall', NOW() + INTERVAL '30 days', 25)
		RETURNING id
	`).Scan(&eventID)
	require.NoError(t, err)

	repo := NewTicketRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.SeedForEvent(ctx, tx, eventID, 25))
	require.NoError(t, tx.Commit())

	count, err := repo.CountAvailable(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 25, count, "inventory must equal total_tickets after seeding")
}

func TestTicketRepository_SelectAvailableForUpdate_SmallestID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	eventID := CreateTestEvent(t, db, 3)

	repo := NewTicketRepository(db)
	ctx := context.Background()

	// Reserve the first seat so the next claim must take the second
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	first, err := repo.SelectAvailableForUpdate(ctx, tx, eventID)
	require.NoError(t, err)
	require.NoError(t, repo.Reserve(ctx, tx, first.ID, "a@x.com", time.Now().Add(10*time.Minute)))
	require.NoError(t, tx.Commit())

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	second, err := repo.SelectAvailableForUpdate(ctx, tx, eventID)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	assert.Equal(t, first.ID+1, second.ID, "selection must take the smallest available id")
}

func TestTicketRepository_SelectAvailableForUpdate_Exhausted(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	eventID := CreateTestEvent(t, db, 1)

	repo := NewTicketRepository(db)
	ctx := context.Background()

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	ticket, err := repo.SelectAvailableForUpdate(ctx, tx, eventID)
	require.NoError(t, err)
	require.NoError(t, repo.Reserve(ctx, tx, ticket.ID, "a@x.com", time.Now().Add(10*time.Minute)))
	require.NoError(t, tx.Commit())

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = repo.SelectAvailableForUpdate(ctx, tx, eventID)
	assert.ErrorIs(t, err, ErrNoTicketsAvailable)
}

func TestTicketRepository_Reserve_SetsHold(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	eventID := CreateTestEvent(t, db, 1)

	repo := NewTicketRepository(db)
	ctx := context.Background()
	until := time.Now().Add(10 * time.Minute).UTC().Truncate(time.Millisecond)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	ticket, err := repo.SelectAvailableForUpdate(ctx, tx, eventID)
	require.NoError(t, err)
	require.NoError(t, repo.Reserve(ctx, tx, ticket.ID, "a@x.com", until))
	require.NoError(t, tx.Commit())

	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketStatusReserved, got.Status)
	require.NotNil(t, got.CustomerEmail)
	assert.Equal(t, "a@x.com", *got.CustomerEmail)
	require.NotNil(t, got.ReservedUntil)
	assert.WithinDuration(t, until, *got.ReservedUntil, time.Second)
}

func TestTicketRepository_ReapExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	eventID := CreateTestEvent(t, db, 3)

	// One lapsed hold and one still-live hold; the middle seat stays AVAILABLE
	_, err := db.Exec(`
		UPDATE tickets SET status = 'RESERVED', customer_email = 'late@x.com',
			reserved_until = NOW() - INTERVAL '1 minute'
		WHERE id = (SELECT MIN(id) FROM tickets WHERE event_id = $1)
	`, eventID)
	require.NoError(t, err)

	_, err = db.Exec(`
		UPDATE tickets SET status = 'RESERVED', customer_email = 'live@x.com',
			reserved_until = NOW() + INTERVAL '10 minutes'
		WHERE id = (SELECT MAX(id) FROM tickets WHERE event_id = $1)
	`, eventID)
	require.NoError(t, err)

	repo := NewTicketRepository(db)
	ctx := context.Background()

	reaped, err := repo.ReapExpired(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, reaped, 1)
	assert.Equal(t, eventID, reaped[0].EventID)

	// The reaped seat is AVAILABLE again with the hold fields cleared
	got, err := repo.GetByID(ctx, reaped[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketStatusAvailable, got.Status)
	assert.Nil(t, got.CustomerEmail)
	assert.Nil(t, got.ReservedUntil)

	// Live hold untouched
	count, err := repo.CountAvailable(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Second application with no new expiries is a no-op
	reaped, err = repo.ReapExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, reaped)
}

func TestTicketRepository_ReapExpired_InclusiveBoundary(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	eventID := CreateTestEvent(t, db, 1)

	boundary := time.Now().UTC().Truncate(time.Microsecond)
	_, err := db.Exec(`
		UPDATE tickets SET status = 'RESERVED', customer_email = 'edge@x.com', reserved_until = $1
		WHERE event_id = $2
	`, boundary, eventID)
	require.NoError(t, err)

	repo := NewTicketRepository(db)

	// A hold expiring exactly at the reap instant is reclaimed
	reaped, err := repo.ReapExpired(context.Background(), boundary)
	require.NoError(t, err)
	assert.Len(t, reaped, 1)
}

func TestTicketRepository_ListByCustomer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	eventID := CreateTestEvent(t, db, 2)

	_, err := db.Exec(`
		UPDATE tickets SET status = 'RESERVED', customer_email = 'mine@x.com',
			reserved_until = NOW() + INTERVAL '10 minutes'
		WHERE id = (SELECT MIN(id) FROM tickets WHERE event_id = $1)
	`, eventID)
	require.NoError(t, err)

	repo := NewTicketRepository(db)
	ctx := context.Background()

	tickets, err := repo.ListByCustomer(ctx, "mine@x.com")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, entity.TicketStatusReserved, tickets[0].Status)

	tickets, err = repo.ListByCustomer(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

// TestTicketRepository_ConcurrentClaims_RowLockPreventsDoubleWin exercises
// the transactional seat selection directly: even without the per-event
// reservation lock, FOR UPDATE must never hand the same seat to two
// committed transactions.
func TestTicketRepository_ConcurrentClaims_RowLockPreventsDoubleWin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	quota := 5
	eventID := CreateTestEvent(t, db, quota)

	repo := NewTicketRepository(db)

	claimants := 10
	won := make(map[int64]int)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx := context.Background()
			tx, err := db.BeginTxx(ctx, nil)
			if err != nil {
				t.Errorf("begin failed: %v", err)
				return
			}
			defer tx.Rollback()

			ticket, err := repo.SelectAvailableForUpdate(ctx, tx, eventID)
			if err != nil {
				return
			}

			if err := repo.Reserve(ctx, tx, ticket.ID, RandomEmail(t), time.Now().Add(10*time.Minute)); err != nil {
				return
			}

			if err := tx.Commit(); err != nil {
				return
			}

			mu.Lock()
			won[ticket.ID]++
			mu.Unlock()
		}()
	}

	wg.Wait()

	for id, winners := range won {
		assert.Equal(t, 1, winners, "ticket %d reserved by more than one claimant", id)
	}

	var reserved int
	require.NoError(t, db.Get(&reserved, `SELECT COUNT(*) FROM tickets WHERE event_id = $1 AND status = 'RESERVED'`, eventID))
	assert.Equal(t, len(won), reserved)
	assert.LessOrEqual(t, reserved, quota)
}
