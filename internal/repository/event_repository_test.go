package repository

import (
	"context"
	"testing"
	"time"

	"github.com/raflibima25/ticket-reservation-service/internal/payload/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	repo := NewEventRepository(db)
	ctx := context.Background()

	event := &entity.Event{
		Name:         "Spring Concert",
		Venue:        "MSG",
		EventDate:    time.Date(2099, 12, 15, 19, 0, 0, 0, time.UTC),
		TotalTickets: 3,
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tx, event))
	require.NoError(t, tx.Commit())

	require.NotZero(t, event.ID)
	require.False(t, event.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.Name, got.Name)
	assert.Equal(t, event.Venue, got.Venue)
	assert.Equal(t, event.TotalTickets, got.TotalTickets)
	assert.True(t, got.EventDate.Equal(event.EventDate))
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	repo := NewEventRepository(db)

	_, err := repo.GetByID(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventRepository_ListPaged(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	for i := 0; i < 5; i++ {
		CreateTestEvent(t, db, 2)
	}

	repo := NewEventRepository(db)
	ctx := context.Background()

	events, total, err := repo.ListPaged(ctx, 0, 2, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, int64(2), events[1].ID)

	events, _, err = repo.ListPaged(ctx, 2, 2, "id")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(5), events[0].ID)

	// Unknown sort keys fall back to id instead of interpolating input
	events, _, err = repo.ListPaged(ctx, 0, 2, "evil; DROP TABLE events")
	require.NoError(t, err)
	assert.Equal(t, int64(1), events[0].ID)
}

func TestEventRepository_ListAvailable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)
	TruncateTables(t, db, "tickets", "events")

	withStock := CreateTestEvent(t, db, 1)
	soldOut := CreateTestEvent(t, db, 1)

	_, err := db.Exec(`
		UPDATE tickets
		SET status = 'RESERVED', customer_email = 'a@x.com', reserved_until = NOW() + INTERVAL '10 minutes'
		WHERE event_id = $1
	`, soldOut)
	require.NoError(t, err)

	repo := NewEventRepository(db)

	events, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, withStock, events[0].ID)
}
