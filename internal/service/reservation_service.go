package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/raflibima25/ticket-reservation-service/internal/lock"
	"github.com/raflibima25/ticket-reservation-service/internal/payload/entity"
	"github.com/raflibima25/ticket-reservation-service/internal/payload/response"
	"github.com/raflibima25/ticket-reservation-service/internal/repository"
	"github.com/raflibima25/ticket-reservation-service/internal/utility"
)

var (
	ErrNoTicketsAvailable    = errors.New("no tickets available for this event")
	ErrLockAcquisitionFailed = lock.ErrLockUnavailable
)

// ReservationService handles single-seat claims with distributed locking
type ReservationService interface {
	ReserveTicket(ctx context.Context, eventID int64, customerEmail string) (*response.TicketResponse, error)
}

// reservationService implements ReservationService interface
type reservationService struct {
	eventRepo         repository.EventRepository
	ticketRepo        repository.TicketRepository
	locks             lock.Manager
	cache             *utility.RedisClient
	reservationWindow time.Duration
	lockWaitBudget    time.Duration
	lockLeaseBudget   time.Duration
}

// NewReservationService creates new reservation service instance
func NewReservationService(
	eventRepo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	locks lock.Manager,
	cache *utility.RedisClient,
	reservationWindow, lockWaitBudget, lockLeaseBudget time.Duration,
) ReservationService {
	return &reservationService{
		eventRepo:         eventRepo,
		ticketRepo:        ticketRepo,
		locks:             locks,
		cache:             cache,
		reservationWindow: reservationWindow,
		lockWaitBudget:    lockWaitBudget,
		lockLeaseBudget:   lockLeaseBudget,
	}
}

// ReserveTicket claims the lowest-id AVAILABLE seat for the event and holds
// it for the customer until the reservation window elapses.
//
// The per-event lock serialises claims across all replicas: the seat
// selection read must be atomic with its update against concurrent
// claimants, and the distributed lock gives that guarantee without
// escalating to ordered multi-row database locks.
func (s *reservationService) ReserveTicket(ctx context.Context, eventID int64, customerEmail string) (*response.TicketResponse, error) {
	// Step 1: verify the event exists before taking the lock
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to verify event: %w", err)
	}

	// Step 2: acquire the per-event reservation lock
	key := lock.ReservationKey(eventID)
	token, err := s.locks.Acquire(ctx, key, s.lockWaitBudget, s.lockLeaseBudget)
	if err != nil {
		if errors.Is(err, lock.ErrLockUnavailable) {
			return nil, ErrLockAcquisitionFailed
		}
		return nil, fmt.Errorf("failed to acquire reservation lock: %w", err)
	}

	// Step 5: release is best-effort; the lease self-expires on failure
	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), key, token); err != nil {
			log.Printf("[Reservation] Failed to release lock %s: %v", key, err)
		}
	}()

	// Step 3: select and reserve the seat in one transaction
	ticket, err := s.claimSeat(ctx, eventID, customerEmail)
	if err != nil {
		return nil, err
	}

	// Step 4: invalidate affected caches; failures are swallowed, the
	// cache self-heals via TTL
	InvalidateEventCaches(ctx, s.cache, eventID)

	return response.ToTicketResponse(ticket), nil
}

// claimSeat runs the transactional seat selection: lowest AVAILABLE id,
// flipped to RESERVED with the customer's hold.
func (s *reservationService) claimSeat(ctx context.Context, eventID int64, customerEmail string) (ticket *entity.Ticket, err error) {
	tx, err := s.eventRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	selected, err := s.ticketRepo.SelectAvailableForUpdate(ctx, tx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNoTicketsAvailable) {
			return nil, ErrNoTicketsAvailable
		}
		return nil, err
	}

	reservedUntil := time.Now().Add(s.reservationWindow)
	if err = s.ticketRepo.Reserve(ctx, tx, selected.ID, customerEmail, reservedUntil); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reservation: %w", err)
	}

	selected.Status = entity.TicketStatusReserved
	selected.CustomerEmail = &customerEmail
	selected.ReservedUntil = &reservedUntil
	return selected, nil
}
