package service

import (
	"context"
	"errors"

	"github.com/raflibima25/ticket-reservation-service/internal/payload/response"
	"github.com/raflibima25/ticket-reservation-service/internal/repository"
	"github.com/raflibima25/ticket-reservation-service/internal/utility"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
)

// TicketService defines interface for ticket read operations
type TicketService interface {
	GetTicket(ctx context.Context, id int64) (*response.TicketResponse, error)
	GetTicketQR(ctx context.Context, id int64) ([]byte, error)
	ListAvailableTickets(ctx context.Context, eventID int64) ([]response.TicketResponse, error)
	ListByCustomer(ctx context.Context, customerEmail string) ([]response.TicketResponse, error)
}

// ticketService implements TicketService interface
type ticketService struct {
	eventRepo  repository.EventRepository
	ticketRepo repository.TicketRepository
}

// NewTicketService creates new ticket service instance
func NewTicketService(eventRepo repository.EventRepository, ticketRepo repository.TicketRepository) TicketService {
	return &ticketService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
	}
}

// GetTicket retrieves one ticket by id
func (s *ticketService) GetTicket(ctx context.Context, id int64) (*response.TicketResponse, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	return response.ToTicketResponse(ticket), nil
}

// GetTicketQR renders the ticket's reservation reference as a PNG QR code
// for scanning at the venue entrance.
func (s *ticketService) GetTicketQR(ctx context.Context, id int64) ([]byte, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	data := utility.GenerateTicketQRData(ticket.ID, ticket.EventID)
	return utility.GenerateQRCodePNG(data)
}

// ListAvailableTickets retrieves all currently-available tickets for an event
func (s *ticketService) ListAvailableTickets(ctx context.Context, eventID int64) ([]response.TicketResponse, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	tickets, err := s.ticketRepo.ListAvailableByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return response.ToTicketResponses(tickets), nil
}

// ListByCustomer retrieves every ticket held by a customer, any status
func (s *ticketService) ListByCustomer(ctx context.Context, customerEmail string) ([]response.TicketResponse, error) {
	tickets, err := s.ticketRepo.ListByCustomer(ctx, customerEmail)
	if err != nil {
		return nil, err
	}

	return response.ToTicketResponses(tickets), nil
}
