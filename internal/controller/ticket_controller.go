package controller

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/gin-gonic/gin"
	"github.com/raflibima25/ticket-reservation-service/internal/message"
	"github.com/raflibima25/ticket-reservation-service/internal/payload/request"
	"github.com/raflibima25/ticket-reservation-service/internal/service"
)

// TicketController handles HTTP requests for tickets and reservations
type TicketController struct {
	reservationService service.ReservationService
	ticketService      service.TicketService
}

// NewTicketController creates new ticket controller instance
func NewTicketController(
	reservationService service.ReservationService,
	ticketService service.TicketService,
) *TicketController {
	return &TicketController{
		reservationService: reservationService,
		ticketService:      ticketService,
	}
}

// ReserveTicket handles POST /api/v1/tickets/reserve.
// The event id and customer email are accepted as query parameters or as a
// JSON body; all validation happens before the reservation engine runs.
func (c *TicketController) ReserveTicket(ctx *gin.Context) {
	var req request.ReserveTicketRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, bindingErrorMessage(err))
		return
	}

	ticket, err := c.reservationService.ReserveTicket(ctx.Request.Context(), req.EventID, req.CustomerEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			respondError(ctx, http.StatusNotFound, message.ErrEventNotFound)
		case errors.Is(err, service.ErrNoTicketsAvailable):
			respondError(ctx, http.StatusConflict, message.ErrNoTicketsAvailable)
		case errors.Is(err, service.ErrLockAcquisitionFailed):
			respondError(ctx, http.StatusServiceUnavailable, message.ErrLockAcquisitionFailed)
		default:
			respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		}
		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

// ListAvailableTickets handles GET /api/v1/tickets/event/:eventId
func (c *TicketController) ListAvailableTickets(ctx *gin.Context) {
	eventID, ok := parsePositiveID(ctx.Param("eventId"))
	if !ok {
		respondError(ctx, http.StatusBadRequest, message.ErrInvalidEventID)
		return
	}

	tickets, err := c.ticketService.ListAvailableTickets(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			respondError(ctx, http.StatusNotFound, message.ErrEventNotFound)
			return
		}

		respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// ListByCustomer handles GET /api/v1/tickets/customer/:email
func (c *TicketController) ListByCustomer(ctx *gin.Context) {
	email := ctx.Param("email")
	if _, err := mail.ParseAddress(email); err != nil {
		respondError(ctx, http.StatusBadRequest, message.ErrInvalidEmail)
		return
	}

	tickets, err := c.ticketService.ListByCustomer(ctx.Request.Context(), email)
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// GetTicket handles GET /api/v1/tickets/:id
func (c *TicketController) GetTicket(ctx *gin.Context) {
	id, ok := parsePositiveID(ctx.Param("id"))
	if !ok {
		respondError(ctx, http.StatusBadRequest, message.ErrInvalidTicketID)
		return
	}

	ticket, err := c.ticketService.GetTicket(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			respondError(ctx, http.StatusNotFound, message.ErrTicketNotFound)
			return
		}

		respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// GetTicketQR handles GET /api/v1/tickets/:id/qr
func (c *TicketController) GetTicketQR(ctx *gin.Context) {
	id, ok := parsePositiveID(ctx.Param("id"))
	if !ok {
		respondError(ctx, http.StatusBadRequest, message.ErrInvalidTicketID)
		return
	}

	png, err := c.ticketService.GetTicketQR(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			respondError(ctx, http.StatusNotFound, message.ErrTicketNotFound)
			return
		}

		respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}
