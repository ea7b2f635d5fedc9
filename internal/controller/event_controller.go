package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/raflibima25/ticket-reservation-service/internal/message"
	"github.com/raflibima25/ticket-reservation-service/internal/payload/request"
	"github.com/raflibima25/ticket-reservation-service/internal/service"
)

// EventController handles HTTP requests for events
type EventController struct {
	eventService service.EventService
}

// NewEventController creates new event controller instance
func NewEventController(eventService service.EventService) *EventController {
	return &EventController{
		eventService: eventService,
	}
}

// CreateEvent handles POST /api/v1/events
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, bindingErrorMessage(err))
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEventDateNotFuture) {
			respondError(ctx, http.StatusBadRequest, message.ErrEventDateNotFuture)
			return
		}

		respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// GetEvent handles GET /api/v1/events/:id
func (c *EventController) GetEvent(ctx *gin.Context) {
	id, ok := parsePositiveID(ctx.Param("id"))
	if !ok {
		respondError(ctx, http.StatusBadRequest, message.ErrInvalidEventID)
		return
	}

	event, err := c.eventService.GetEventByID(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			respondError(ctx, http.StatusNotFound, message.ErrEventNotFound)
			return
		}

		respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// ListEvents handles GET /api/v1/events
func (c *EventController) ListEvents(ctx *gin.Context) {
	events, err := c.eventService.ListEvents(ctx.Request.Context())
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// ListEventsPaged handles GET /api/v1/events/paged
func (c *EventController) ListEventsPaged(ctx *gin.Context) {
	var req request.ListEventsPagedRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, bindingErrorMessage(err))
		return
	}

	page, err := c.eventService.ListEventsPaged(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		return
	}

	ctx.JSON(http.StatusOK, page)
}

// ListAvailableEvents handles GET /api/v1/events/available
func (c *EventController) ListAvailableEvents(ctx *gin.Context) {
	events, err := c.eventService.ListAvailableEvents(ctx.Request.Context())
	if err != nil {
		respondError(ctx, http.StatusInternalServerError, message.ErrInternalServer)
		return
	}

	ctx.JSON(http.StatusOK, events)
}
