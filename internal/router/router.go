package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/raflibima25/ticket-reservation-service/internal/controller"
)

// SetupRouter configures all routes
func SetupRouter(
	eventController *controller.EventController,
	ticketController *controller.TicketController,
) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "ticket-reservation-service",
		})
	})

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			events.GET("", eventController.ListEvents)              // All events with availability
			events.GET("/paged", eventController.ListEventsPaged)   // Paginated events
			events.GET("/available", eventController.ListAvailableEvents) // Events with open inventory
			events.GET("/:id", eventController.GetEvent)            // One event with availability
			events.POST("", eventController.CreateEvent)            // Create event + seed tickets
		}

		tickets := v1.Group("/tickets")
		{
			tickets.POST("/reserve", ticketController.ReserveTicket)          // Claim one seat
			tickets.GET("/event/:eventId", ticketController.ListAvailableTickets) // Open seats for an event
			tickets.GET("/customer/:email", ticketController.ListByCustomer)  // Customer's tickets
			tickets.GET("/:id", ticketController.GetTicket)                   // One ticket
			tickets.GET("/:id/qr", ticketController.GetTicketQR)              // Ticket QR code (PNG)
		}
	}

	return r
}
