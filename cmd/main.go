package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/raflibima25/ticket-reservation-service/config"
	"github.com/raflibima25/ticket-reservation-service/internal/controller"
	"github.com/raflibima25/ticket-reservation-service/internal/lock"
	"github.com/raflibima25/ticket-reservation-service/internal/repository"
	"github.com/raflibima25/ticket-reservation-service/internal/router"
	"github.com/raflibima25/ticket-reservation-service/internal/service"
	"github.com/raflibima25/ticket-reservation-service/internal/utility"
	"github.com/raflibima25/ticket-reservation-service/internal/worker"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	// Load configuration
	cfg := config.Load()

	log.Printf("Starting ticket reservation service on port %s...", cfg.Port)
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Reservation window: %v", cfg.Reservation.Window)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := utility.ConnectDatabase(ctx, utility.DatabaseConfig{
		URL:             cfg.GetDatabaseURL(),
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connected successfully")

	// Run migrations
	if err := utility.ApplyMigrations(ctx, db, "migrations"); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	// Initialize Redis (optional - graceful degradation)
	var cache *utility.RedisClient
	var lockManager lock.Manager

	redisClient, err := utility.NewRedisClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		log.Printf("Warning: failed to connect to Redis: %v", err)
		log.Println("Warning: continuing with in-process locking and no cache")
		log.Println("Warning: do not run multiple replicas in this mode")
		lockManager = lock.NewLocalManager()
	} else {
		log.Println("Redis connected successfully")
		defer redisClient.Close()
		cache = redisClient
		lockManager = lock.NewRedisManager(redisClient.GetClient())
	}

	// Initialize repositories
	eventRepo := repository.NewEventRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// Initialize services
	eventService := service.NewEventService(eventRepo, ticketRepo, cache, cfg.CacheTTL)
	ticketService := service.NewTicketService(eventRepo, ticketRepo)
	reservationService := service.NewReservationService(
		eventRepo,
		ticketRepo,
		lockManager,
		cache,
		cfg.Reservation.Window,
		cfg.Lock.WaitBudget,
		cfg.Lock.LeaseBudget,
	)

	// Initialize controllers
	eventController := controller.NewEventController(eventService)
	ticketController := controller.NewTicketController(reservationService, ticketService)

	// Setup router
	r := router.SetupRouter(eventController, ticketController)

	// Start the expiry reaper
	reaper := worker.NewExpiryReaper(ticketRepo, cache, cfg.Reaper.Period, cfg.Reaper.InitialDelay)

	go reaper.Start(ctx)

	// Start HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("HTTP server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	reaper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	log.Println("Server stopped")
}
