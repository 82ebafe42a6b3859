package main // Entry point package

import (
	"log"  // Logging library
	"time" // Durations for the hold TTL

	"github.com/iliyamo/event-seat-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/event-seat-reservation/internal/database"   // MySQL connection helper
	"github.com/iliyamo/event-seat-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/event-seat-reservation/internal/middleware" // Rate limiting middleware
	"github.com/iliyamo/event-seat-reservation/internal/queue"      // Confirmation event consumer
	"github.com/iliyamo/event-seat-reservation/internal/repository" // Storage adapters
	"github.com/iliyamo/event-seat-reservation/internal/router"     // Route registration
	"github.com/iliyamo/event-seat-reservation/internal/service"    // Booking core
	"github.com/labstack/echo/v4"                                   // Echo web framework
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis is mandatory: it backs the hold store, the one source of
	// mutual exclusion for seat claims.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis is required for seat holds and is not reachable")
	}

	seatRepo := repository.NewSeatRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	txStore := repository.NewTxStore(db)
	holdStore := repository.NewHoldStore(rdb)

	holds := service.NewHoldManager(seatRepo, holdStore, time.Duration(cfg.HoldTTLSeconds)*time.Second)
	committer := service.NewReservationCommitter(txStore, holds)

	booking := handler.NewBookingHandler(holds, committer, seatRepo, reservationRepo)

	e := echo.New()
	router.RegisterRoutes(e)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterBooking(e, booking, cfg.JWTSecret, limiter)

	// Consume confirmation events in the background; the loop reconnects
	// on broker failures and never takes the API down.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
