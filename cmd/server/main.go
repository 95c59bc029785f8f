package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-room-reservation/internal/booking"
	"github.com/iliyamo/cinema-room-reservation/internal/config"
	"github.com/iliyamo/cinema-room-reservation/internal/database"
	"github.com/iliyamo/cinema-room-reservation/internal/handler"
	"github.com/iliyamo/cinema-room-reservation/internal/middleware"
	"github.com/iliyamo/cinema-room-reservation/internal/payment"
	"github.com/iliyamo/cinema-room-reservation/internal/queue"
	"github.com/iliyamo/cinema-room-reservation/internal/repository"
	"github.com/iliyamo/cinema-room-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache and the rate limiter; both degrade
	// to no-ops when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	gateway := payment.NewStub(cfg.PaymentLatency)
	core := booking.NewService(rooms, reservations, gateway)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	roomH := handler.NewRoomHandler(rooms)
	resH := handler.NewReservationHandler(core, rooms, reservations)
	userH := handler.NewUserAdminHandler(users)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, roomH, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterCustomer(e, resH, cfg.JWTSecret)
	router.RegisterAdmin(e, roomH, resH, userH, cfg.JWTSecret)

	// Background consumer for reservation.confirmed events.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
