package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinetix/cinetix/internal/booking"
	"github.com/cinetix/cinetix/internal/config"
	"github.com/cinetix/cinetix/internal/database"
	"github.com/cinetix/cinetix/internal/handler"
	"github.com/cinetix/cinetix/internal/middleware"
	"github.com/cinetix/cinetix/internal/promotion"
	"github.com/cinetix/cinetix/internal/queue"
	"github.com/cinetix/cinetix/internal/repository"
	"github.com/cinetix/cinetix/internal/router"
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

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	cinemas := repository.NewCinemaRepo(db)
	rooms := repository.NewRoomRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	tickets := repository.NewTicketRepo(db)
	promotions := repository.NewPromotionRepo(db)
	reviews := repository.NewReviewRepo(db)

	// Core domain services.
	evaluator := promotion.NewEvaluator(promotions)
	coordinator := booking.NewCoordinator(repository.NewBookingStore(db), evaluator)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: without it the limiter and cache become no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.Register(e, router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, tokens),
		Booking:    handler.NewBookingHandler(coordinator, showtimes, movies, rooms, cinemas),
		Tickets:    handler.NewTicketHandler(tickets, coordinator),
		Movies:     handler.NewMovieHandler(movies),
		Cinemas:    handler.NewCinemaHandler(cfg, cinemas, rooms),
		Showtimes:  handler.NewShowtimeHandler(showtimes, movies, rooms),
		Promotions: handler.NewPromotionHandler(promotions, evaluator),
		Reviews:    handler.NewReviewHandler(reviews, movies),
		Users:      handler.NewUserAdminHandler(users),
	}, cfg.JWTSecret, cache)

	// Background consumer for booking confirmations; runs its own
	// reconnect loop.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
