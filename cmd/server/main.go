package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/movietix/theater-booking/internal/config"
	"github.com/movietix/theater-booking/internal/database"
	"github.com/movietix/theater-booking/internal/handler"
	"github.com/movietix/theater-booking/internal/model"
	"github.com/movietix/theater-booking/internal/queue"
	"github.com/movietix/theater-booking/internal/repository"
	"github.com/movietix/theater-booking/internal/router"
	"github.com/movietix/theater-booking/internal/service"
	"github.com/movietix/theater-booking/internal/validator"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	seatRepo := repository.NewSeatRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	ctx := context.Background()
	if err := database.InitSchema(ctx, db, seatRepo, model.DefaultLayout()); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}
	go database.Keepalive(ctx, db, 30*time.Second)

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	bookingSvc := service.NewBookingService(seatRepo, bookingRepo, cfg.MaxBookingSeats)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	bookingH := handler.NewBookingHandler(bookingSvc, queue.PublishSeatsBooked)
	seatsH := handler.NewSeatsHandler(bookingSvc)

	go queue.StartSeatsBookedConsumer()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	origin := cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{origin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterBooking(e, bookingH, cfg.JWTSecret, rdb)
	router.RegisterSeats(e, seatsH, cfg.JWTSecret, rdb)

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server stopped: %v", err)
	}
}
