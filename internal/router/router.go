// Package router wires handlers to routes and attaches the per-group
// middleware chain.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/movietix/theater-booking/internal/config"
	"github.com/movietix/theater-booking/internal/handler"
	"github.com/movietix/theater-booking/internal/middleware"
)

// RegisterRoutes mounts routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts the auth endpoints under /v1/auth plus the
// authenticated identity probe.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler, secret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", h.Logout)

	e.GET("/v1/me", h.Me, middleware.JWTAuth(secret))
}

// RegisterBooking mounts the booking endpoint behind JWT auth and the
// Redis token bucket. With no Redis client the limiter passes through.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, secret string, rdb *redis.Client) {
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	e.POST("/v1/booking", h.Book, middleware.JWTAuth(secret), rl)
}

// RegisterSeats mounts the seat map (cached) and the ADMIN-only reset.
func RegisterSeats(e *echo.Echo, h *handler.SeatsHandler, secret string, rdb *redis.Client) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	g := e.Group("/v1/seats", middleware.JWTAuth(secret))
	g.GET("/map", h.SeatMap, cache)
	g.POST("/reset", h.Reset, middleware.RequireRole("ADMIN"))
}
