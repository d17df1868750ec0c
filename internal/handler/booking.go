package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movietix/theater-booking/internal/model"
	"github.com/movietix/theater-booking/internal/queue"
	"github.com/movietix/theater-booking/internal/service"
)

// BookingService is the surface of the booking coordinator the HTTP
// layer depends on.
type BookingService interface {
	BookSeats(ctx context.Context, userID uint64, count int) ([]model.Seat, error)
	SeatMap(ctx context.Context) ([]model.SeatStatus, error)
	Reset(ctx context.Context) (int64, error)
}

// BookingHandler serves the booking endpoint. Publish, when set, emits
// a broker event after a successful booking; publish failures are
// ignored so the broker can never fail a committed booking.
type BookingHandler struct {
	Svc     BookingService
	Publish func(ctx context.Context, ev queue.SeatsBookedEvent) error
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc BookingService, publish func(ctx context.Context, ev queue.SeatsBookedEvent) error) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Publish: publish}
}

type bookingReq struct {
	Count int `json:"count" validate:"required,min=1,max=7"`
}

type seatRef struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// Book handles POST /v1/booking. The validated count goes through the
// coordinator; insufficient availability is the caller's problem (400),
// everything else unexpected is a 500.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	seats, err := h.Svc.BookSeats(c.Request().Context(), userID, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientSeats):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "not enough seats available"})
		case errors.Is(err, service.ErrInvalidCount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat count"})
		default:
			c.Logger().Errorf("booking failed for user=%d: %v", userID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
		}
	}

	refs := make([]seatRef, 0, len(seats))
	for _, s := range seats {
		refs = append(refs, seatRef{Row: s.RowNumber, Seat: s.SeatNumber})
	}

	if h.Publish != nil {
		ev := queue.SeatsBookedEvent{
			UserID:   userID,
			Count:    len(seats),
			BookedAt: time.Now().UTC().Format(time.RFC3339),
		}
		for _, r := range refs {
			ev.Seats = append(ev.Seats, queue.BookedSeat{Row: r.Row, Seat: r.Seat})
		}
		_ = h.Publish(c.Request().Context(), ev)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "seats booked successfully",
		"seats":   refs,
	})
}
