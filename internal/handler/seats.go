package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SeatsHandler serves the read-only seat map and the administrative
// reset.
type SeatsHandler struct {
	Svc BookingService
}

// NewSeatsHandler constructs a SeatsHandler.
func NewSeatsHandler(svc BookingService) *SeatsHandler {
	if svc == nil {
		panic("nil service passed to NewSeatsHandler")
	}
	return &SeatsHandler{Svc: svc}
}

type seatMapEntry struct {
	ID         uint64 `json:"id"`
	SeatNumber uint32 `json:"seatNumber"`
	IsBooked   bool   `json:"isBooked"`
}

// SeatMap handles GET /v1/seats/map: every seat grouped by row with a
// per-seat occupancy flag. No locking; the map is a point-in-time view.
func (h *SeatsHandler) SeatMap(c echo.Context) error {
	statuses, err := h.Svc.SeatMap(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("seat map query failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	byRow := make(map[uint32][]seatMapEntry)
	for _, s := range statuses {
		byRow[s.RowNumber] = append(byRow[s.RowNumber], seatMapEntry{
			ID:         s.ID,
			SeatNumber: s.SeatNumber,
			IsBooked:   s.IsBooked,
		})
	}
	return c.JSON(http.StatusOK, byRow)
}

// Reset handles POST /v1/seats/reset: unconditionally clears the
// booking ledger and reports how many bookings were removed. Gated to
// ADMIN by middleware; calling it twice is harmless (the second call
// reports zero).
func (h *SeatsHandler) Reset(c echo.Context) error {
	deleted, err := h.Svc.Reset(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("reset failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "all seat bookings have been reset",
		"deleted": deleted,
	})
}
