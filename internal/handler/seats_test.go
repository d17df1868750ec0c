package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/movietix/theater-booking/internal/model"
)

func TestSeatMapGroupsByRow(t *testing.T) {
	t.Parallel()

	svc := &fakeBookingService{mapStatuses: []model.SeatStatus{
		{Seat: model.Seat{ID: 1, RowNumber: 1, SeatNumber: 1}, IsBooked: true},
		{Seat: model.Seat{ID: 2, RowNumber: 1, SeatNumber: 2}, IsBooked: false},
		{Seat: model.Seat{ID: 3, RowNumber: 2, SeatNumber: 1}, IsBooked: false},
	}}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/seats/map", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewSeatsHandler(svc)
	if err := h.SeatMap(c); err != nil {
		t.Fatalf("SeatMap: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var byRow map[string][]struct {
		ID         uint64 `json:"id"`
		SeatNumber uint32 `json:"seatNumber"`
		IsBooked   bool   `json:"isBooked"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &byRow); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(byRow) != 2 {
		t.Fatalf("rows = %d, want 2", len(byRow))
	}
	row1 := byRow["1"]
	if len(row1) != 2 || !row1[0].IsBooked || row1[1].IsBooked {
		t.Errorf("row 1 = %+v", row1)
	}
	if len(byRow["2"]) != 1 || byRow["2"][0].SeatNumber != 1 {
		t.Errorf("row 2 = %+v", byRow["2"])
	}
}

func TestSeatMapErrorIs500(t *testing.T) {
	t.Parallel()

	svc := &fakeBookingService{mapErr: errors.New("db gone")}
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/seats/map", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewSeatsHandler(svc).SeatMap(c); err != nil {
		t.Fatalf("SeatMap: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestResetReportsDeletedCount(t *testing.T) {
	t.Parallel()

	svc := &fakeBookingService{resetDeleted: 12}
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/seats/reset", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewSeatsHandler(svc).Reset(c); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Message string `json:"message"`
		Deleted int64  `json:"deleted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Deleted != 12 {
		t.Errorf("deleted = %d, want 12", resp.Deleted)
	}
	if resp.Message != "all seat bookings have been reset" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Health(c); err != nil {
		t.Fatalf("Health: %v", err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}
