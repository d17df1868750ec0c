package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/movietix/theater-booking/internal/model"
	"github.com/movietix/theater-booking/internal/queue"
	"github.com/movietix/theater-booking/internal/service"
	"github.com/movietix/theater-booking/internal/validator"
)

// fakeBookingService scripts the service layer so handler tests never
// need a database.
type fakeBookingService struct {
	bookSeats []model.Seat
	bookErr   error
	gotUser   uint64
	gotCount  int

	mapStatuses []model.SeatStatus
	mapErr      error

	resetDeleted int64
	resetErr     error
}

func (f *fakeBookingService) BookSeats(_ context.Context, userID uint64, count int) ([]model.Seat, error) {
	f.gotUser = userID
	f.gotCount = count
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return f.bookSeats, nil
}

func (f *fakeBookingService) SeatMap(context.Context) ([]model.SeatStatus, error) {
	return f.mapStatuses, f.mapErr
}

func (f *fakeBookingService) Reset(context.Context) (int64, error) {
	return f.resetDeleted, f.resetErr
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	return e
}

func doBook(t *testing.T, svc *fakeBookingService, body string, userID any) *httptest.ResponseRecorder {
	t.Helper()
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/booking", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}

	h := NewBookingHandler(svc, nil)
	if err := h.Book(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestBookReturnsAllocatedSeats(t *testing.T) {
	t.Parallel()

	svc := &fakeBookingService{bookSeats: []model.Seat{
		{ID: 15, RowNumber: 3, SeatNumber: 1},
		{ID: 16, RowNumber: 3, SeatNumber: 2},
		{ID: 17, RowNumber: 3, SeatNumber: 3},
	}}
	rec := doBook(t, svc, `{"count":3}`, uint64(42))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if svc.gotUser != 42 || svc.gotCount != 3 {
		t.Fatalf("service called with user=%d count=%d", svc.gotUser, svc.gotCount)
	}

	var resp struct {
		Message string `json:"message"`
		Seats   []struct {
			Row  uint32 `json:"row"`
			Seat uint32 `json:"seat"`
		} `json:"seats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "seats booked successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Seats) != 3 {
		t.Fatalf("seats = %d, want 3", len(resp.Seats))
	}
	for i, s := range resp.Seats {
		if s.Row != 3 || s.Seat != uint32(i+1) {
			t.Errorf("seat[%d] = row %d seat %d", i, s.Row, s.Seat)
		}
	}
}

func TestBookInsufficientAvailabilityIs400(t *testing.T) {
	t.Parallel()

	svc := &fakeBookingService{bookErr: service.ErrInsufficientSeats}
	rec := doBook(t, svc, `{"count":5}`, uint64(1))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not enough seats available") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestBookRejectsOutOfRangeCounts(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"count":0}`, `{"count":8}`, `{"count":-2}`, `{}`} {
		svc := &fakeBookingService{}
		rec := doBook(t, svc, body, uint64(1))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
		if svc.gotCount != 0 {
			t.Errorf("body %s: service should not be reached", body)
		}
	}
}

func TestBookWithoutIdentityIs401(t *testing.T) {
	t.Parallel()

	rec := doBook(t, &fakeBookingService{}, `{"count":1}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestBookUnexpectedErrorIs500(t *testing.T) {
	t.Parallel()

	svc := &fakeBookingService{bookErr: errors.New("connection refused")}
	rec := doBook(t, svc, `{"count":2}`, uint64(7))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestBookPublishesEventOnSuccess(t *testing.T) {
	t.Parallel()

	svc := &fakeBookingService{bookSeats: []model.Seat{
		{ID: 1, RowNumber: 1, SeatNumber: 1},
		{ID: 2, RowNumber: 1, SeatNumber: 2},
	}}

	var got queue.SeatsBookedEvent
	publish := func(_ context.Context, ev queue.SeatsBookedEvent) error {
		got = ev
		return nil
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/booking", strings.NewReader(`{"count":2}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(9))

	h := NewBookingHandler(svc, publish)
	if err := h.Book(c); err != nil {
		t.Fatalf("Book: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got.UserID != 9 || got.Count != 2 || len(got.Seats) != 2 {
		t.Fatalf("published event = %+v", got)
	}
}

func TestBookPublishFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	svc := &fakeBookingService{bookSeats: []model.Seat{{ID: 1, RowNumber: 1, SeatNumber: 1}}}
	publish := func(context.Context, queue.SeatsBookedEvent) error {
		return errors.New("broker down")
	}

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/booking", strings.NewReader(`{"count":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(3))

	h := NewBookingHandler(svc, publish)
	if err := h.Book(c); err != nil {
		t.Fatalf("Book: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite publish failure", rec.Code)
	}
}
