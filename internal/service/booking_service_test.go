package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/movietix/theater-booking/internal/model"
	"github.com/movietix/theater-booking/internal/repository"
)

// fakeStore stands in for the MySQL store. WithTx holds a mutex for the
// whole callback, mirroring how the FOR UPDATE snapshot lock serializes
// concurrent booking transactions against each other.
type fakeStore struct {
	mu     sync.Mutex
	seats  []model.Seat
	booked map[uint64]uint64 // seat id -> user id
	stale  bool              // report booked seats as still available
}

func newFakeStore(seatsPerRow ...uint32) *fakeStore {
	layout := model.Layout{SeatsPerRow: seatsPerRow}
	seats := layout.Seats()
	for i := range seats {
		seats[i].ID = uint64(i + 1)
	}
	return &fakeStore{seats: seats, booked: make(map[uint64]uint64)}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

func (f *fakeStore) AvailableForUpdate(ctx context.Context) ([]model.Seat, error) {
	var out []model.Seat
	for _, s := range f.seats {
		if _, taken := f.booked[s.ID]; taken && !f.stale {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) SeatMap(ctx context.Context) ([]model.SeatStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.SeatStatus, 0, len(f.seats))
	for _, s := range f.seats {
		_, taken := f.booked[s.ID]
		out = append(out, model.SeatStatus{Seat: s, IsBooked: taken})
	}
	return out, nil
}

// Insert is all-or-nothing like the single bulk INSERT it mimics.
func (f *fakeStore) Insert(ctx context.Context, userID uint64, seats []model.Seat) error {
	for _, s := range seats {
		if _, taken := f.booked[s.ID]; taken {
			return repository.ErrSeatTaken
		}
	}
	for _, s := range seats {
		f.booked[s.ID] = userID
	}
	return nil
}

func (f *fakeStore) DeleteAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.booked))
	f.booked = make(map[uint64]uint64)
	return n, nil
}

func TestBookingService_BookSeats(t *testing.T) {
	t.Parallel()

	t.Run("books a contiguous block and records the user", func(t *testing.T) {
		store := newFakeStore(7, 7)
		svc := NewBookingService(store, store, 7)

		seats, err := svc.BookSeats(context.Background(), 42, 3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(seats) != 3 {
			t.Fatalf("expected 3 seats, got %d", len(seats))
		}
		for i, s := range seats {
			if s.RowNumber != 1 || s.SeatNumber != uint32(i+1) {
				t.Fatalf("expected row 1 seats 1-3, got %+v", seats)
			}
			if store.booked[s.ID] != 42 {
				t.Fatalf("seat %d not booked for user 42", s.ID)
			}
		}
	})

	t.Run("rejects count outside bounds", func(t *testing.T) {
		store := newFakeStore(7)
		svc := NewBookingService(store, store, 7)

		for _, count := range []int{0, -1, 8} {
			if _, err := svc.BookSeats(context.Background(), 1, count); !errors.Is(err, ErrInvalidCount) {
				t.Fatalf("count=%d: expected ErrInvalidCount, got %v", count, err)
			}
		}
		if len(store.booked) != 0 {
			t.Fatalf("expected no bookings, got %d", len(store.booked))
		}
	})

	t.Run("insufficient availability writes nothing", func(t *testing.T) {
		store := newFakeStore(2)
		svc := NewBookingService(store, store, 7)

		if _, err := svc.BookSeats(context.Background(), 1, 3); !errors.Is(err, ErrInsufficientSeats) {
			t.Fatalf("expected ErrInsufficientSeats, got %v", err)
		}
		if len(store.booked) != 0 {
			t.Fatalf("expected empty ledger, got %d bookings", len(store.booked))
		}
	})

	t.Run("ledger constraint violation surfaces as conflict", func(t *testing.T) {
		store := newFakeStore(4)
		store.booked[1] = 99
		store.stale = true // snapshot pretends seat 1 is still free

		svc := NewBookingService(store, store, 7)
		if _, err := svc.BookSeats(context.Background(), 1, 4); !errors.Is(err, ErrSeatConflict) {
			t.Fatalf("expected ErrSeatConflict, got %v", err)
		}
		if len(store.booked) != 1 {
			t.Fatalf("expected ledger untouched, got %d bookings", len(store.booked))
		}
	})
}

func TestBookingService_ConcurrentContention(t *testing.T) {
	t.Parallel()

	// Seven free seats, two simultaneous requests for five: exactly one
	// wins, the loser sees insufficient availability, two seats remain.
	store := newFakeStore(4, 3)
	svc := NewBookingService(store, store, 7)

	type result struct {
		seats []model.Seat
		err   error
	}
	results := make(chan result, 2)
	var wg sync.WaitGroup
	for user := uint64(1); user <= 2; user++ {
		wg.Add(1)
		go func(uid uint64) {
			defer wg.Done()
			seats, err := svc.BookSeats(context.Background(), uid, 5)
			results <- result{seats: seats, err: err}
		}(user)
	}
	wg.Wait()
	close(results)

	var won, lost int
	for r := range results {
		switch {
		case r.err == nil:
			won++
			if len(r.seats) != 5 {
				t.Fatalf("winner got %d seats, expected 5", len(r.seats))
			}
		case errors.Is(r.err, ErrInsufficientSeats):
			lost++
		default:
			t.Fatalf("unexpected error: %v", r.err)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("expected exactly one winner and one loser, got won=%d lost=%d", won, lost)
	}
	if len(store.booked) != 5 {
		t.Fatalf("expected 5 committed bookings, got %d", len(store.booked))
	}
	free, _ := store.AvailableForUpdate(context.Background())
	if len(free) != 2 {
		t.Fatalf("expected 2 seats remaining, got %d", len(free))
	}
}

func TestBookingService_SeatMapRoundTrip(t *testing.T) {
	t.Parallel()

	store := newFakeStore(7, 7)
	svc := NewBookingService(store, store, 7)

	seats, err := svc.BookSeats(context.Background(), 7, 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	bookedIDs := make(map[uint64]bool, len(seats))
	for _, s := range seats {
		bookedIDs[s.ID] = true
	}

	statuses, err := svc.SeatMap(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(statuses) != 14 {
		t.Fatalf("expected 14 seats in map, got %d", len(statuses))
	}
	for _, st := range statuses {
		if st.IsBooked != bookedIDs[st.ID] {
			t.Fatalf("seat %d: isBooked=%v, expected %v", st.ID, st.IsBooked, bookedIDs[st.ID])
		}
	}
}

func TestBookingService_ResetIdempotence(t *testing.T) {
	t.Parallel()

	store := newFakeStore(7)
	svc := NewBookingService(store, store, 7)

	if _, err := svc.BookSeats(context.Background(), 1, 5); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	deleted, err := svc.Reset(context.Background())
	if err != nil {
		t.Fatalf("first reset: expected no error, got %v", err)
	}
	if deleted != 5 {
		t.Fatalf("first reset: expected 5 deletions, got %d", deleted)
	}

	deleted, err = svc.Reset(context.Background())
	if err != nil {
		t.Fatalf("second reset: expected no error, got %v", err)
	}
	if deleted != 0 {
		t.Fatalf("second reset: expected 0 deletions, got %d", deleted)
	}

	free, _ := store.AvailableForUpdate(context.Background())
	if len(free) != 7 {
		t.Fatalf("expected full availability after reset, got %d", len(free))
	}
}
