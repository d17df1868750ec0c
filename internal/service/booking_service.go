// Package service contains the booking coordinator: the component that
// makes the read-allocate-write sequence atomic with respect to other
// concurrent booking attempts.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/movietix/theater-booking/internal/allocation"
	"github.com/movietix/theater-booking/internal/model"
	"github.com/movietix/theater-booking/internal/repository"
)

// ErrInsufficientSeats is returned when fewer seats remain than were
// requested. Recoverable; the caller may retry with a smaller count.
var ErrInsufficientSeats = errors.New("not enough seats available")

// ErrInvalidCount is returned for a count outside [1, max].
var ErrInvalidCount = errors.New("invalid seat count")

// ErrSeatConflict is returned when the ledger's uniqueness constraint
// rejects a selected seat. The snapshot lock makes this impossible
// under correct usage, so it is logged as a lock-discipline bug and
// surfaced to the caller as a generic failure.
var ErrSeatConflict = errors.New("seat assignment conflict")

// SeatStore is the availability side of the persistence layer.
type SeatStore interface {
	// WithTx runs fn inside one transaction; fn's error rolls back.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// AvailableForUpdate reads the unbooked seat set under a row lock
	// held until the enclosing transaction ends.
	AvailableForUpdate(ctx context.Context) ([]model.Seat, error)
	// SeatMap reads the full layout with occupancy flags, lock-free.
	SeatMap(ctx context.Context) ([]model.SeatStatus, error)
}

// BookingStore is the ledger side of the persistence layer.
type BookingStore interface {
	Insert(ctx context.Context, userID uint64, seats []model.Seat) error
	DeleteAll(ctx context.Context) (int64, error)
}

// BookingService coordinates seat booking. Per request it opens a
// transaction, locks the availability snapshot, runs the allocation
// engine on it and writes the ledger rows, committing only when every
// step succeeded. The row lock over the whole unbooked set serializes
// overlapping attempts, so at most one allocation ever wins a contested
// seat.
type BookingService struct {
	seats    SeatStore
	bookings BookingStore
	maxSeats int
}

// NewBookingService constructs a BookingService. maxSeats caps the
// party size of a single booking (zero or negative falls back to 7).
func NewBookingService(seats SeatStore, bookings BookingStore, maxSeats int) *BookingService {
	if seats == nil || bookings == nil {
		panic("nil store passed to NewBookingService")
	}
	if maxSeats <= 0 {
		maxSeats = 7
	}
	return &BookingService{seats: seats, bookings: bookings, maxSeats: maxSeats}
}

// BookSeats assigns count seats to userID and returns them in
// allocation order. On any failure the transaction rolls back and no
// booking is visible.
func (s *BookingService) BookSeats(ctx context.Context, userID uint64, count int) ([]model.Seat, error) {
	if count < 1 || count > s.maxSeats {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidCount, count, s.maxSeats)
	}

	var picked []model.Seat
	err := s.seats.WithTx(ctx, func(ctx context.Context) error {
		available, err := s.seats.AvailableForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("read availability: %w", err)
		}
		if len(available) < count {
			return ErrInsufficientSeats
		}

		selected, err := allocation.Allocate(allocation.GroupByRow(available), count)
		if err != nil {
			if errors.Is(err, allocation.ErrInsufficientAvailability) {
				return ErrInsufficientSeats
			}
			return fmt.Errorf("allocate: %w", err)
		}

		if err := s.bookings.Insert(ctx, userID, selected); err != nil {
			if errors.Is(err, repository.ErrSeatTaken) {
				// The snapshot lock should make overlap impossible;
				// reaching this branch means the lock scope is broken.
				log.Printf("booking: seat conflict for user=%d despite snapshot lock", userID)
				return ErrSeatConflict
			}
			return fmt.Errorf("write ledger: %w", err)
		}
		picked = selected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return picked, nil
}

// SeatMap returns every seat with its occupancy flag, ordered by row
// then seat number.
func (s *BookingService) SeatMap(ctx context.Context) ([]model.SeatStatus, error) {
	return s.seats.SeatMap(ctx)
}

// Reset removes all bookings and returns the number deleted. Safe to
// call repeatedly; an empty ledger reports zero.
func (s *BookingService) Reset(ctx context.Context) (int64, error) {
	return s.bookings.DeleteAll(ctx)
}
