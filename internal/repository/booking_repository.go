package repository

import (
	"context"
	"database/sql"

	"github.com/movietix/theater-booking/internal/model"
)

// BookingRepo persists the booking ledger. A booking binds one user to
// one seat; the UNIQUE constraint on seat_id makes double booking
// impossible at write time regardless of what the caller computed.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

// Insert writes one booking row per selected seat in a single
// statement. A duplicate seat_id is reported as ErrSeatTaken, which the
// caller must treat as a failed transaction. Passing no seats is a
// no-op.
func (r *BookingRepo) Insert(ctx context.Context, userID uint64, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := "INSERT INTO bookings (user_id, seat_id) VALUES "
	args := make([]any, 0, len(seats)*2)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, userID, s.ID)
	}
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return ErrSeatTaken
		}
		return err
	}
	return nil
}

// DeleteAll removes every booking and returns how many were deleted.
// Administrative reset only; not part of the booking protocol.
func (r *BookingRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM bookings")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
