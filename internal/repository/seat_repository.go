package repository

import (
	"context"
	"database/sql"

	"github.com/movietix/theater-booking/internal/model"
)

// SeatRepo provides read access to the fixed seat layout and the
// availability snapshot. Seats are seeded once at startup and never
// mutated afterwards; occupancy lives entirely in the bookings table.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// WithTx runs fn inside a transaction carried through the context.
func (r *SeatRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

// AvailableForUpdate returns every seat without a booking, ordered by
// row then seat number, locking the returned rows for the duration of
// the enclosing transaction. Locking the whole unbooked set (not just
// the seats eventually chosen) serializes concurrent booking attempts
// against each other. Must be called inside WithTx.
func (r *SeatRepo) AvailableForUpdate(ctx context.Context) ([]model.Seat, error) {
	const q = "SELECT id, `row_number`, seat_number FROM seats " +
		"WHERE id NOT IN (SELECT seat_id FROM bookings) " +
		"ORDER BY `row_number`, seat_number FOR UPDATE"
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.RowNumber, &s.SeatNumber); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// SeatMap returns the full layout with a per-seat occupancy flag,
// ordered by row then seat number. Read-only; takes no locks.
func (r *SeatRepo) SeatMap(ctx context.Context) ([]model.SeatStatus, error) {
	const q = "SELECT s.id, s.`row_number`, s.seat_number, b.id IS NOT NULL " +
		"FROM seats s LEFT JOIN bookings b ON b.seat_id = s.id " +
		"ORDER BY s.`row_number`, s.seat_number"
	rows, err := conn(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeatStatus
	for rows.Next() {
		var s model.SeatStatus
		if err := rows.Scan(&s.ID, &s.RowNumber, &s.SeatNumber, &s.IsBooked); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count returns the number of seats in the layout. Used by the schema
// initializer to decide whether seeding is needed.
func (r *SeatRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM seats").Scan(&n)
	return n, err
}

// CreateBulk inserts multiple seats in a single statement.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := "INSERT INTO seats (`row_number`, seat_number) VALUES "
	args := make([]any, 0, len(seats)*2)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, s.RowNumber, s.SeatNumber)
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	return err
}
