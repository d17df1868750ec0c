package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/movietix/theater-booking/internal/model"
)

// Statements are idempotent so startup can run them unconditionally.
// The UNIQUE KEY on bookings.seat_id is the hard double-booking
// guarantee; everything above it only decides which seats to try.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL DEFAULT 'CUSTOMER',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB`,
	"CREATE TABLE IF NOT EXISTS seats (" +
		"id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY, " +
		"`row_number` INT UNSIGNED NOT NULL, " +
		"seat_number INT UNSIGNED NOT NULL, " +
		"UNIQUE KEY uq_seats_position (`row_number`, seat_number)" +
		") ENGINE=InnoDB",
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		seat_id BIGINT UNSIGNED NOT NULL,
		booked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_bookings_seat (seat_id),
		CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users(id),
		CONSTRAINT fk_bookings_seat FOREIGN KEY (seat_id) REFERENCES seats(id)
	) ENGINE=InnoDB`,
}

// SeatSeeder abstracts the seat repository methods InitSchema needs.
type SeatSeeder interface {
	Count(ctx context.Context) (int, error)
	CreateBulk(ctx context.Context, seats []model.Seat) error
}

// InitSchema creates the tables if absent and seeds the venue layout
// the first time it runs against an empty seats table. The layout is
// fixed after that; re-running is a no-op.
func InitSchema(ctx context.Context, db *sql.DB, seats SeatSeeder, layout model.Layout) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	n, err := seats.Count(ctx)
	if err != nil {
		return fmt.Errorf("count seats: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := seats.CreateBulk(ctx, layout.Seats()); err != nil {
		return fmt.Errorf("seed seats: %w", err)
	}
	return nil
}
