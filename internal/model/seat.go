package model

import "time"

// Seat is the smallest allocatable unit of the venue. A seat is
// identified by its (row number, seat number) pair; both are 1-based.
// Seats are created once when the schema is seeded and never change.
//
// Fields:
//  ID         – primary key identifier (seats.id).
//  RowNumber  – row the seat belongs to (seats.row_number).
//  SeatNumber – position within the row (seats.seat_number).
type Seat struct {
	ID         uint64 // seats.id
	RowNumber  uint32 // seats.row_number
	SeatNumber uint32 // seats.seat_number
}

// SeatStatus is a Seat joined with its occupancy flag. It is the row
// shape returned by the seat map query; bookings are the sole source
// of truth for IsBooked.
type SeatStatus struct {
	Seat
	IsBooked bool
}

// Booking binds one user to one seat. The UNIQUE constraint on
// bookings.seat_id is the invariant the whole locking protocol
// protects: a seat has at most one booking at any time.
//
// Fields:
//  ID       – primary key identifier.
//  UserID   – user who booked the seat.
//  SeatID   – booked seat (unique across the table).
//  BookedAt – creation timestamp (UTC).
type Booking struct {
	ID       uint64    // bookings.id
	UserID   uint64    // bookings.user_id
	SeatID   uint64    // bookings.seat_id (UNIQUE)
	BookedAt time.Time // bookings.booked_at
}
