// Package repository implements MySQL persistence for seats, bookings,
// users and refresh tokens. Sentinel errors defined here let handlers
// and services distinguish failure scenarios with errors.Is instead of
// inspecting driver errors.
package repository

import "errors"

// ErrSeatTaken is returned when a booking insert trips the UNIQUE
// constraint on bookings.seat_id. Under correct lock usage overlapping
// selections cannot happen, so this error signals a lock-discipline bug
// rather than a normal business outcome.
var ErrSeatTaken = errors.New("seat already booked")

// ErrEmailExists is returned when registering a user with an email that
// is already taken.
var ErrEmailExists = errors.New("email already exists")
