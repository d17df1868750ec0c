// Package queue defines message payloads exchanged over the message
// broker, the publisher used after a successful booking and the
// background consumer that writes the booking log.
package queue

// BookedSeat identifies one assigned seat in an event payload.
type BookedSeat struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

// SeatsBookedEvent is published after a booking transaction commits.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type SeatsBookedEvent struct {
	UserID   uint64       `json:"user_id"`
	Count    int          `json:"count"`
	Seats    []BookedSeat `json:"seats"`
	BookedAt string       `json:"booked_at"`
}
