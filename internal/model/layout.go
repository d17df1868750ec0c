package model

// Layout describes the fixed venue geometry: SeatsPerRow[i] is the
// number of seats in row i+1. Seat numbers within a row are contiguous
// starting at 1. The layout is immutable after schema seeding.
type Layout struct {
	SeatsPerRow []uint32
}

// DefaultLayout mirrors the venue this service was built for: eleven
// full rows of seven seats and a short back row of three.
func DefaultLayout() Layout {
	rows := make([]uint32, 12)
	for i := range rows {
		rows[i] = 7
	}
	rows[11] = 3
	return Layout{SeatsPerRow: rows}
}

// TotalSeats returns the number of seats across all rows.
func (l Layout) TotalSeats() int {
	total := 0
	for _, n := range l.SeatsPerRow {
		total += int(n)
	}
	return total
}

// Seats expands the layout into the full ordered seat list (row
// ascending, then seat number ascending) without IDs. Used by the
// schema seeder.
func (l Layout) Seats() []Seat {
	seats := make([]Seat, 0, l.TotalSeats())
	for i, n := range l.SeatsPerRow {
		for s := uint32(1); s <= n; s++ {
			seats = append(seats, Seat{RowNumber: uint32(i + 1), SeatNumber: s})
		}
	}
	return seats
}
