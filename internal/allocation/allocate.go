// Package allocation implements the seat-selection engine. Allocate is a
// pure function over an availability snapshot: it never touches shared
// state, so the caller is responsible for taking the snapshot under a
// row lock and for committing the selection atomically.
package allocation

import (
	"errors"
	"sort"

	"github.com/movietix/theater-booking/internal/model"
)

// ErrInsufficientAvailability is returned when the snapshot holds fewer
// seats than requested. This is the only failure mode of the engine and
// is checked before any selection strategy runs.
var ErrInsufficientAvailability = errors.New("insufficient availability")

// ErrInvalidCount is returned for a non-positive requested count. The
// request boundary validates counts before the engine is invoked, so
// seeing this error indicates a caller bug.
var ErrInvalidCount = errors.New("requested seat count must be positive")

// Allocate selects exactly count seats from the availability snapshot,
// grouped by row number. Strategies are tried in strict priority order:
//
//  1. a contiguous run of seats within a single row (lowest row, then
//     lowest seat numbers, wins);
//  2. the block of adjacent rows with the smallest row span whose
//     combined availability covers the request, filled row by row from
//     the lowest seat numbers (earliest block wins a span tie);
//  3. the first count seats of the snapshot in row-then-seat order,
//     with no contiguity guarantee.
//
// The result is deterministic for identical input: rows and seats are
// re-sorted internally, so map iteration order never leaks through.
func Allocate(byRow map[uint32][]model.Seat, count int) ([]model.Seat, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}

	rows := make([]uint32, 0, len(byRow))
	total := 0
	for r, seats := range byRow {
		rows = append(rows, r)
		total += len(seats)
	}
	if total < count {
		return nil, ErrInsufficientAvailability
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i] < rows[j] })

	// Normalized snapshot: rows ascending, seats ascending within a row.
	ordered := make([][]model.Seat, len(rows))
	for i, r := range rows {
		seats := append([]model.Seat(nil), byRow[r]...)
		sort.Slice(seats, func(a, b int) bool { return seats[a].SeatNumber < seats[b].SeatNumber })
		ordered[i] = seats
	}

	if picked := singleRowRun(ordered, count); picked != nil {
		return picked, nil
	}
	if picked := minimalRowSpan(ordered, count); picked != nil {
		return picked, nil
	}
	return firstAvailable(ordered, count), nil
}

// GroupByRow shapes a flat availability snapshot into the per-row map
// Allocate consumes. Input order does not matter; Allocate re-sorts.
func GroupByRow(seats []model.Seat) map[uint32][]model.Seat {
	byRow := make(map[uint32][]model.Seat)
	for _, s := range seats {
		byRow[s.RowNumber] = append(byRow[s.RowNumber], s)
	}
	return byRow
}

// singleRowRun returns the first consecutive run of length >= count,
// truncated to count seats, or nil when no row holds such a run.
func singleRowRun(ordered [][]model.Seat, count int) []model.Seat {
	for _, seats := range ordered {
		for _, run := range consecutiveRuns(seats) {
			if len(run) >= count {
				return run[:count:count]
			}
		}
	}
	return nil
}

// minimalRowSpan finds, among all starting rows whose suffix can cover
// the request, the one touching the fewest rows. Rows are consumed
// whole (lowest seat numbers first); ties on span go to the earliest
// starting row. Returns nil when no starting row can cover the request.
func minimalRowSpan(ordered [][]model.Seat, count int) []model.Seat {
	bestStart, bestSpan := -1, 0
	for start := range ordered {
		remaining := count
		span := 0
		for i := start; i < len(ordered) && remaining > 0; i++ {
			take := len(ordered[i])
			if take > remaining {
				take = remaining
			}
			remaining -= take
			span = i - start + 1
		}
		if remaining == 0 && (bestStart < 0 || span < bestSpan) {
			bestStart, bestSpan = start, span
		}
	}
	if bestStart < 0 {
		return nil
	}

	picked := make([]model.Seat, 0, count)
	for i := bestStart; len(picked) < count; i++ {
		need := count - len(picked)
		row := ordered[i]
		if need > len(row) {
			need = len(row)
		}
		picked = append(picked, row[:need]...)
	}
	return picked
}

// firstAvailable takes the first count seats of the normalized snapshot.
// With the availability check done up front this tier always succeeds;
// it exists so the engine can never fail after that check passes.
func firstAvailable(ordered [][]model.Seat, count int) []model.Seat {
	picked := make([]model.Seat, 0, count)
	for _, seats := range ordered {
		for _, s := range seats {
			picked = append(picked, s)
			if len(picked) == count {
				return picked
			}
		}
	}
	return picked
}

// consecutiveRuns partitions a row's seats (sorted ascending) into
// maximal runs of strictly sequential seat numbers.
func consecutiveRuns(seats []model.Seat) [][]model.Seat {
	var runs [][]model.Seat
	var run []model.Seat
	for i, s := range seats {
		if i > 0 && s.SeatNumber != seats[i-1].SeatNumber+1 {
			runs = append(runs, run)
			run = nil
		}
		run = append(run, s)
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}
	return runs
}
