// Package booking implements the seat-booking core: the availability
// ledger, server-side pricing, booking-code generation and the
// coordinator that turns a seat selection into a ticket without ever
// selling a seat twice.
package booking

import (
	"fmt"
	"strconv"
)

// maxRows limits rooms to single-letter row labels.  Layout generation
// and tier lookup both rely on rows being "A".."Z".
const maxRows = 26

// Layout returns the full seat grid for a room: row labels "A".. with
// seats numbered from 1, e.g. ["A1" ... "A12", "B1" ...].  Rows beyond
// 26 or non-positive dimensions yield an empty grid.
func Layout(rows, seatsPerRow int) []string {
	if rows <= 0 || rows > maxRows || seatsPerRow <= 0 {
		return []string{}
	}
	grid := make([]string, 0, rows*seatsPerRow)
	for r := 0; r < rows; r++ {
		label := string(rune('A' + r))
		for n := 1; n <= seatsPerRow; n++ {
			grid = append(grid, label+strconv.Itoa(n))
		}
	}
	return grid
}

// Missing returns the requested seats that are not present in the
// available set, preserving request order.  An empty result means every
// requested seat is currently available.
func Missing(available, requested []string) []string {
	have := toSet(available)
	var missing []string
	for _, s := range requested {
		if _, ok := have[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

// Intersect returns the requested seats that appear in taken, preserving
// request order.  It backs the authoritative second check against seats
// already committed to other tickets.
func Intersect(requested, taken []string) []string {
	got := toSet(taken)
	var both []string
	for _, s := range requested {
		if _, ok := got[s]; ok {
			both = append(both, s)
		}
	}
	return both
}

// Remove shrinks the ledger by the booked seats and returns the new
// available set.  Seats not present in the ledger are ignored; callers
// must have validated availability first.
func Remove(available, booked []string) []string {
	drop := toSet(booked)
	next := make([]string, 0, len(available))
	for _, s := range available {
		if _, ok := drop[s]; !ok {
			next = append(next, s)
		}
	}
	return next
}

// Restore returns released seats to the ledger, used on cancellation.
// The result is clamped to the room layout and deduplicated so a double
// release can never grow the ledger past the physical seat grid.
func Restore(available, released, layout []string) []string {
	valid := toSet(layout)
	have := toSet(available)
	next := make([]string, 0, len(available)+len(released))
	next = append(next, available...)
	for _, s := range released {
		if _, inLayout := valid[s]; !inLayout {
			continue
		}
		if _, dup := have[s]; dup {
			continue
		}
		have[s] = struct{}{}
		next = append(next, s)
	}
	return next
}

// Dedupe drops duplicate seat identifiers while preserving order.
func Dedupe(seats []string) []string {
	seen := make(map[string]struct{}, len(seats))
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// splitSeatID parses a seat identifier like "A12" into its row index
// (0-based) and seat number.  It reports an error for identifiers that
// do not match the single-letter-row grid.
func splitSeatID(seat string) (row int, number int, err error) {
	if len(seat) < 2 {
		return 0, 0, fmt.Errorf("malformed seat id %q", seat)
	}
	r := seat[0]
	if r < 'A' || r > 'Z' {
		return 0, 0, fmt.Errorf("malformed seat id %q", seat)
	}
	n, convErr := strconv.Atoi(seat[1:])
	if convErr != nil || n < 1 {
		return 0, 0, fmt.Errorf("malformed seat id %q", seat)
	}
	return int(r - 'A'), n, nil
}

func toSet(seats []string) map[string]struct{} {
	m := make(map[string]struct{}, len(seats))
	for _, s := range seats {
		m[s] = struct{}{}
	}
	return m
}
