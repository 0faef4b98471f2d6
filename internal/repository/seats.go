package repository

import "encoding/json"

// Seat lists (showtimes.available_seats, tickets.seats) are stored as
// JSON-encoded string arrays in TEXT columns.  These helpers keep the
// encoding in one place; a NULL or empty column decodes to an empty
// slice, never nil-with-error.

func encodeSeats(seats []string) (string, error) {
	if seats == nil {
		seats = []string{}
	}
	b, err := json.Marshal(seats)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeSeats(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var seats []string
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, err
	}
	if seats == nil {
		seats = []string{}
	}
	return seats, nil
}
