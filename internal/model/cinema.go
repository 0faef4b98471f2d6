package model

import "time"

// Cinema represents a physical theatre location.  Rooms belong to a
// cinema; promotions may optionally be scoped to one.
type Cinema struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Room is a screening room inside a cinema.  The seat grid is derived
// from Rows and SeatsPerRow: rows are labelled "A".."Z" top to bottom and
// seats are numbered from 1 within each row, so Capacity should equal
// Rows*SeatsPerRow.  Seat identifiers such as "A1" index into this grid.
type Room struct {
	ID          uint64    `json:"id"`
	CinemaID    uint64    `json:"cinemaId"`
	Name        string    `json:"name"`
	Capacity    uint32    `json:"capacity"`
	Rows        int       `json:"rows"`
	SeatsPerRow int       `json:"seatsPerRow"`
	CreatedAt   time.Time `json:"createdAt"`
}
