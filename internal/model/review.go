package model

import "time"

// Review is a user rating of a movie on a 1..5 scale with an optional
// comment.
type Review struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"userId"`
	MovieID   uint64    `json:"movieId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
