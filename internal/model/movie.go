package model

import "time"

// Movie statuses as stored in the movies.status column.  "showing" movies
// are currently scheduled, "coming_soon" movies are announced but not yet
// bookable.
const (
	MovieShowing    = "showing"
	MovieComingSoon = "coming_soon"
)

// Movie represents an entry in the film catalog.  Showtimes reference a
// movie by ID; deleting a movie does not cascade to showtimes.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title.
//  Description – synopsis shown on the detail page.
//  Genre       – comma separated genre labels.
//  Duration    – running time in minutes.
//  Rating      – age rating label (e.g. "PG-13").
//  PosterURL   – poster image location.
//  TrailerURL  – optional trailer link.
//  ReleaseDate – theatrical release date.
//  Status      – showing or coming_soon.
type Movie struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Genre       string    `json:"genre"`
	Duration    uint32    `json:"duration"`
	Rating      string    `json:"rating"`
	PosterURL   string    `json:"posterUrl"`
	TrailerURL  string    `json:"trailerUrl,omitempty"`
	ReleaseDate time.Time `json:"releaseDate"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
