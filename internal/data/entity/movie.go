package entity

import (
	"time"
)

type MovieRating string

const (
	RatingG    MovieRating = "G"
	RatingPG   MovieRating = "PG"
	RatingPG13 MovieRating = "PG-13"
	RatingR    MovieRating = "R"
	RatingNC17 MovieRating = "NC-17"
)

var Genres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime",
	"Documentary", "Drama", "Fantasy", "Horror", "Mystery",
	"Romance", "Sci-Fi", "Thriller", "War", "Western",
}

type Movie struct {
	Base
	Title       string      `db:"title"`
	Description *string     `db:"description"`
	Genres      []string    `db:"genres"`
	Duration    int         `db:"duration"` // minutes
	Rating      MovieRating `db:"rating"`
	ReleaseDate time.Time   `db:"release_date"`
	PosterURL   *string     `db:"poster_url"`
	PosterKey   *string     `db:"poster_key"` // storage key of an uploaded poster
	IsActive    bool        `db:"is_active"`
}

type MovieFilter struct {
	Genre    *string
	Rating   *string
	IsActive *bool
	Search   *string
}
