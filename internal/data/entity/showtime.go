package entity

import (
	"time"

	"github.com/google/uuid"
)

// Showtime occupies [StartTime, EndTime) in its studio. EndTime is derived
// from the movie duration and never supplied by callers.
type Showtime struct {
	BaseNoDelete
	MovieID   uuid.UUID `db:"movie_id"`
	StudioID  uuid.UUID `db:"studio_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Price     int       `db:"price"`
}

// ShowtimeDetail is a showtime joined with its movie, studio and theater.
type ShowtimeDetail struct {
	Showtime
	Movie   ShowtimeMovie
	Studio  ShowtimeStudio
	Theater ShowtimeTheater
}

type ShowtimeMovie struct {
	ID        uuid.UUID
	Title     string
	Duration  int
	Rating    MovieRating
	PosterURL *string
}

type ShowtimeStudio struct {
	ID       uuid.UUID
	Name     string
	Capacity int
}

type ShowtimeTheater struct {
	ID   uuid.UUID
	Name string
	City string
}

type ShowtimeFilter struct {
	MovieID    *uuid.UUID
	StudioID   *uuid.UUID
	TheaterID  *uuid.UUID
	StartFrom  *time.Time
	StartUntil *time.Time
}
