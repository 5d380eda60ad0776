package response

import (
	"time"

	"cinema-backoffice/internal/data/entity"
)

// ShowtimeResponse is a showtime with summaries of its movie, studio and theater.
type ShowtimeResponse struct {
	ID        string                 `json:"id"`
	MovieID   string                 `json:"movie_id"`
	StudioID  string                 `json:"studio_id"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
	Price     int                    `json:"price"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	Movie     ShowtimeMovieResponse  `json:"movie"`
	Studio    ShowtimeStudioResponse `json:"studio"`
}

type ShowtimeMovieResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Duration  int     `json:"duration"`
	Rating    string  `json:"rating"`
	PosterURL *string `json:"poster_url,omitempty"`
}

type ShowtimeStudioResponse struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Capacity int                     `json:"capacity"`
	Theater  ShowtimeTheaterResponse `json:"theater"`
}

type ShowtimeTheaterResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

func ShowtimeToResponse(d *entity.ShowtimeDetail) ShowtimeResponse {
	return ShowtimeResponse{
		ID:        d.ID.String(),
		MovieID:   d.MovieID.String(),
		StudioID:  d.StudioID.String(),
		StartTime: d.StartTime.UTC(),
		EndTime:   d.EndTime.UTC(),
		Price:     d.Price,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Movie: ShowtimeMovieResponse{
			ID:        d.Movie.ID.String(),
			Title:     d.Movie.Title,
			Duration:  d.Movie.Duration,
			Rating:    string(d.Movie.Rating),
			PosterURL: d.Movie.PosterURL,
		},
		Studio: ShowtimeStudioResponse{
			ID:       d.Studio.ID.String(),
			Name:     d.Studio.Name,
			Capacity: d.Studio.Capacity,
			Theater: ShowtimeTheaterResponse{
				ID:   d.Theater.ID.String(),
				Name: d.Theater.Name,
				City: d.Theater.City,
			},
		},
	}
}
