package response

import (
	"time"

	"cinema-backoffice/internal/data/entity"
)

type MovieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Genres      []string  `json:"genres"`
	Duration    int       `json:"duration"`
	Rating      string    `json:"rating"`
	ReleaseDate string    `json:"release_date"`
	PosterURL   *string   `json:"poster_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	genres := movie.Genres
	if genres == nil {
		genres = []string{}
	}

	return MovieResponse{
		ID:          movie.ID.String(),
		Title:       movie.Title,
		Description: movie.Description,
		Genres:      genres,
		Duration:    movie.Duration,
		Rating:      string(movie.Rating),
		ReleaseDate: movie.ReleaseDate.Format(time.DateOnly),
		PosterURL:   movie.PosterURL,
		IsActive:    movie.IsActive,
		CreatedAt:   movie.CreatedAt,
		UpdatedAt:   movie.UpdatedAt,
	}
}
