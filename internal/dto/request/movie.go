package request

type MovieRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Genres      []string `json:"genres" validate:"required,min=1,unique,dive,oneof=Action Adventure Animation Comedy Crime Documentary Drama Fantasy Horror Mystery Romance Sci-Fi Thriller War Western"`
	Duration    int      `json:"duration" validate:"required,min=1,max=600"`
	Rating      string   `json:"rating" validate:"required,oneof=G PG PG-13 R NC-17"`
	ReleaseDate string   `json:"release_date" validate:"required,datetime=2006-01-02"`
	PosterURL   *string  `json:"poster_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

type MovieUpdateRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Genres      *[]string `json:"genres,omitempty" validate:"omitempty,min=1,unique,dive,oneof=Action Adventure Animation Comedy Crime Documentary Drama Fantasy Horror Mystery Romance Sci-Fi Thriller War Western"`
	Duration    *int      `json:"duration,omitempty" validate:"omitempty,min=1,max=600"`
	Rating      *string   `json:"rating,omitempty" validate:"omitempty,oneof=G PG PG-13 R NC-17"`
	ReleaseDate *string   `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PosterURL   *string   `json:"poster_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

type MovieListRequest struct {
	PaginatedRequest
	Genre    *string `json:"genre,omitempty" validate:"omitempty,oneof=Action Adventure Animation Comedy Crime Documentary Drama Fantasy Horror Mystery Romance Sci-Fi Thriller War Western"`
	Rating   *string `json:"rating,omitempty" validate:"omitempty,oneof=G PG PG-13 R NC-17"`
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty" validate:"omitempty,max=100"`
}
