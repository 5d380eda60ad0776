package request

// ShowtimeRequest creates a showtime. StartTime is RFC 3339; the end of the
// window is derived from the movie and never accepted from callers.
type ShowtimeRequest struct {
	MovieID   string `json:"movie_id" validate:"required,uuid"`
	StudioID  string `json:"studio_id" validate:"required,uuid"`
	StartTime string `json:"start_time" validate:"required"`
	Price     *int   `json:"price,omitempty" validate:"omitempty,gte=0"`
}

type ShowtimeUpdateRequest struct {
	MovieID   *string `json:"movie_id,omitempty" validate:"omitempty,uuid"`
	StudioID  *string `json:"studio_id,omitempty" validate:"omitempty,uuid"`
	StartTime *string `json:"start_time,omitempty" validate:"omitempty,min=1"`
	Price     *int    `json:"price,omitempty" validate:"omitempty,gte=0"`
}

// Empty reports whether the update carries no field at all.
func (r ShowtimeUpdateRequest) Empty() bool {
	return r.MovieID == nil && r.StudioID == nil && r.StartTime == nil && r.Price == nil
}

type ShowtimeListRequest struct {
	PaginatedRequest
	MovieID    *string `json:"movie_id,omitempty" validate:"omitempty,uuid"`
	StudioID   *string `json:"studio_id,omitempty" validate:"omitempty,uuid"`
	TheaterID  *string `json:"theater_id,omitempty" validate:"omitempty,uuid"`
	StartDate  *string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FutureOnly bool    `json:"future_only"`
}
