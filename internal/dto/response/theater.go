package response

import (
	"time"

	"cinema-backoffice/internal/data/entity"
)

type TheaterResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     *string   `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TheaterDetailResponse struct {
	TheaterResponse
	Studios []StudioResponse `json:"studios"`
}

type StudioResponse struct {
	ID        string    `json:"id"`
	TheaterID string    `json:"theater_id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func TheaterToResponse(theater *entity.Theater) TheaterResponse {
	return TheaterResponse{
		ID:        theater.ID.String(),
		Name:      theater.Name,
		Slug:      theater.Slug,
		Address:   theater.Address,
		City:      theater.City,
		Phone:     theater.Phone,
		IsActive:  theater.IsActive,
		CreatedAt: theater.CreatedAt,
		UpdatedAt: theater.UpdatedAt,
	}
}

func TheaterToDetailResponse(theater *entity.Theater, studios []*entity.Studio) TheaterDetailResponse {
	resp := TheaterDetailResponse{
		TheaterResponse: TheaterToResponse(theater),
		Studios:         make([]StudioResponse, len(studios)),
	}
	for i, studio := range studios {
		resp.Studios[i] = StudioToResponse(studio)
	}
	return resp
}

func StudioToResponse(studio *entity.Studio) StudioResponse {
	return StudioResponse{
		ID:        studio.ID.String(),
		TheaterID: studio.TheaterID.String(),
		Name:      studio.Name,
		Capacity:  studio.Capacity,
		Price:     studio.Price,
		CreatedAt: studio.CreatedAt,
		UpdatedAt: studio.UpdatedAt,
	}
}
