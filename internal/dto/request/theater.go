package request

type TheaterRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=150"`
	Address  string  `json:"address" validate:"required,min=5,max=500"`
	City     string  `json:"city" validate:"required,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=6,max=30"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type TheaterUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Address  *string `json:"address,omitempty" validate:"omitempty,min=5,max=500"`
	City     *string `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=6,max=30"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type TheaterListRequest struct {
	PaginatedRequest
	City     *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Search   *string `json:"search,omitempty" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type StudioRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=1000"`
	Price    int    `json:"price" validate:"gte=0"`
}

type StudioUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Capacity *int    `json:"capacity,omitempty" validate:"omitempty,min=1,max=1000"`
	Price    *int    `json:"price,omitempty" validate:"omitempty,gte=0"`
}
