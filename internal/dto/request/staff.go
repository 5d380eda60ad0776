package request

type StaffRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"required,oneof=ADMIN STAFF"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type StaffUpdateRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN STAFF"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type StaffListRequest struct {
	PaginatedRequest
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=SUPER_ADMIN ADMIN STAFF USER"`
	Search   *string `json:"search,omitempty" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}
