package request

import "cinema-backoffice/pkg/utils"

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type PaginatedRequest struct {
	Page      int    `json:"page" validate:"min=1"`
	PerPage   int    `json:"per_page" validate:"min=1,max=100"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return DefaultPerPage
	case p.PerPage > MaxPerPage:
		return MaxPerPage
	}
	return p.PerPage
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit())
}
