package adaptor

import (
	"net/http"

	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/usecase"
	"cinema-backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StaffHandler struct {
	service usecase.StaffService
	log     *zap.Logger
}

func NewStaffHandler(service usecase.StaffService, log *zap.Logger) *StaffHandler {
	return &StaffHandler{
		service: service,
		log:     log.With(zap.String("handler", "staff")),
	}
}

// GetStaff handles GET /api/staff
func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.StaffListRequest{
		PaginatedRequest: paginationFromQuery(query, "created_at"),
		Role:             utils.StringPtr(query.Get("role")),
		Search:           utils.StringPtr(query.Get("search")),
		IsActive:         utils.ParseBool(query.Get("is_active")),
	}

	staff, err := h.service.GetStaff(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get staff")
		return
	}

	utils.ResponseSuccess(w, "Staff retrieved successfully", staff)
}

// GetStaffByID handles GET /api/staff/{id}
func (h *StaffHandler) GetStaffByID(w http.ResponseWriter, r *http.Request) {
	staff, err := h.service.GetStaffByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get staff by ID")
		return
	}

	utils.ResponseSuccess(w, "Staff retrieved successfully", staff)
}

// CreateStaff handles POST /api/staff
func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.StaffRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	staff, err := h.service.CreateStaff(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create staff")
		return
	}

	utils.ResponseCreated(w, "Staff created successfully", staff)
}

// UpdateStaff handles PATCH /api/staff/{id}
func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.StaffUpdateRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	staff, err := h.service.UpdateStaff(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update staff")
		return
	}

	utils.ResponseSuccess(w, "Staff updated successfully", staff)
}

// DeleteStaff handles DELETE /api/staff/{id}
func (h *StaffHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteStaff(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete staff")
		return
	}

	utils.ResponseSuccess(w, "Staff deleted successfully", nil)
}
