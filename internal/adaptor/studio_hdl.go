package adaptor

import (
	"net/http"

	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/usecase"
	"cinema-backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StudioHandler struct {
	service usecase.StudioService
	log     *zap.Logger
}

func NewStudioHandler(service usecase.StudioService, log *zap.Logger) *StudioHandler {
	return &StudioHandler{
		service: service,
		log:     log.With(zap.String("handler", "studio")),
	}
}

// GetStudios handles GET /api/theaters/{id}/studios
func (h *StudioHandler) GetStudios(w http.ResponseWriter, r *http.Request) {
	studios, err := h.service.GetStudios(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get studios")
		return
	}

	utils.ResponseSuccess(w, "Studios retrieved successfully", studios)
}

// GetStudioByID handles GET /api/theaters/{id}/studios/{studioId}
func (h *StudioHandler) GetStudioByID(w http.ResponseWriter, r *http.Request) {
	studio, err := h.service.GetStudioByID(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "studioId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get studio by ID")
		return
	}

	utils.ResponseSuccess(w, "Studio retrieved successfully", studio)
}

// CreateStudio handles POST /api/theaters/{id}/studios
func (h *StudioHandler) CreateStudio(w http.ResponseWriter, r *http.Request) {
	var req request.StudioRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	studio, err := h.service.CreateStudio(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create studio")
		return
	}

	utils.ResponseCreated(w, "Studio created successfully", studio)
}

// UpdateStudio handles PATCH /api/theaters/{id}/studios/{studioId}
func (h *StudioHandler) UpdateStudio(w http.ResponseWriter, r *http.Request) {
	var req request.StudioUpdateRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	studio, err := h.service.UpdateStudio(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "studioId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update studio")
		return
	}

	utils.ResponseSuccess(w, "Studio updated successfully", studio)
}

// DeleteStudio handles DELETE /api/theaters/{id}/studios/{studioId}
func (h *StudioHandler) DeleteStudio(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteStudio(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "studioId")); err != nil {
		handleServiceError(w, h.log, err, "delete studio")
		return
	}

	utils.ResponseSuccess(w, "Studio deleted successfully", nil)
}
