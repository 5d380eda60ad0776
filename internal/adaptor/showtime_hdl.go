package adaptor

import (
	"net/http"

	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/usecase"
	"cinema-backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowtimeHandler struct {
	service usecase.ShowtimeService
	log     *zap.Logger
}

func NewShowtimeHandler(service usecase.ShowtimeService, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		service: service,
		log:     log.With(zap.String("handler", "showtime")),
	}
}

// GetShowtimes handles GET /api/showtimes
func (h *ShowtimeHandler) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	futureOnly := utils.ParseBool(query.Get("future_only"))

	req := request.ShowtimeListRequest{
		PaginatedRequest: paginationFromQuery(query, "start_time"),
		MovieID:          utils.StringPtr(query.Get("movie_id")),
		StudioID:         utils.StringPtr(query.Get("studio_id")),
		TheaterID:        utils.StringPtr(query.Get("theater_id")),
		StartDate:        utils.StringPtr(query.Get("start_date")),
		EndDate:          utils.StringPtr(query.Get("end_date")),
		FutureOnly:       futureOnly != nil && *futureOnly,
	}

	showtimes, err := h.service.GetShowtimes(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get showtimes")
		return
	}

	utils.ResponseSuccess(w, "Showtimes retrieved successfully", showtimes)
}

// GetShowtimeByID handles GET /api/showtimes/{id}
func (h *ShowtimeHandler) GetShowtimeByID(w http.ResponseWriter, r *http.Request) {
	showtime, err := h.service.GetShowtimeByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get showtime by ID")
		return
	}

	utils.ResponseSuccess(w, "Showtime retrieved successfully", showtime)
}

// CreateShowtime handles POST /api/showtimes
func (h *ShowtimeHandler) CreateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.ShowtimeRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	showtime, err := h.service.CreateShowtime(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create showtime")
		return
	}

	utils.ResponseCreated(w, "Showtime created successfully", showtime)
}

// UpdateShowtime handles PATCH /api/showtimes/{id}
func (h *ShowtimeHandler) UpdateShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.ShowtimeUpdateRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	showtime, err := h.service.UpdateShowtime(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update showtime")
		return
	}

	utils.ResponseSuccess(w, "Showtime updated successfully", showtime)
}

// DeleteShowtime handles DELETE /api/showtimes/{id}
func (h *ShowtimeHandler) DeleteShowtime(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteShowtime(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete showtime")
		return
	}

	utils.ResponseSuccess(w, "Showtime deleted successfully", nil)
}
