package adaptor

import (
	"io"
	"net/http"

	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/usecase"
	"cinema-backoffice/pkg/storage"
	"cinema-backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /api/movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.MovieListRequest{
		PaginatedRequest: paginationFromQuery(query, "created_at"),
		Genre:            utils.StringPtr(query.Get("genre")),
		Rating:           utils.StringPtr(query.Get("rating")),
		IsActive:         utils.ParseBool(query.Get("is_active")),
		Search:           utils.StringPtr(query.Get("search")),
	}

	movies, err := h.service.GetMovies(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, "Movies retrieved successfully", movies)
}

// GetMovieByID handles GET /api/movies/{id}
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetMovieByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get movie by ID")
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved successfully", movie)
}

// CreateMovie handles POST /api/movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "Movie created successfully", movie)
}

// UpdateMovie handles PATCH /api/movies/{id}
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieUpdateRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, "Movie updated successfully", movie)
}

// DeleteMovie handles DELETE /api/movies/{id}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMovie(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete movie")
		return
	}

	utils.ResponseSuccess(w, "Movie deleted successfully", nil)
}

// multipart headers and boundaries on top of the image itself
const posterFormOverhead = 1 << 20

// UploadPoster handles POST /api/movies/{id}/poster
func (h *MovieHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+posterFormOverhead)
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		utils.ResponseBadRequest(w, "Poster must be sent as multipart/form-data under 5MB", nil)
		return
	}

	file, _, err := r.FormFile("poster")
	if err != nil {
		utils.ResponseBadRequest(w, "Poster file is required", nil)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, storage.MaxImageSize+1))
	if err != nil {
		utils.ResponseBadRequest(w, "Failed to read poster file", nil)
		return
	}

	movie, err := h.service.UploadPoster(r.Context(), chi.URLParam(r, "id"), image)
	if err != nil {
		handleServiceError(w, h.log, err, "upload movie poster")
		return
	}

	utils.ResponseSuccess(w, "Poster uploaded successfully", movie)
}
