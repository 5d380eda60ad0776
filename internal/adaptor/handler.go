package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/usecase"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/permission"
	"cinema-backoffice/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Staff    *StaffHandler
	Movie    *MovieHandler
	Theater  *TheaterHandler
	Studio   *StudioHandler
	Showtime *ShowtimeHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Staff:    NewStaffHandler(service.Staff, log),
		Movie:    NewMovieHandler(service.Movie, log),
		Theater:  NewTheaterHandler(service.Theater, log),
		Studio:   NewStudioHandler(service.Studio, log),
		Showtime: NewShowtimeHandler(service.Showtime, log),
	}
}

// handleServiceError maps service errors to responses. Client errors are
// logged at warn, everything else at error without leaking the message.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr, ok := apperror.As(err)
	if !ok {
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	log.Warn(operation+" failed",
		zap.String("kind", string(appErr.Kind)),
		zap.String("reason", appErr.Message),
		zap.String("operation", operation))

	status := apperror.StatusCode(appErr.Kind)
	if status == http.StatusInternalServerError {
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	var fields any
	if len(appErr.Fields) > 0 {
		fields = appErr.Fields
	}
	utils.ResponseJSON(w, status, false, appErr.Message, nil, fields)
}

// decodeJSON decodes the body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			utils.ResponseBadRequest(w, "Request body is required", nil)
			return false
		}
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// validateRequest writes a 400 with the field errors when req is invalid.
func validateRequest(w http.ResponseWriter, req any) bool {
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func paginationFromQuery(query url.Values, defaultSort string) request.PaginatedRequest {
	sortBy := query.Get("sort_by")
	if sortBy == "" {
		sortBy = defaultSort
	}
	return request.PaginatedRequest{
		Page:      utils.ParseInt(query.Get("page"), 1),
		PerPage:   min(utils.ParseInt(query.Get("per_page"), request.DefaultPerPage), request.MaxPerPage),
		SortBy:    sortBy,
		SortOrder: query.Get("sort_order"),
	}
}

// actorFromRequest reads the authenticated caller placed in the context by the auth middleware.
func actorFromRequest(r *http.Request) (usecase.Actor, bool) {
	p, ok := utils.PrincipalFromContext(r.Context())
	if !ok {
		return usecase.Actor{}, false
	}
	return usecase.Actor{ID: p.UserID, Role: permission.Role(p.Role)}, true
}
