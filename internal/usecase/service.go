package usecase

import (
	"context"
	"time"

	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/permission"
	"cinema-backoffice/pkg/queue"
	"cinema-backoffice/pkg/storage"
	"cinema-backoffice/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Staff    StaffService
	Movie    MovieService
	Theater  TheaterService
	Studio   StudioService
	Showtime ShowtimeService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	publisher queue.Publisher,
	images storage.ImageStore,
	clock utils.Clock,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, clock, log),
		Staff:    NewStaffService(repo, clock, log),
		Movie:    NewMovieService(repo, images, clock, log),
		Theater:  NewTheaterService(repo, clock, log),
		Studio:   NewStudioService(repo, clock, log),
		Showtime: NewShowtimeService(repo, publisher, clock, log),
	}
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role permission.Role
}

func parseID(raw, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.InvalidInput("Invalid " + resource + " ID")
	}
	return id, nil
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.Validation(errs)
	}
	return nil
}

func listParams(req request.PaginatedRequest) repository.ListParams {
	return repository.ListParams{
		Limit:     req.Limit(),
		Offset:    req.Offset(),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
}

func parseDate(raw, field string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apperror.Validation(map[string]string{field: "Must match format 2006-01-02"})
	}
	return t, nil
}

// detached keeps request values but survives cancellation of the request, so
// post-commit side effects are not cut short by a client disconnect.
func detached(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
