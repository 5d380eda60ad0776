package usecase

import (
	"context"
	"fmt"
	"time"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/dto/response"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/queue"
	"cinema-backoffice/pkg/schedule"
	"cinema-backoffice/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

type ShowtimeService interface {
	GetShowtimes(ctx context.Context, req *request.ShowtimeListRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error)
	GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error)
	CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error)
	UpdateShowtime(ctx context.Context, showtimeID string, req *request.ShowtimeUpdateRequest) (*response.ShowtimeResponse, error)
	DeleteShowtime(ctx context.Context, showtimeID string) error
}

type showtimeService struct {
	repo      *repository.Repository
	publisher queue.Publisher
	clock     utils.Clock
	log       *zap.Logger
}

func NewShowtimeService(
	repo *repository.Repository,
	publisher queue.Publisher,
	clock utils.Clock,
	log *zap.Logger,
) ShowtimeService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &showtimeService{
		repo:      repo,
		publisher: publisher,
		clock:     clock,
		log:       log.With(zap.String("service", "showtime")),
	}
}

func (s *showtimeService) GetShowtimes(ctx context.Context, req *request.ShowtimeListRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, err
	}

	showtimes, err := s.repo.Showtime.FindAll(ctx, filter, listParams(req.PaginatedRequest))
	if err != nil {
		return nil, fmt.Errorf("get showtimes: %w", err)
	}

	total, err := s.repo.Showtime.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count showtimes: %w", err)
	}

	items := make([]response.ShowtimeResponse, len(showtimes))
	for i, st := range showtimes {
		items[i] = response.ShowtimeToResponse(st)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *showtimeService) buildFilter(req *request.ShowtimeListRequest) (entity.ShowtimeFilter, error) {
	var filter entity.ShowtimeFilter

	for _, f := range []struct {
		raw  *string
		dst  **uuid.UUID
		name string
	}{
		{req.MovieID, &filter.MovieID, "movie"},
		{req.StudioID, &filter.StudioID, "studio"},
		{req.TheaterID, &filter.TheaterID, "theater"},
	} {
		if f.raw == nil {
			continue
		}
		id, err := parseID(*f.raw, f.name)
		if err != nil {
			return filter, err
		}
		*f.dst = &id
	}

	if req.StartDate != nil {
		day, err := parseDate(*req.StartDate, "start_date")
		if err != nil {
			return filter, err
		}
		from := utils.StartOfDay(day)
		filter.StartFrom = &from
	}
	if req.EndDate != nil {
		day, err := parseDate(*req.EndDate, "end_date")
		if err != nil {
			return filter, err
		}
		until := utils.EndOfDay(day)
		filter.StartUntil = &until
	}
	if filter.StartFrom != nil && filter.StartUntil != nil && filter.StartFrom.After(*filter.StartUntil) {
		return filter, apperror.InvalidInput("start_date must not be after end_date")
	}

	if req.FutureOnly {
		now := s.clock.Now()
		if filter.StartFrom == nil || filter.StartFrom.Before(now) {
			filter.StartFrom = &now
		}
	}

	return filter, nil
}

func (s *showtimeService) GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error) {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return nil, err
	}

	detail, err := s.repo.Showtime.FindDetailByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if detail == nil {
		return nil, apperror.NotFound("Showtime not found")
	}

	resp := response.ShowtimeToResponse(detail)
	return &resp, nil
}

func (s *showtimeService) CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	movieID, err := parseID(req.MovieID, "movie")
	if err != nil {
		return nil, err
	}
	studioID, err := parseID(req.StudioID, "studio")
	if err != nil {
		return nil, err
	}
	start, err := s.futureStart(req.StartTime)
	if err != nil {
		return nil, err
	}

	var detail *entity.ShowtimeDetail
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		movie, err := activeMovie(ctx, tx, movieID)
		if err != nil {
			return err
		}

		studio, err := tx.Studio.FindByIDForUpdate(ctx, studioID)
		if err != nil {
			return err
		}
		if studio == nil {
			return apperror.NotFound("Studio not found")
		}

		window, err := schedule.NewWindow(start, movie.Duration)
		if err != nil {
			return err
		}
		if err := checkConflict(ctx, tx, studio.ID, window, uuid.Nil); err != nil {
			return err
		}

		price := studio.Price
		if req.Price != nil {
			price = *req.Price
		}

		now := s.clock.Now()
		showtime := &entity.Showtime{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			MovieID:      movie.ID,
			StudioID:     studio.ID,
			StartTime:    window.Start,
			EndTime:      window.End,
			Price:        price,
		}
		if err := tx.Showtime.Create(ctx, showtime); err != nil {
			return err
		}

		detail, err = tx.Showtime.FindDetailByID(ctx, showtime.ID)
		return err
	})
	if err != nil {
		s.logFailure("create showtime", err, zap.String("movie_id", req.MovieID), zap.String("studio_id", req.StudioID))
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("showtime vanished after create")
	}

	s.log.Info("Showtime created",
		zap.String("showtime_id", detail.ID.String()),
		zap.String("studio_id", detail.StudioID.String()),
		zap.Stringer("window", schedule.Window{Start: detail.StartTime, End: detail.EndTime}),
	)
	s.publish(ctx, queue.ShowtimeCreated, &detail.Showtime)

	resp := response.ShowtimeToResponse(detail)
	return &resp, nil
}

func (s *showtimeService) UpdateShowtime(ctx context.Context, showtimeID string, req *request.ShowtimeUpdateRequest) (*response.ShowtimeResponse, error) {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	var movieID, studioID *uuid.UUID
	if req.MovieID != nil {
		parsed, err := parseID(*req.MovieID, "movie")
		if err != nil {
			return nil, err
		}
		movieID = &parsed
	}
	if req.StudioID != nil {
		parsed, err := parseID(*req.StudioID, "studio")
		if err != nil {
			return nil, err
		}
		studioID = &parsed
	}
	var start *time.Time
	if req.StartTime != nil {
		parsed, err := s.futureStart(*req.StartTime)
		if err != nil {
			return nil, err
		}
		start = &parsed
	}

	var detail *entity.ShowtimeDetail
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		current, err := tx.Showtime.FindDetailByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NotFound("Showtime not found")
		}

		next := current.Showtime
		duration := current.Movie.Duration

		if movieID != nil {
			movie, err := activeMovie(ctx, tx, *movieID)
			if err != nil {
				return err
			}
			next.MovieID = movie.ID
			duration = movie.Duration
		}
		if start != nil {
			next.StartTime = *start
		}
		if studioID != nil {
			next.StudioID = *studioID
		}
		if req.Price != nil {
			next.Price = *req.Price
		}

		if movieID != nil || start != nil || studioID != nil {
			// a showtime may stay in a retired studio unless it is moved
			if studioID != nil {
				studio, err := tx.Studio.FindByIDForUpdate(ctx, next.StudioID)
				if err != nil {
					return err
				}
				if studio == nil {
					return apperror.NotFound("Studio not found")
				}
			} else if err := tx.Studio.Lock(ctx, next.StudioID); err != nil {
				return err
			}

			window := schedule.Window{Start: next.StartTime, End: next.EndTime}
			if movieID != nil || start != nil {
				if window, err = schedule.NewWindow(next.StartTime, duration); err != nil {
					return err
				}
				next.EndTime = window.End
			}

			if err := checkConflict(ctx, tx, next.StudioID, window, current.ID); err != nil {
				return err
			}
		}

		next.UpdatedAt = s.clock.Now()
		if err := tx.Showtime.Update(ctx, &next); err != nil {
			return err
		}

		detail, err = tx.Showtime.FindDetailByID(ctx, id)
		return err
	})
	if err != nil {
		s.logFailure("update showtime", err, zap.String("showtime_id", showtimeID))
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("showtime vanished after update")
	}

	s.log.Info("Showtime updated", zap.String("showtime_id", showtimeID))
	s.publish(ctx, queue.ShowtimeUpdated, &detail.Showtime)

	resp := response.ShowtimeToResponse(detail)
	return &resp, nil
}

func (s *showtimeService) DeleteShowtime(ctx context.Context, showtimeID string) error {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return err
	}

	var deleted *entity.Showtime
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		showtime, err := tx.Showtime.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if showtime == nil {
			return apperror.NotFound("Showtime not found")
		}

		s.log.Info("Deleting showtime",
			zap.String("showtime_id", showtimeID),
			zap.String("studio_id", showtime.StudioID.String()),
			zap.Time("start_time", showtime.StartTime),
		)

		if err := tx.Showtime.Delete(ctx, id); err != nil {
			return err
		}
		deleted = showtime
		return nil
	})
	if err != nil {
		s.logFailure("delete showtime", err, zap.String("showtime_id", showtimeID))
		return err
	}

	s.publish(ctx, queue.ShowtimeDeleted, deleted)
	return nil
}

// futureStart parses a start instant and requires it to lie after now.
func (s *showtimeService) futureStart(raw string) (time.Time, error) {
	start, err := schedule.ParseStart(raw)
	if err != nil {
		return time.Time{}, err
	}
	if !start.After(s.clock.Now()) {
		return time.Time{}, apperror.InvalidInput("Start time must be in the future")
	}
	return start, nil
}

func (s *showtimeService) publish(ctx context.Context, routingKey string, st *entity.Showtime) {
	ctx, cancel := detached(ctx, publishTimeout)
	defer cancel()

	event := queue.ShowtimeEvent{
		Type:       routingKey,
		ShowtimeID: st.ID.String(),
		MovieID:    st.MovieID.String(),
		StudioID:   st.StudioID.String(),
		StartTime:  st.StartTime,
		EndTime:    st.EndTime,
		Price:      st.Price,
		OccurredAt: s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.log.Warn("Failed to publish showtime event",
			zap.Error(err),
			zap.String("routing_key", routingKey),
			zap.String("showtime_id", event.ShowtimeID),
		)
	}
}

func (s *showtimeService) logFailure(operation string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.String("operation", operation))
	if apperror.KindOf(err) == apperror.KindInternal {
		s.log.Error("Failed to "+operation, fields...)
		return
	}
	s.log.Warn(operation+" rejected", fields...)
}

// activeMovie loads a movie that can be scheduled.
func activeMovie(ctx context.Context, tx *repository.Repository, id uuid.UUID) (*entity.Movie, error) {
	movie, err := tx.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, apperror.NotFound("Movie not found")
	}
	if !movie.IsActive {
		return nil, apperror.InvalidState("Movie is not active")
	}
	return movie, nil
}

// checkConflict fails when window overlaps another showtime of the studio.
func checkConflict(ctx context.Context, tx *repository.Repository, studioID uuid.UUID, window schedule.Window, exclude uuid.UUID) error {
	occupied, err := tx.Showtime.FindOverlapping(ctx, studioID, window.Start, window.End, exclude)
	if err != nil {
		return err
	}

	if occ, found := schedule.FirstConflict(occupied, window, exclude); found {
		return apperror.Conflict(fmt.Sprintf("Studio is not available. Conflict with %q (%s)", occ.Title, occ.Window))
	}
	return nil
}
