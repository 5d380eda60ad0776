package usecase

import (
	"context"
	"fmt"
	"strings"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/dto/response"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/utils"

	"go.uber.org/zap"
)

type TheaterService interface {
	GetTheaters(ctx context.Context, req *request.TheaterListRequest) (*response.PaginatedResponse[response.TheaterResponse], error)
	GetTheaterByID(ctx context.Context, theaterID string) (*response.TheaterDetailResponse, error)
	CreateTheater(ctx context.Context, req *request.TheaterRequest) (*response.TheaterResponse, error)
	UpdateTheater(ctx context.Context, theaterID string, req *request.TheaterUpdateRequest) (*response.TheaterResponse, error)
	DeleteTheater(ctx context.Context, theaterID string) error
}

type theaterService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewTheaterService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) TheaterService {
	return &theaterService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "theater")),
	}
}

func (s *theaterService) GetTheaters(ctx context.Context, req *request.TheaterListRequest) (*response.PaginatedResponse[response.TheaterResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := entity.TheaterFilter{
		City:     req.City,
		Search:   req.Search,
		IsActive: req.IsActive,
	}

	theaters, err := s.repo.Theater.FindAll(ctx, filter, listParams(req.PaginatedRequest))
	if err != nil {
		return nil, fmt.Errorf("get theaters: %w", err)
	}

	total, err := s.repo.Theater.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count theaters: %w", err)
	}

	items := make([]response.TheaterResponse, len(theaters))
	for i, theater := range theaters {
		items[i] = response.TheaterToResponse(theater)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *theaterService) GetTheaterByID(ctx context.Context, theaterID string) (*response.TheaterDetailResponse, error) {
	theater, err := findTheater(ctx, s.repo, theaterID)
	if err != nil {
		return nil, err
	}

	studios, err := s.repo.Studio.FindByTheaterID(ctx, theater.ID)
	if err != nil {
		return nil, fmt.Errorf("get studios: %w", err)
	}

	resp := response.TheaterToDetailResponse(theater, studios)
	return &resp, nil
}

func (s *theaterService) CreateTheater(ctx context.Context, req *request.TheaterRequest) (*response.TheaterResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	slug, err := s.freeSlug(ctx, name, nil)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	theater := &entity.Theater{
		Base:     entity.NewBase(s.clock.Now()),
		Name:     name,
		Slug:     slug,
		Address:  strings.TrimSpace(req.Address),
		City:     strings.TrimSpace(req.City),
		Phone:    req.Phone,
		IsActive: isActive,
	}

	if err := s.repo.Theater.Create(ctx, theater); err != nil {
		return nil, fmt.Errorf("create theater: %w", err)
	}

	s.log.Info("Theater created",
		zap.String("theater_id", theater.ID.String()),
		zap.String("slug", theater.Slug),
	)

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

func (s *theaterService) UpdateTheater(ctx context.Context, theaterID string, req *request.TheaterUpdateRequest) (*response.TheaterResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	theater, err := findTheater(ctx, s.repo, theaterID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != theater.Name {
			slug, err := s.freeSlug(ctx, name, theater)
			if err != nil {
				return nil, err
			}
			theater.Name = name
			theater.Slug = slug
		}
	}
	if req.Address != nil {
		theater.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		theater.City = strings.TrimSpace(*req.City)
	}
	if req.Phone != nil {
		theater.Phone = req.Phone
	}
	if req.IsActive != nil {
		theater.IsActive = *req.IsActive
	}
	theater.UpdatedAt = s.clock.Now()

	if err := s.repo.Theater.Update(ctx, theater); err != nil {
		return nil, fmt.Errorf("update theater: %w", err)
	}

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

// DeleteTheater retires the theater together with its studios.
func (s *theaterService) DeleteTheater(ctx context.Context, theaterID string) error {
	id, err := parseID(theaterID, "theater")
	if err != nil {
		return err
	}

	var studios int64
	err = s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		theater, err := tx.Theater.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if theater == nil {
			return apperror.NotFound("Theater not found")
		}

		if studios, err = tx.Studio.DeleteByTheaterID(ctx, id); err != nil {
			return err
		}
		return tx.Theater.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("Theater deleted",
		zap.String("theater_id", theaterID),
		zap.Int64("studios", studios),
	)
	return nil
}

func (s *theaterService) freeSlug(ctx context.Context, name string, self *entity.Theater) (string, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		return "", apperror.Validation(map[string]string{"name": "Must contain letters or digits"})
	}

	existing, err := s.repo.Theater.FindBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("check theater slug: %w", err)
	}
	if existing != nil && (self == nil || existing.ID != self.ID) {
		return "", apperror.Conflict("Theater with this name already exists")
	}
	return slug, nil
}

func findTheater(ctx context.Context, repo *repository.Repository, theaterID string) (*entity.Theater, error) {
	id, err := parseID(theaterID, "theater")
	if err != nil {
		return nil, err
	}

	theater, err := repo.Theater.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get theater: %w", err)
	}
	if theater == nil {
		return nil, apperror.NotFound("Theater not found")
	}
	return theater, nil
}
