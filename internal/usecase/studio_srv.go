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

// StudioService manages studios. Every operation is scoped to a theater.
type StudioService interface {
	GetStudios(ctx context.Context, theaterID string) ([]response.StudioResponse, error)
	GetStudioByID(ctx context.Context, theaterID, studioID string) (*response.StudioResponse, error)
	CreateStudio(ctx context.Context, theaterID string, req *request.StudioRequest) (*response.StudioResponse, error)
	UpdateStudio(ctx context.Context, theaterID, studioID string, req *request.StudioUpdateRequest) (*response.StudioResponse, error)
	DeleteStudio(ctx context.Context, theaterID, studioID string) error
}

type studioService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewStudioService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) StudioService {
	return &studioService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "studio")),
	}
}

func (s *studioService) GetStudios(ctx context.Context, theaterID string) ([]response.StudioResponse, error) {
	theater, err := findTheater(ctx, s.repo, theaterID)
	if err != nil {
		return nil, err
	}

	studios, err := s.repo.Studio.FindByTheaterID(ctx, theater.ID)
	if err != nil {
		return nil, fmt.Errorf("get studios: %w", err)
	}

	items := make([]response.StudioResponse, len(studios))
	for i, studio := range studios {
		items[i] = response.StudioToResponse(studio)
	}
	return items, nil
}

func (s *studioService) GetStudioByID(ctx context.Context, theaterID, studioID string) (*response.StudioResponse, error) {
	_, studio, err := s.findStudio(ctx, theaterID, studioID)
	if err != nil {
		return nil, err
	}

	resp := response.StudioToResponse(studio)
	return &resp, nil
}

func (s *studioService) CreateStudio(ctx context.Context, theaterID string, req *request.StudioRequest) (*response.StudioResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	theater, err := findTheater(ctx, s.repo, theaterID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, theater, name, nil); err != nil {
		return nil, err
	}

	studio := &entity.Studio{
		Base:      entity.NewBase(s.clock.Now()),
		TheaterID: theater.ID,
		Name:      name,
		Capacity:  req.Capacity,
		Price:     req.Price,
	}

	if err := s.repo.Studio.Create(ctx, studio); err != nil {
		return nil, fmt.Errorf("create studio: %w", err)
	}

	s.log.Info("Studio created",
		zap.String("studio_id", studio.ID.String()),
		zap.String("theater_id", theater.ID.String()),
	)

	resp := response.StudioToResponse(studio)
	return &resp, nil
}

func (s *studioService) UpdateStudio(ctx context.Context, theaterID, studioID string, req *request.StudioUpdateRequest) (*response.StudioResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	theater, studio, err := s.findStudio(ctx, theaterID, studioID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(name, studio.Name) {
			if err := s.ensureNameFree(ctx, theater, name, studio); err != nil {
				return nil, err
			}
		}
		studio.Name = name
	}
	if req.Capacity != nil {
		studio.Capacity = *req.Capacity
	}
	if req.Price != nil {
		studio.Price = *req.Price
	}
	studio.UpdatedAt = s.clock.Now()

	if err := s.repo.Studio.Update(ctx, studio); err != nil {
		return nil, fmt.Errorf("update studio: %w", err)
	}

	resp := response.StudioToResponse(studio)
	return &resp, nil
}

func (s *studioService) DeleteStudio(ctx context.Context, theaterID, studioID string) error {
	_, studio, err := s.findStudio(ctx, theaterID, studioID)
	if err != nil {
		return err
	}

	if err := s.repo.Studio.Delete(ctx, studio.ID); err != nil {
		return fmt.Errorf("delete studio: %w", err)
	}

	s.log.Info("Studio deleted", zap.String("studio_id", studioID))
	return nil
}

func (s *studioService) findStudio(ctx context.Context, theaterID, studioID string) (*entity.Theater, *entity.Studio, error) {
	theater, err := findTheater(ctx, s.repo, theaterID)
	if err != nil {
		return nil, nil, err
	}

	id, err := parseID(studioID, "studio")
	if err != nil {
		return nil, nil, err
	}

	studio, err := s.repo.Studio.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get studio: %w", err)
	}
	if studio == nil || studio.TheaterID != theater.ID {
		return nil, nil, apperror.NotFound("Studio not found")
	}
	return theater, studio, nil
}

func (s *studioService) ensureNameFree(ctx context.Context, theater *entity.Theater, name string, self *entity.Studio) error {
	studios, err := s.repo.Studio.FindByTheaterID(ctx, theater.ID)
	if err != nil {
		return fmt.Errorf("check studio name: %w", err)
	}
	for _, other := range studios {
		if strings.EqualFold(other.Name, name) && (self == nil || other.ID != self.ID) {
			return apperror.Conflict("Studio with this name already exists in the theater")
		}
	}
	return nil
}
