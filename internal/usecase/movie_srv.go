package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/internal/data/repository"
	"cinema-backoffice/internal/dto/request"
	"cinema-backoffice/internal/dto/response"
	"cinema-backoffice/pkg/apperror"
	"cinema-backoffice/pkg/storage"
	"cinema-backoffice/pkg/utils"

	"go.uber.org/zap"
)

type MovieService interface {
	GetMovies(ctx context.Context, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID string) error
	// UploadPoster stores image as the movie poster and replaces any earlier upload.
	UploadPoster(ctx context.Context, movieID string, image []byte) (*response.MovieResponse, error)
}

const posterFolder = "movie-posters"

type movieService struct {
	repo   *repository.Repository
	images storage.ImageStore
	clock  utils.Clock
	log    *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	images storage.ImageStore,
	clock utils.Clock,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:   repo,
		images: images,
		clock:  clock,
		log:    log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, req *request.MovieListRequest) (*response.PaginatedResponse[response.MovieResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := entity.MovieFilter{
		Genre:    req.Genre,
		Rating:   req.Rating,
		IsActive: req.IsActive,
		Search:   req.Search,
	}

	movies, err := s.repo.Movie.FindAll(ctx, filter, listParams(req.PaginatedRequest))
	if err != nil {
		return nil, fmt.Errorf("get movies: %w", err)
	}

	total, err := s.repo.Movie.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	items := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		items[i] = response.MovieToResponse(movie)
	}

	s.log.Debug("Movies retrieved",
		zap.Int("count", len(movies)),
		zap.Int64("total", total),
		zap.Int("page", req.Page),
	)

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	releaseDate, err := parseDate(req.ReleaseDate, "release_date")
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if err := s.ensureTitleFree(ctx, title, nil); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	movie := &entity.Movie{
		Base:        entity.NewBase(s.clock.Now()),
		Title:       title,
		Description: req.Description,
		Genres:      req.Genres,
		Duration:    req.Duration,
		Rating:      entity.MovieRating(req.Rating),
		ReleaseDate: releaseDate,
		PosterURL:   req.PosterURL,
		IsActive:    isActive,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if !strings.EqualFold(title, movie.Title) {
			if err := s.ensureTitleFree(ctx, title, movie); err != nil {
				return nil, err
			}
		}
		movie.Title = title
	}
	if req.Description != nil {
		movie.Description = req.Description
	}
	if req.Genres != nil {
		movie.Genres = *req.Genres
	}
	if req.Duration != nil {
		movie.Duration = *req.Duration
	}
	if req.Rating != nil {
		movie.Rating = entity.MovieRating(*req.Rating)
	}
	if req.ReleaseDate != nil {
		releaseDate, err := parseDate(*req.ReleaseDate, "release_date")
		if err != nil {
			return nil, err
		}
		movie.ReleaseDate = releaseDate
	}
	var replacedKey *string
	if req.PosterURL != nil {
		movie.PosterURL = req.PosterURL
		replacedKey, movie.PosterKey = movie.PosterKey, nil
	}
	if req.IsActive != nil {
		movie.IsActive = *req.IsActive
	}
	movie.UpdatedAt = s.clock.Now()

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}

	s.log.Info("Movie updated", zap.String("movie_id", movieID))
	s.removeImage(ctx, replacedKey)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return err
	}

	if err := s.repo.Movie.Delete(ctx, movie.ID); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	s.log.Info("Movie deleted", zap.String("movie_id", movieID))
	return nil
}

func (s *movieService) UploadPoster(ctx context.Context, movieID string, image []byte) (*response.MovieResponse, error) {
	movie, err := s.findMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	if _, _, err := storage.CheckImage(image); err != nil {
		if errors.Is(err, storage.ErrEmptyImage) {
			return nil, apperror.InvalidInput("Poster file is required")
		}
		return nil, apperror.Validation(map[string]string{
			"poster": "Invalid file. Must be JPEG, PNG, or WebP and less than 5MB",
		})
	}

	stored, err := s.images.Put(ctx, posterFolder, image)
	if err != nil {
		return nil, fmt.Errorf("store poster: %w", err)
	}

	previous := movie.PosterKey
	movie.PosterURL = &stored.URL
	movie.PosterKey = &stored.Key
	movie.UpdatedAt = s.clock.Now()

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		s.removeImage(ctx, &stored.Key)
		return nil, fmt.Errorf("update movie poster: %w", err)
	}

	s.log.Info("Movie poster uploaded",
		zap.String("movie_id", movieID),
		zap.String("key", stored.Key),
	)
	s.removeImage(ctx, previous)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

// removeImage deletes a stored image. Failures only leave an orphaned file.
func (s *movieService) removeImage(ctx context.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := s.images.Delete(ctx, *key); err != nil {
		s.log.Warn("Failed to delete stored image", zap.Error(err), zap.String("key", *key))
	}
}

func (s *movieService) findMovie(ctx context.Context, movieID string) (*entity.Movie, error) {
	id, err := parseID(movieID, "movie")
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if movie == nil {
		return nil, apperror.NotFound("Movie not found")
	}
	return movie, nil
}

func (s *movieService) ensureTitleFree(ctx context.Context, title string, self *entity.Movie) error {
	existing, err := s.repo.Movie.FindByTitle(ctx, title)
	if err != nil {
		return fmt.Errorf("check movie title: %w", err)
	}
	if existing != nil && (self == nil || existing.ID != self.ID) {
		return apperror.Conflict("Movie with this title already exists")
	}
	return nil
}
