package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	FindByTitle(ctx context.Context, title string) (*entity.Movie, error)
	Update(ctx context.Context, movie *entity.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, filter entity.MovieFilter, params ListParams) ([]*entity.Movie, error)
	CountAll(ctx context.Context, filter entity.MovieFilter) (int64, error)
}

type movieRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewMovieRepository(db database.Querier, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `id, title, description, genres, duration, rating, release_date, poster_url,
	poster_key, is_active, created_at, updated_at, deleted_at`

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Genres,
		&movie.Duration,
		&movie.Rating,
		&movie.ReleaseDate,
		&movie.PosterURL,
		&movie.PosterKey,
		&movie.IsActive,
		&movie.CreatedAt,
		&movie.UpdatedAt,
		&movie.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	query := `
		INSERT INTO movies (id, title, description, genres, duration, rating, release_date,
		                    poster_url, poster_key, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.Genres,
		movie.Duration,
		movie.Rating,
		movie.ReleaseDate,
		movie.PosterURL,
		movie.PosterKey,
		movie.IsActive,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.Title),
		)
		return fmt.Errorf("create movie: %w", translate(err))
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1 AND deleted_at IS NULL`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("find movie %s: %w", id.String(), err)
	}

	return movie, nil
}

func (r *movieRepository) FindByTitle(ctx context.Context, title string) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE LOWER(title) = LOWER($1) AND deleted_at IS NULL`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, title))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by title", zap.Error(err), zap.String("title", title))
		return nil, fmt.Errorf("find movie by title: %w", err)
	}

	return movie, nil
}

func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, description = $3, genres = $4, duration = $5, rating = $6,
		    release_date = $7, poster_url = $8, poster_key = $9, is_active = $10, updated_at = $11
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.Title,
		movie.Description,
		movie.Genres,
		movie.Duration,
		movie.Rating,
		movie.ReleaseDate,
		movie.PosterURL,
		movie.PosterKey,
		movie.IsActive,
		movie.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID.String()),
		)
		return fmt.Errorf("update movie %s: %w", movie.ID.String(), translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %s not found", movie.ID.String())
	}

	return nil
}

func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE movies SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("delete movie %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("movie %s not found", id.String())
	}

	return nil
}

func movieWhere(filter entity.MovieFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(" WHERE deleted_at IS NULL")
	args := []any{}

	if filter.Genre != nil && *filter.Genre != "" {
		args = append(args, *filter.Genre)
		sb.WriteString(fmt.Sprintf(" AND $%d = ANY(genres)", len(args)))
	}
	if filter.Rating != nil && *filter.Rating != "" {
		args = append(args, *filter.Rating)
		sb.WriteString(fmt.Sprintf(" AND rating = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		sb.WriteString(fmt.Sprintf(" AND is_active = $%d", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		sb.WriteString(fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	return sb.String(), args
}

var movieSortColumns = map[string]string{
	"title":        "title",
	"release_date": "release_date",
	"created_at":   "created_at",
	"duration":     "duration",
}

func (r *movieRepository) FindAll(ctx context.Context, filter entity.MovieFilter, params ListParams) ([]*entity.Movie, error) {
	where, args := movieWhere(filter)
	args = append(args, params.Limit, params.Offset)

	query := `SELECT ` + movieColumns + ` FROM movies` + where +
		` ORDER BY ` + params.orderBy(movieSortColumns, "created_at") +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find movies",
			zap.Error(err),
			zap.Int("limit", params.Limit),
			zap.Int("offset", params.Offset),
		)
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer rows.Close()

	var movies []*entity.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			r.log.Error("Failed to scan movie row", zap.Error(err))
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}

	return movies, nil
}

func (r *movieRepository) CountAll(ctx context.Context, filter entity.MovieFilter) (int64, error) {
	where, args := movieWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM movies`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return 0, fmt.Errorf("count movies: %w", err)
	}

	return total, nil
}
