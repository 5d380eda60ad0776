package repository

import (
	"context"
	"errors"
	"fmt"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StudioRepository interface {
	Create(ctx context.Context, studio *entity.Studio) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Studio, error)
	// FindByIDForUpdate locks the studio row until the surrounding transaction
	// ends. Outside a transaction the lock is released immediately.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Studio, error)
	// Lock takes the same row lock without filtering soft-deleted studios.
	Lock(ctx context.Context, id uuid.UUID) error
	FindByTheaterID(ctx context.Context, theaterID uuid.UUID) ([]*entity.Studio, error)
	Update(ctx context.Context, studio *entity.Studio) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTheaterID(ctx context.Context, theaterID uuid.UUID) (int64, error)
}

type studioRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewStudioRepository(db database.Querier, log *zap.Logger) StudioRepository {
	return &studioRepository{
		db:  db,
		log: log.With(zap.String("repository", "studio")),
	}
}

const studioColumns = `s.id, s.theater_id, s.name, s.capacity, s.price, s.created_at, s.updated_at, s.deleted_at`

func scanStudio(row pgx.Row) (*entity.Studio, error) {
	var s entity.Studio
	err := row.Scan(
		&s.ID,
		&s.TheaterID,
		&s.Name,
		&s.Capacity,
		&s.Price,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studioRepository) Create(ctx context.Context, studio *entity.Studio) error {
	query := `
		INSERT INTO studios (id, theater_id, name, capacity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		studio.ID,
		studio.TheaterID,
		studio.Name,
		studio.Capacity,
		studio.Price,
		studio.CreatedAt,
		studio.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create studio",
			zap.Error(err),
			zap.String("theater_id", studio.TheaterID.String()),
			zap.String("name", studio.Name),
		)
		return fmt.Errorf("create studio: %w", translate(err))
	}

	return nil
}

func (r *studioRepository) findOne(ctx context.Context, id uuid.UUID, lock bool) (*entity.Studio, error) {
	query := `
		SELECT ` + studioColumns + `
		FROM studios s
		JOIN theaters t ON t.id = s.theater_id AND t.deleted_at IS NULL
		WHERE s.id = $1 AND s.deleted_at IS NULL
	`
	if lock {
		query += ` FOR UPDATE OF s`
	}

	studio, err := scanStudio(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find studio by ID",
			zap.Error(err),
			zap.String("studio_id", id.String()),
			zap.Bool("lock", lock),
		)
		return nil, fmt.Errorf("find studio %s: %w", id.String(), err)
	}

	return studio, nil
}

func (r *studioRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Studio, error) {
	return r.findOne(ctx, id, false)
}

func (r *studioRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Studio, error) {
	return r.findOne(ctx, id, true)
}

func (r *studioRepository) Lock(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM studios WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("studio %s not found", id.String())
	}
	if err != nil {
		r.log.Error("Failed to lock studio",
			zap.Error(err),
			zap.String("studio_id", id.String()),
		)
		return fmt.Errorf("lock studio %s: %w", id.String(), err)
	}

	return nil
}

func (r *studioRepository) FindByTheaterID(ctx context.Context, theaterID uuid.UUID) ([]*entity.Studio, error) {
	query := `
		SELECT ` + studioColumns + `
		FROM studios s
		WHERE s.theater_id = $1 AND s.deleted_at IS NULL
		ORDER BY s.name ASC
	`

	rows, err := r.db.Query(ctx, query, theaterID)
	if err != nil {
		r.log.Error("Failed to find studios by theater",
			zap.Error(err),
			zap.String("theater_id", theaterID.String()),
		)
		return nil, fmt.Errorf("find studios of theater %s: %w", theaterID.String(), err)
	}
	defer rows.Close()

	var studios []*entity.Studio
	for rows.Next() {
		studio, err := scanStudio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan studio row: %w", err)
		}
		studios = append(studios, studio)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate studio rows: %w", err)
	}

	return studios, nil
}

func (r *studioRepository) Update(ctx context.Context, studio *entity.Studio) error {
	query := `
		UPDATE studios
		SET name = $2, capacity = $3, price = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		studio.ID,
		studio.Name,
		studio.Capacity,
		studio.Price,
		studio.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update studio",
			zap.Error(err),
			zap.String("studio_id", studio.ID.String()),
		)
		return fmt.Errorf("update studio %s: %w", studio.ID.String(), translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("studio %s not found", studio.ID.String())
	}

	return nil
}

func (r *studioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `UPDATE studios SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		r.log.Error("Failed to delete studio",
			zap.Error(err),
			zap.String("studio_id", id.String()),
		)
		return fmt.Errorf("delete studio %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("studio %s not found", id.String())
	}

	return nil
}

func (r *studioRepository) DeleteByTheaterID(ctx context.Context, theaterID uuid.UUID) (int64, error) {
	query := `UPDATE studios SET deleted_at = NOW() WHERE theater_id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, theaterID)
	if err != nil {
		r.log.Error("Failed to delete studios of theater",
			zap.Error(err),
			zap.String("theater_id", theaterID.String()),
		)
		return 0, fmt.Errorf("delete studios of theater %s: %w", theaterID.String(), err)
	}

	return result.RowsAffected(), nil
}
