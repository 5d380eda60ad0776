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

type TheaterRepository interface {
	Create(ctx context.Context, theater *entity.Theater) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Theater, error)
	Update(ctx context.Context, theater *entity.Theater) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, filter entity.TheaterFilter, params ListParams) ([]*entity.Theater, error)
	CountAll(ctx context.Context, filter entity.TheaterFilter) (int64, error)
}

type theaterRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTheaterRepository(db database.Querier, log *zap.Logger) TheaterRepository {
	return &theaterRepository{
		db:  db,
		log: log.With(zap.String("repository", "theater")),
	}
}

const theaterColumns = `id, name, slug, address, city, phone, is_active, created_at, updated_at, deleted_at`

func scanTheater(row pgx.Row) (*entity.Theater, error) {
	var t entity.Theater
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&t.Address,
		&t.City,
		&t.Phone,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *theaterRepository) Create(ctx context.Context, theater *entity.Theater) error {
	query := `
		INSERT INTO theaters (id, name, slug, address, city, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		theater.ID,
		theater.Name,
		theater.Slug,
		theater.Address,
		theater.City,
		theater.Phone,
		theater.IsActive,
		theater.CreatedAt,
		theater.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create theater",
			zap.Error(err),
			zap.String("slug", theater.Slug),
		)
		return fmt.Errorf("create theater: %w", translate(err))
	}

	return nil
}

func (r *theaterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error) {
	query := `SELECT ` + theaterColumns + ` FROM theaters WHERE id = $1 AND deleted_at IS NULL`

	theater, err := scanTheater(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theater by ID",
			zap.Error(err),
			zap.String("theater_id", id.String()),
		)
		return nil, fmt.Errorf("find theater %s: %w", id.String(), err)
	}

	return theater, nil
}

func (r *theaterRepository) FindBySlug(ctx context.Context, slug string) (*entity.Theater, error) {
	query := `SELECT ` + theaterColumns + ` FROM theaters WHERE slug = $1 AND deleted_at IS NULL`

	theater, err := scanTheater(r.db.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theater by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("find theater by slug %s: %w", slug, err)
	}

	return theater, nil
}

func (r *theaterRepository) Update(ctx context.Context, theater *entity.Theater) error {
	query := `
		UPDATE theaters
		SET name = $2, slug = $3, address = $4, city = $5, phone = $6, is_active = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		theater.ID,
		theater.Name,
		theater.Slug,
		theater.Address,
		theater.City,
		theater.Phone,
		theater.IsActive,
		theater.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update theater",
			zap.Error(err),
			zap.String("theater_id", theater.ID.String()),
		)
		return fmt.Errorf("update theater %s: %w", theater.ID.String(), translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("theater %s not found", theater.ID.String())
	}

	return nil
}

func (r *theaterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE theaters SET deleted_at = NOW(), is_active = FALSE WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete theater",
			zap.Error(err),
			zap.String("theater_id", id.String()),
		)
		return fmt.Errorf("delete theater %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("theater %s not found", id.String())
	}

	return nil
}

func theaterWhere(filter entity.TheaterFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(" WHERE deleted_at IS NULL")
	args := []any{}

	if filter.City != nil && *filter.City != "" {
		args = append(args, *filter.City)
		sb.WriteString(fmt.Sprintf(" AND LOWER(city) = LOWER($%d)", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		sb.WriteString(fmt.Sprintf(" AND is_active = $%d", len(args)))
	}
	if filter.Search != nil && *filter.Search != "" {
		args = append(args, "%"+*filter.Search+"%")
		sb.WriteString(fmt.Sprintf(" AND (name ILIKE $%d OR address ILIKE $%d)", len(args), len(args)))
	}

	return sb.String(), args
}

var theaterSortColumns = map[string]string{
	"name":       "name",
	"city":       "city",
	"created_at": "created_at",
}

func (r *theaterRepository) FindAll(ctx context.Context, filter entity.TheaterFilter, params ListParams) ([]*entity.Theater, error) {
	where, args := theaterWhere(filter)
	args = append(args, params.Limit, params.Offset)

	query := `SELECT ` + theaterColumns + ` FROM theaters` + where +
		` ORDER BY ` + params.orderBy(theaterSortColumns, "name") +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find theaters", zap.Error(err))
		return nil, fmt.Errorf("find theaters: %w", err)
	}
	defer rows.Close()

	var theaters []*entity.Theater
	for rows.Next() {
		theater, err := scanTheater(rows)
		if err != nil {
			return nil, fmt.Errorf("scan theater row: %w", err)
		}
		theaters = append(theaters, theater)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate theater rows: %w", err)
	}

	return theaters, nil
}

func (r *theaterRepository) CountAll(ctx context.Context, filter entity.TheaterFilter) (int64, error) {
	where, args := theaterWhere(filter)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM theaters`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count theaters", zap.Error(err))
		return 0, fmt.Errorf("count theaters: %w", err)
	}

	return total, nil
}
