package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinema-backoffice/internal/data/entity"
	"cinema-backoffice/pkg/database"
	"cinema-backoffice/pkg/schedule"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *entity.Showtime) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.ShowtimeDetail, error)
	FindAll(ctx context.Context, filter entity.ShowtimeFilter, params ListParams) ([]*entity.ShowtimeDetail, error)
	CountAll(ctx context.Context, filter entity.ShowtimeFilter) (int64, error)
	// FindOverlapping returns showtimes of the studio whose window intersects
	// [start, end). The showtime with ID exclude is left out unless exclude is uuid.Nil.
	FindOverlapping(ctx context.Context, studioID uuid.UUID, start, end time.Time, exclude uuid.UUID) ([]schedule.Occupancy, error)
	Update(ctx context.Context, showtime *entity.Showtime) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type showtimeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewShowtimeRepository(db database.Querier, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

// Referenced rows are joined without soft-delete filters so that a showtime
// keeps rendering after its movie or studio is retired.
const showtimeDetailSelect = `
	SELECT st.id, st.movie_id, st.studio_id, st.start_time, st.end_time, st.price,
	       st.created_at, st.updated_at,
	       m.id, m.title, m.duration, m.rating, m.poster_url,
	       s.id, s.name, s.capacity,
	       t.id, t.name, t.city
	FROM showtimes st
	JOIN movies m ON m.id = st.movie_id
	JOIN studios s ON s.id = st.studio_id
	JOIN theaters t ON t.id = s.theater_id
`

func scanShowtimeDetail(row pgx.Row) (*entity.ShowtimeDetail, error) {
	var d entity.ShowtimeDetail
	err := row.Scan(
		&d.ID,
		&d.MovieID,
		&d.StudioID,
		&d.StartTime,
		&d.EndTime,
		&d.Price,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.Movie.ID,
		&d.Movie.Title,
		&d.Movie.Duration,
		&d.Movie.Rating,
		&d.Movie.PosterURL,
		&d.Studio.ID,
		&d.Studio.Name,
		&d.Studio.Capacity,
		&d.Theater.ID,
		&d.Theater.Name,
		&d.Theater.City,
	)
	if err != nil {
		return nil, err
	}
	d.StartTime = d.StartTime.UTC()
	d.EndTime = d.EndTime.UTC()
	return &d, nil
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		INSERT INTO showtimes (id, movie_id, studio_id, start_time, end_time, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.StudioID,
		showtime.StartTime,
		showtime.EndTime,
		showtime.Price,
		showtime.CreatedAt,
		showtime.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("studio_id", showtime.StudioID.String()),
			zap.Time("start_time", showtime.StartTime),
		)
		return fmt.Errorf("create showtime: %w", translate(err))
	}

	return nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	query := `
		SELECT id, movie_id, studio_id, start_time, end_time, price, created_at, updated_at
		FROM showtimes
		WHERE id = $1
	`

	var st entity.Showtime
	err := r.db.QueryRow(ctx, query, id).Scan(
		&st.ID,
		&st.MovieID,
		&st.StudioID,
		&st.StartTime,
		&st.EndTime,
		&st.Price,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime %s: %w", id.String(), err)
	}

	st.StartTime = st.StartTime.UTC()
	st.EndTime = st.EndTime.UTC()
	return &st, nil
}

func (r *showtimeRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.ShowtimeDetail, error) {
	detail, err := scanShowtimeDetail(r.db.QueryRow(ctx, showtimeDetailSelect+` WHERE st.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime detail",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime detail %s: %w", id.String(), err)
	}

	return detail, nil
}

func showtimeWhere(filter entity.ShowtimeFilter) (string, []any) {
	var conds []string
	args := []any{}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.MovieID != nil {
		add("st.movie_id = $%d", *filter.MovieID)
	}
	if filter.StudioID != nil {
		add("st.studio_id = $%d", *filter.StudioID)
	}
	if filter.TheaterID != nil {
		add("s.theater_id = $%d", *filter.TheaterID)
	}
	if filter.StartFrom != nil {
		add("st.start_time >= $%d", *filter.StartFrom)
	}
	if filter.StartUntil != nil {
		add("st.start_time <= $%d", *filter.StartUntil)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var showtimeSortColumns = map[string]string{
	"start_time": "st.start_time",
	"price":      "st.price",
	"created_at": "st.created_at",
}

func (r *showtimeRepository) FindAll(ctx context.Context, filter entity.ShowtimeFilter, params ListParams) ([]*entity.ShowtimeDetail, error) {
	where, args := showtimeWhere(filter)
	args = append(args, params.Limit, params.Offset)

	query := showtimeDetailSelect + where +
		` ORDER BY ` + params.orderBy(showtimeSortColumns, "st.start_time") + `, st.id` +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find showtimes",
			zap.Error(err),
			zap.Int("limit", params.Limit),
			zap.Int("offset", params.Offset),
		)
		return nil, fmt.Errorf("find showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*entity.ShowtimeDetail
	for rows.Next() {
		detail, err := scanShowtimeDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate showtime rows: %w", err)
	}

	return showtimes, nil
}

func (r *showtimeRepository) CountAll(ctx context.Context, filter entity.ShowtimeFilter) (int64, error) {
	where, args := showtimeWhere(filter)
	query := `SELECT COUNT(*) FROM showtimes st JOIN studios s ON s.id = st.studio_id` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count showtimes", zap.Error(err))
		return 0, fmt.Errorf("count showtimes: %w", err)
	}

	return total, nil
}

func (r *showtimeRepository) FindOverlapping(ctx context.Context, studioID uuid.UUID, start, end time.Time, exclude uuid.UUID) ([]schedule.Occupancy, error) {
	query := `
		SELECT st.id, m.title, st.start_time, st.end_time
		FROM showtimes st
		JOIN movies m ON m.id = st.movie_id
		WHERE st.studio_id = $1
		  AND st.start_time < $3
		  AND st.end_time > $2
		  AND ($4::uuid = '00000000-0000-0000-0000-000000000000'::uuid OR st.id <> $4)
		ORDER BY st.start_time ASC
	`

	rows, err := r.db.Query(ctx, query, studioID, start, end, exclude)
	if err != nil {
		r.log.Error("Failed to find overlapping showtimes",
			zap.Error(err),
			zap.String("studio_id", studioID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping showtimes: %w", err)
	}
	defer rows.Close()

	var occupied []schedule.Occupancy
	for rows.Next() {
		var occ schedule.Occupancy
		if err := rows.Scan(&occ.ID, &occ.Title, &occ.Window.Start, &occ.Window.End); err != nil {
			return nil, fmt.Errorf("scan overlapping showtime: %w", err)
		}
		occ.Window.Start = occ.Window.Start.UTC()
		occ.Window.End = occ.Window.End.UTC()
		occupied = append(occupied, occ)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overlapping showtimes: %w", err)
	}

	return occupied, nil
}

func (r *showtimeRepository) Update(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		UPDATE showtimes
		SET movie_id = $2, studio_id = $3, start_time = $4, end_time = $5, price = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.StudioID,
		showtime.StartTime,
		showtime.EndTime,
		showtime.Price,
		showtime.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update showtime",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
		)
		return fmt.Errorf("update showtime %s: %w", showtime.ID.String(), translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s not found", showtime.ID.String())
	}

	return nil
}

func (r *showtimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete showtime",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return fmt.Errorf("delete showtime %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s not found", id.String())
	}

	return nil
}
