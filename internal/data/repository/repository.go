package repository

import (
	"context"

	"cinema-backoffice/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Session  SessionRepository
	Movie    MovieRepository
	Theater  TheaterRepository
	Studio   StudioRepository
	Showtime ShowtimeRepository

	tx Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.tx = &pgTransactor{db: db, log: log}
	return repo
}

func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(q, log),
		Session:  NewSessionRepository(q, log),
		Movie:    NewMovieRepository(q, log),
		Theater:  NewTheaterRepository(q, log),
		Studio:   NewStudioRepository(q, log),
		Showtime: NewShowtimeRepository(q, log),
	}
}

// WithinTx runs fn with repositories bound to a single transaction. It commits
// when fn returns nil and rolls back otherwise. A Repository that is already
// transaction-bound (or built without a Transactor) runs fn directly on itself.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.tx == nil {
		return fn(r)
	}
	return r.tx.WithinTx(ctx, fn)
}

// ListParams carries pagination and sorting into list queries. SortBy is
// matched against a per-table whitelist; unknown values fall back to the default.
type ListParams struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

func (p ListParams) orderBy(columns map[string]string, fallback string) string {
	column, ok := columns[p.SortBy]
	if !ok {
		column = fallback
	}
	if p.SortOrder == "desc" {
		return column + " DESC"
	}
	return column + " ASC"
}
