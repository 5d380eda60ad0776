package repository

import (
	"errors"

	"cinema-backoffice/pkg/apperror"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// constraint name -> caller-facing message
var constraintMessages = map[string]string{
	"users_email_key":          "User with this email already exists",
	"movies_title_key":         "Movie with this title already exists",
	"theaters_slug_key":        "Theater with this name already exists",
	"studios_theater_name_key": "Studio with this name already exists in the theater",
	"showtimes_no_overlap":     "Studio is not available. Conflict with an existing showtime",
}

// translate maps constraint violations to conflict errors and leaves everything
// else untouched.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation:
		if msg, ok := constraintMessages[pgErr.ConstraintName]; ok {
			return apperror.Conflict(msg)
		}
		return apperror.Conflict("Resource already exists")
	case pgerrcode.ForeignKeyViolation:
		return apperror.InvalidState("Referenced resource does not exist")
	}

	return err
}
