package entity

import (
	"time"

	"cinema-backoffice/pkg/permission"
)

type User struct {
	Base
	Email        string          `db:"email"`
	PasswordHash string          `db:"password"`
	Name         string          `db:"name"`
	Role         permission.Role `db:"role"`
	IsActive     bool            `db:"is_active"`
	LastLoginAt  *time.Time      `db:"last_login_at"`
}

// UserFilter narrows staff listings. Nil fields are ignored.
type UserFilter struct {
	Role     *string
	Search   *string
	IsActive *bool
}
