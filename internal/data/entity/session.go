package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a refresh-token grant. Only the SHA-256 of the token is stored.
type Session struct {
	BaseSimple
	UserID     uuid.UUID  `db:"user_id"`
	TokenHash  string     `db:"token_hash"`
	RememberMe bool       `db:"remember_me"`
	UserAgent  *string    `db:"user_agent"`
	IPAddress  *string    `db:"ip_address"`
	ExpiresAt  time.Time  `db:"expires_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
}
