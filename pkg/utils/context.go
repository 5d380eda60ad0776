package utils

import (
	"context"

	"github.com/google/uuid"
)

type principalKey struct{}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID uuid.UUID
	Role   string
	Email  string
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role, email string) context.Context {
	return context.WithValue(ctx, principalKey{}, Principal{UserID: userID, Role: role, Email: email})
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID == uuid.Nil {
		return Principal{}, false
	}
	return p, true
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	p, ok := PrincipalFromContext(ctx)
	return p.UserID, ok
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.Role == "" {
		return "", false
	}
	return p.Role, true
}
