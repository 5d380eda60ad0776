package middleware

import (
	"net/http"
	"strings"

	"cinema-backoffice/pkg/permission"
	"cinema-backoffice/pkg/utils"

	"go.uber.org/zap"
)

// Auth verifies the bearer access token and stores the caller in the request context.
func Auth(cfg utils.JWTConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := utils.ParseAccessToken(cfg, strings.TrimSpace(token))
			if err != nil {
				logger.Debug("Rejected access token", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			// checked by ParseAccessToken
			userID, _ := claims.UserID()

			ctx := utils.SetUserContext(r.Context(), userID, claims.Role, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission rejects callers whose role does not grant perm. It must run after Auth.
func RequirePermission(perm permission.Permission, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !permission.Has(permission.Role(role), perm) {
				userID, _ := utils.GetUserIDFromContext(r.Context())
				logger.Warn("Permission denied",
					zap.String("user_id", userID.String()),
					zap.String("role", role),
					zap.String("permission", string(perm)),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
