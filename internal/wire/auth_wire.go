package wire

import (
	"net/http"

	"cinema-backoffice/internal/adaptor"
	"cinema-backoffice/pkg/middleware"
	"cinema-backoffice/pkg/permission"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	authLimit func(http.Handler) http.Handler,
	deps Deps,
) {
	log := deps.Logger

	r.Route("/auth", func(r chi.Router) {
		// Public, with the stricter limiter
		r.With(authLimit).Post("/login", authHandler.Login)
		r.With(authLimit).Post("/refresh", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Config.JWT, log))

			r.With(middleware.RequirePermission(permission.AuthLogout, log)).Post("/logout", authHandler.Logout)
			r.With(middleware.RequirePermission(permission.AuthMe, log)).Get("/me", authHandler.Me)
		})
	})
}
