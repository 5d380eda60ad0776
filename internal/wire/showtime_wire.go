package wire

import (
	"cinema-backoffice/internal/adaptor"
	"cinema-backoffice/pkg/middleware"
	"cinema-backoffice/pkg/permission"

	"github.com/go-chi/chi/v5"
)

func wireShowtime(r chi.Router, showtimeHandler *adaptor.ShowtimeHandler, deps Deps) {
	log := deps.Logger

	r.Route("/showtimes", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Config.JWT, log))

		r.With(middleware.RequirePermission(permission.ShowtimesRead, log)).Get("/", showtimeHandler.GetShowtimes)
		r.With(middleware.RequirePermission(permission.ShowtimesCreate, log)).Post("/", showtimeHandler.CreateShowtime)
		r.With(middleware.RequirePermission(permission.ShowtimesRead, log)).Get("/{id}", showtimeHandler.GetShowtimeByID)
		r.With(middleware.RequirePermission(permission.ShowtimesUpdate, log)).Patch("/{id}", showtimeHandler.UpdateShowtime)
		r.With(middleware.RequirePermission(permission.ShowtimesDelete, log)).Delete("/{id}", showtimeHandler.DeleteShowtime)
	})
}
