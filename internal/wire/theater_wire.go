package wire

import (
	"cinema-backoffice/internal/adaptor"
	"cinema-backoffice/pkg/middleware"
	"cinema-backoffice/pkg/permission"

	"github.com/go-chi/chi/v5"
)

// Studios only exist inside a theater, so their routes nest under it and
// share the theater permissions.
func wireTheater(
	r chi.Router,
	theaterHandler *adaptor.TheaterHandler,
	studioHandler *adaptor.StudioHandler,
	deps Deps,
) {
	log := deps.Logger
	read := middleware.RequirePermission(permission.TheatersRead, log)
	create := middleware.RequirePermission(permission.TheatersCreate, log)
	update := middleware.RequirePermission(permission.TheatersUpdate, log)
	remove := middleware.RequirePermission(permission.TheatersDelete, log)

	r.Route("/theaters", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Config.JWT, log))

		r.With(read).Get("/", theaterHandler.GetTheaters)
		r.With(create).Post("/", theaterHandler.CreateTheater)

		r.Route("/{id}", func(r chi.Router) {
			r.With(read).Get("/", theaterHandler.GetTheaterByID)
			r.With(update).Patch("/", theaterHandler.UpdateTheater)
			r.With(remove).Delete("/", theaterHandler.DeleteTheater)

			r.With(read).Get("/studios", studioHandler.GetStudios)
			r.With(create).Post("/studios", studioHandler.CreateStudio)
			r.With(read).Get("/studios/{studioId}", studioHandler.GetStudioByID)
			r.With(update).Patch("/studios/{studioId}", studioHandler.UpdateStudio)
			r.With(remove).Delete("/studios/{studioId}", studioHandler.DeleteStudio)
		})
	})
}
