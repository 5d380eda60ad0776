package wire

import (
	"cinema-backoffice/internal/adaptor"
	"cinema-backoffice/pkg/middleware"
	"cinema-backoffice/pkg/permission"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler, deps Deps) {
	log := deps.Logger

	r.Route("/movies", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Config.JWT, log))

		r.With(middleware.RequirePermission(permission.MoviesRead, log)).Get("/", movieHandler.GetMovies)
		r.With(middleware.RequirePermission(permission.MoviesCreate, log)).Post("/", movieHandler.CreateMovie)
		r.With(middleware.RequirePermission(permission.MoviesRead, log)).Get("/{id}", movieHandler.GetMovieByID)
		r.With(middleware.RequirePermission(permission.MoviesUpdate, log)).Patch("/{id}", movieHandler.UpdateMovie)
		r.With(middleware.RequirePermission(permission.MoviesDelete, log)).Delete("/{id}", movieHandler.DeleteMovie)
		r.With(middleware.RequirePermission(permission.MoviesUpdate, log)).Post("/{id}/poster", movieHandler.UploadPoster)
	})
}
