package wire

import (
	"cinema-backoffice/internal/adaptor"
	"cinema-backoffice/pkg/middleware"
	"cinema-backoffice/pkg/permission"

	"github.com/go-chi/chi/v5"
)

func wireStaff(r chi.Router, staffHandler *adaptor.StaffHandler, deps Deps) {
	log := deps.Logger

	r.Route("/staff", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Config.JWT, log))

		r.With(middleware.RequirePermission(permission.StaffRead, log)).Get("/", staffHandler.GetStaff)
		r.With(middleware.RequirePermission(permission.StaffCreate, log)).Post("/", staffHandler.CreateStaff)
		r.With(middleware.RequirePermission(permission.StaffRead, log)).Get("/{id}", staffHandler.GetStaffByID)
		r.With(middleware.RequirePermission(permission.StaffUpdate, log)).Patch("/{id}", staffHandler.UpdateStaff)
		r.With(middleware.RequirePermission(permission.StaffDelete, log)).Delete("/{id}", staffHandler.DeleteStaff)
	})
}
