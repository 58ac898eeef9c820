// internal/app/features/superadmin/routes.go
package superadmin

import (
	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequirePasswordChanged)
	r.Get("/", h.ServeDashboard)
	r.Get("/societies/new", h.ServeNewSociety)
	r.Post("/societies", h.HandleCreateSociety)
	r.Post("/societies/{societyID}/status", h.HandleUpdateStatus)
	return r
}
