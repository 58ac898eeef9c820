// internal/app/features/society/routes.go
package society

import (
	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequirePasswordChanged)
	r.Get("/{societyID}", h.ServeDashboard)
	r.Get("/{societyID}/residents/new", h.ServeNewResident)
	r.Post("/{societyID}/residents", h.HandleCreateResident)
	return r
}
