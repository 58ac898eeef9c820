// internal/app/features/tenant/routes.go
package tenant

import (
	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequirePasswordChanged)
	r.Get("/", h.ServeDashboard)
	return r
}
