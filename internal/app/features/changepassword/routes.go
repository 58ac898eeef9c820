// internal/app/features/changepassword/routes.go
package changepassword

import (
	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes requires a signed-in user but deliberately not a completed first
// login: this page is where incomplete first logins are sent.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleSubmit)
	return r
}
