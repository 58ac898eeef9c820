// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/dalemusser/societyhub/internal/app/system/navigation"
	"go.uber.org/zap"
)

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeHome handles GET /. The root page is a pure dispatcher: signed-in
// users go to their role landing page, everyone else to the login form.
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, navigation.DestinationForUser(u), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, navigation.LoginPath, http.StatusSeeOther)
}
