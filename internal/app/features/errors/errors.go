package errors

import (
	"net/http"

	"github.com/dalemusser/societyhub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Unauthorized renders the "unauthorized access" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)

	data := pageData{
		Title:      "Unauthorized Access",
		IsLoggedIn: signedIn,
		Role:       string(role),
		UserName:   name,
		Message:    "You don't have permission to access this page. Please contact your administrator if you believe this is an error.",
		BackURL:    "/login",
	}

	templates.Render(w, r, "error_page", data)
}
