// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/societyhub/internal/app/features/errors"
	userstore "github.com/dalemusser/societyhub/internal/app/store/users"
	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/dalemusser/societyhub/internal/app/system/authutil"
	"github.com/dalemusser/societyhub/internal/app/system/navigation"
	"github.com/dalemusser/societyhub/internal/app/system/timeouts"
	"github.com/dalemusser/societyhub/internal/app/system/viewdata"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Users      *userstore.Store
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Users:      userstore.New(db),
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed-in users go straight to their landing page.
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, navigation.DestinationForUser(u), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	ret := strings.TrimSpace(r.FormValue("return"))

	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	switch err {
	case nil:
		// found, continue
	case mongo.ErrNoDocuments:
		h.renderFormWithError(w, r, "Invalid email or password.", email, ret)
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/login")
		return
	}

	if u.Status == models.UserDisabled {
		h.renderFormWithError(w, r, "Your account is currently disabled. Please contact an administrator.", email, ret)
		return
	}

	// Accounts whose credential provisioning never completed have no
	// password to check yet.
	if u.CredentialStatus != models.CredentialProvisioned || u.PasswordHash == "" {
		h.renderFormWithError(w, r, "Your account is not ready yet. Please contact an administrator.", email, ret)
		return
	}

	if !authutil.CheckPassword(password, u.PasswordHash) {
		h.renderFormWithError(w, r, "Invalid email or password.", email, ret)
		return
	}

	h.createSessionAndRedirect(w, r, u, ret)
}

// createSessionAndRedirect creates an authenticated session and redirects to
// the user's role landing page.
func (h *Handler) createSessionAndRedirect(w http.ResponseWriter, r *http.Request, u *models.User, returnURL string) {
	if _, err := h.SessionMgr.GetSession(r); err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		} else {
			h.Log.Error("session store error during login, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		}
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("email", u.Email))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", u.Email, returnURL)
		return
	}

	// Users who have not replaced their temporary password land on the
	// password change page no matter what return URL was requested.
	dest := navigation.DestinationFor(u.Role, u.SocietyHex(), u.FirstLoginCompleted)
	if u.FirstLoginCompleted {
		dest = urlutil.SafeReturn(returnURL, "", dest)
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, ret string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: ret,
	})
}
