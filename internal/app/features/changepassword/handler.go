// internal/app/features/changepassword/handler.go
package changepassword

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/societyhub/internal/app/features/errors"
	userstore "github.com/dalemusser/societyhub/internal/app/store/users"
	"github.com/dalemusser/societyhub/internal/app/system/authutil"
	"github.com/dalemusser/societyhub/internal/app/system/credentials"
	"github.com/dalemusser/societyhub/internal/app/system/gates"
	"github.com/dalemusser/societyhub/internal/app/system/navigation"
	"github.com/dalemusser/societyhub/internal/app/system/timeouts"
	"github.com/dalemusser/societyhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Users       *userstore.Store
	Credentials credentials.Provider
}

func NewHandler(db *mongo.Database, prov credentials.Provider, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:         logger,
		ErrLog:      errLog,
		Users:       userstore.New(db),
		Credentials: prov,
	}
}

type changePasswordFormData struct {
	viewdata.BaseVM
	Error         string
	FirstLogin    bool
	PasswordRules string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /change-password                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeForm shows the password change form to users mid first-login. A user
// who already completed their first login is redirected to their landing
// page, so revisiting the URL is harmless.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	if res.FirstLoginDone {
		http.Redirect(w, r, navigation.DestinationFor(res.Role, res.SocietyID, true), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "change_password", changePasswordFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Change Password", "/"),
		FirstLogin:    true,
		PasswordRules: authutil.PasswordRules(),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /change-password                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r)
	if !res.OK {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", navigation.ChangePasswordPath)
		return
	}

	newPassword := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	if err := authutil.ValidatePassword(newPassword, confirm); err != nil {
		h.renderFormWithError(w, r, err.Error(), !res.FirstLoginDone)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Credentials.UpdateCredential(ctx, res.UserID, newPassword); err != nil {
		h.ErrLog.LogServerError(w, r, "update credential", err,
			"Unable to update your password. Please try again.", navigation.ChangePasswordPath)
		return
	}

	// Flipping the flag after the credential write means a crash between the
	// two steps re-prompts for a password change, which is harmless.
	if err := h.Users.MarkFirstLoginCompleted(ctx, res.UserID); err != nil {
		h.ErrLog.LogServerError(w, r, "mark first login completed", err,
			"Unable to update your account. Please try again.", navigation.ChangePasswordPath)
		return
	}

	h.Log.Info("password changed",
		zap.String("user_id", res.UserID.Hex()),
		zap.String("role", string(res.Role)))

	http.Redirect(w, r, navigation.DestinationFor(res.Role, res.SocietyID, true), http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg string, firstLogin bool) {
	templates.Render(w, r, "change_password", changePasswordFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Change Password", "/"),
		Error:         msg,
		FirstLogin:    firstLogin,
		PasswordRules: authutil.PasswordRules(),
	})
}
