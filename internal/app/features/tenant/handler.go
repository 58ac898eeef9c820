// internal/app/features/tenant/handler.go
package tenant

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/societyhub/internal/app/features/errors"
	societystore "github.com/dalemusser/societyhub/internal/app/store/societies"
	"github.com/dalemusser/societyhub/internal/app/system/gates"
	"github.com/dalemusser/societyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/societyhub/internal/app/system/timeouts"
	"github.com/dalemusser/societyhub/internal/app/system/viewdata"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	Societies *societystore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:       logger,
		ErrLog:    errLog,
		Societies: societystore.New(db),
	}
}

type dashboardData struct {
	viewdata.BaseVM
	SocietyName string
	Description string
	Status      string
	StatusBadge string
	TenantName  string
	TenantEmail string
}

// ServeDashboard handles GET /tenant. Tenants see a read-only card with
// their society's information.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireRole(w, r, models.RoleTenant, "This page is for tenants.", "/")
	if !res.OK {
		return
	}

	socID, err := primitive.ObjectIDFromHex(res.SocietyID)
	if err != nil {
		// A tenant row without a society should not exist; treat it the
		// same as a missing society rather than a server error.
		uierrors.RenderNotFound(w, r, "Your society could not be found. Please contact an administrator.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	soc, err := h.Societies.GetByID(ctx, socID)
	switch err {
	case nil:
		// found, continue
	case mongo.ErrNoDocuments:
		h.Log.Warn("tenant references missing society",
			zap.String("user_id", res.UserID.Hex()),
			zap.String("society_id", res.SocietyID))
		uierrors.RenderNotFound(w, r, "Your society could not be found. Please contact an administrator.", "/")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find society", err, "A server error occurred.", "/")
		return
	}

	templates.Render(w, r, "tenant_dashboard", dashboardData{
		BaseVM:      viewdata.NewBaseVM(r, soc.Name, "/"),
		SocietyName: soc.Name,
		Description: htmlsanitize.PlainText(soc.Description),
		Status:      soc.Status,
		StatusBadge: models.SocietyStatusBadge(soc.Status),
		TenantName:  res.Name,
		TenantEmail: res.Email,
	})
}
