// internal/app/features/superadmin/handler.go
package superadmin

import (
	"context"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/societyhub/internal/app/features/errors"
	societystore "github.com/dalemusser/societyhub/internal/app/store/societies"
	userstore "github.com/dalemusser/societyhub/internal/app/store/users"
	"github.com/dalemusser/societyhub/internal/app/system/authutil"
	"github.com/dalemusser/societyhub/internal/app/system/credentials"
	"github.com/dalemusser/societyhub/internal/app/system/formutil"
	"github.com/dalemusser/societyhub/internal/app/system/gates"
	"github.com/dalemusser/societyhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/societyhub/internal/app/system/timeouts"
	"github.com/dalemusser/societyhub/internal/app/system/viewdata"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Societies   *societystore.Store
	Users       *userstore.Store
	Credentials credentials.Provider
}

func NewHandler(db *mongo.Database, prov credentials.Provider, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:         logger,
		ErrLog:      errLog,
		Societies:   societystore.New(db),
		Users:       userstore.New(db),
		Credentials: prov,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type societyRow struct {
	ID          string
	Name        string
	Status      string
	StatusBadge string
	CreatedAt   string
}

type dashboardData struct {
	viewdata.BaseVM
	SocietyCount      int64
	SocietyAdminCount int64
	TenantCount       int64
	Societies         []societyRow
	Statuses          []string
}

type newSocietyData struct {
	formutil.Base
	Name        string
	Description string
	AdminName   string
	AdminEmail  string
}

type societyCreatedData struct {
	viewdata.BaseVM
	SocietyID    string
	SocietyName  string
	AdminName    string
	AdminEmail   string
	TempPassword string

	// ProvisionPending is true when the society and admin records were
	// committed but the credential step failed. The admin cannot sign in
	// until startup reconciliation provisions the account.
	ProvisionPending bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /super-admin                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireSuperAdmin(w, r, "This page is for super admins.", "/"); !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	societies, err := h.Societies.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list societies", err, "A server error occurred.", "/")
		return
	}

	rows := make([]societyRow, 0, len(societies))
	for _, s := range societies {
		rows = append(rows, societyRow{
			ID:          s.ID.Hex(),
			Name:        s.Name,
			Status:      s.Status,
			StatusBadge: models.SocietyStatusBadge(s.Status),
			CreatedAt:   s.CreatedAt.Format(time.DateOnly),
		})
	}

	// Counts are best effort; a failed count shows as zero rather than
	// taking down the dashboard.
	adminCount, err := h.Users.CountByRole(ctx, models.RoleSocietyAdmin)
	if err != nil {
		h.Log.Warn("count society admins", zap.Error(err))
	}
	tenantCount, err := h.Users.CountByRole(ctx, models.RoleTenant)
	if err != nil {
		h.Log.Warn("count tenants", zap.Error(err))
	}

	templates.Render(w, r, "superadmin_dashboard", dashboardData{
		BaseVM:            viewdata.NewBaseVM(r, "Super Admin", "/"),
		SocietyCount:      int64(len(rows)),
		SocietyAdminCount: adminCount,
		TenantCount:       tenantCount,
		Societies:         rows,
		Statuses:          []string{models.SocietyActive, models.SocietyInactive, models.SocietySuspended},
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /super-admin/societies/new                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNewSociety(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireSuperAdmin(w, r, "This page is for super admins.", "/"); !res.OK {
		return
	}

	data := newSocietyData{}
	formutil.SetBase(&data.Base, r, "New Society", "/super-admin")
	templates.Render(w, r, "society_new", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /super-admin/societies                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreateSociety creates a society together with its first society
// admin. The two record inserts are transactional; the admin's credential is
// provisioned afterwards and may be left pending if that step fails.
func (h *Handler) HandleCreateSociety(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireSuperAdmin(w, r, "This page is for super admins.", "/")
	if !res.OK {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/super-admin")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := htmlsanitize.PlainText(r.FormValue("description"))
	adminName := strings.TrimSpace(r.FormValue("admin_name"))
	adminEmail := strings.TrimSpace(r.FormValue("admin_email"))

	renderWithError := func(msg string) {
		data := newSocietyData{
			Name:        name,
			Description: description,
			AdminName:   adminName,
			AdminEmail:  adminEmail,
		}
		formutil.SetBase(&data.Base, r, "New Society", "/super-admin")
		data.SetError(msg)
		templates.Render(w, r, "society_new", data)
	}

	if name == "" {
		renderWithError("Society name is required.")
		return
	}
	if adminName == "" || adminEmail == "" {
		renderWithError("Admin name and email are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	tempPassword := authutil.GenerateTempPassword()

	result, err := h.Societies.CreateWithAdmin(ctx,
		models.Society{
			Name:        name,
			Description: description,
			CreatedByID: res.UserID,
		},
		models.User{
			FullName:    adminName,
			Email:       adminEmail,
			CreatedByID: &res.UserID,
		},
		h.Credentials, tempPassword)
	switch err {
	case nil:
		// created, continue
	case societystore.ErrDuplicateSociety:
		renderWithError("A society with this name already exists.")
		return
	case userstore.ErrDuplicateEmail:
		renderWithError("A user with this email already exists.")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB create society", err, "A server error occurred.", "/super-admin")
		return
	}

	data := societyCreatedData{
		BaseVM:       viewdata.NewBaseVM(r, "Society Created", "/super-admin"),
		SocietyID:    result.Society.ID.Hex(),
		SocietyName:  result.Society.Name,
		AdminName:    result.Admin.FullName,
		AdminEmail:   result.Admin.Email,
		TempPassword: tempPassword,
	}
	if result.ProvisionErr != nil {
		h.Log.Error("credential provisioning failed",
			zap.Error(result.ProvisionErr),
			zap.String("user_id", result.Admin.ID.Hex()),
			zap.String("society_id", result.Society.ID.Hex()))
		data.ProvisionPending = true
		data.TempPassword = ""
	}

	h.Log.Info("society created",
		zap.String("society_id", result.Society.ID.Hex()),
		zap.String("admin_id", result.Admin.ID.Hex()),
		zap.Bool("provision_pending", data.ProvisionPending))

	templates.Render(w, r, "society_created", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /super-admin/societies/{societyID}/status                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireSuperAdmin(w, r, "This page is for super admins.", "/"); !res.OK {
		return
	}

	socID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "societyID"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That society does not exist.", "/super-admin")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/super-admin")
		return
	}

	status := r.FormValue("status")
	if !models.ValidSocietyStatus(status) {
		h.ErrLog.LogBadRequest(w, r, "bad society status", nil, "Unknown society status.", "/super-admin")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Societies.UpdateStatus(ctx, socID, status); err != nil {
		h.ErrLog.LogServerError(w, r, "DB update society status", err, "A server error occurred.", "/super-admin")
		return
	}

	h.Log.Info("society status updated",
		zap.String("society_id", socID.Hex()),
		zap.String("status", status))

	http.Redirect(w, r, "/super-admin", http.StatusSeeOther)
}
