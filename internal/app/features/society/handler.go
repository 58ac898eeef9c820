// internal/app/features/society/handler.go
package society

import (
	"context"
	"net/http"
	"strings"

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

type residentRow struct {
	ID        string
	FullName  string
	Email     string
	Role      models.Role
	RoleLabel string
	RoleBadge string
	Status    string
	Pending   bool
}

type dashboardData struct {
	viewdata.BaseVM
	SocietyID     string
	SocietyName   string
	Description   string
	Status        string
	StatusBadge   string
	ResidentCount int
	Residents     []residentRow
}

type newResidentData struct {
	formutil.Base
	SocietyID   string
	SocietyName string
	FullName    string
	Email       string
	Role        string
}

type residentCreatedData struct {
	viewdata.BaseVM
	SocietyID    string
	SocietyName  string
	FullName     string
	Email        string
	RoleLabel    string
	TempPassword string

	// ProvisionPending is true when the account record was created but the
	// credential step failed; the account cannot sign in until startup
	// reconciliation provisions it.
	ProvisionPending bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /society/{societyID}                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	soc, _, ok := h.loadSociety(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := h.Users.ListBySociety(ctx, soc.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list residents", err, "A server error occurred.", "/")
		return
	}

	rows := make([]residentRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, residentRow{
			ID:        m.ID.Hex(),
			FullName:  m.FullName,
			Email:     m.Email,
			Role:      m.Role,
			RoleLabel: m.Role.Label(),
			RoleBadge: m.Role.BadgeClass(),
			Status:    m.Status,
			Pending:   m.CredentialStatus == models.CredentialPending,
		})
	}

	templates.Render(w, r, "society_dashboard", dashboardData{
		BaseVM:        viewdata.NewBaseVM(r, soc.Name, "/"),
		SocietyID:     soc.ID.Hex(),
		SocietyName:   soc.Name,
		Description:   htmlsanitize.PlainText(soc.Description),
		Status:        soc.Status,
		StatusBadge:   models.SocietyStatusBadge(soc.Status),
		ResidentCount: len(rows),
		Residents:     rows,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /society/{societyID}/residents/new                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNewResident(w http.ResponseWriter, r *http.Request) {
	soc, _, ok := h.loadSociety(w, r)
	if !ok {
		return
	}

	data := newResidentData{
		SocietyID:   soc.ID.Hex(),
		SocietyName: soc.Name,
		Role:        string(models.RoleTenant),
	}
	formutil.SetBase(&data.Base, r, "Add Resident", "/society/"+soc.ID.Hex())
	templates.Render(w, r, "resident_new", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /society/{societyID}/residents                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreateResident creates a unit admin or tenant account scoped to the
// society. The record insert and the credential provisioning are separate
// steps; a provisioning failure still leaves a visible (pending) account.
func (h *Handler) HandleCreateResident(w http.ResponseWriter, r *http.Request) {
	soc, res, ok := h.loadSociety(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/society/"+soc.ID.Hex())
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	roleStr := r.FormValue("role")

	renderWithError := func(msg string) {
		data := newResidentData{
			SocietyID:   soc.ID.Hex(),
			SocietyName: soc.Name,
			FullName:    fullName,
			Email:       email,
			Role:        roleStr,
		}
		formutil.SetBase(&data.Base, r, "Add Resident", "/society/"+soc.ID.Hex())
		data.SetError(msg)
		templates.Render(w, r, "resident_new", data)
	}

	if fullName == "" || email == "" {
		renderWithError("Name and email are required.")
		return
	}

	role, ok := models.ParseRole(roleStr)
	if !ok || (role != models.RoleAdmin && role != models.RoleTenant) {
		renderWithError("Role must be admin or tenant.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		FullName:    fullName,
		Email:       email,
		Role:        role,
		SocietyID:   &soc.ID,
		CreatedByID: &res.UserID,
	})
	switch err {
	case nil:
		// created, continue to provisioning
	case userstore.ErrDuplicateEmail:
		renderWithError("A user with this email already exists.")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB create resident", err, "A server error occurred.", "/society/"+soc.ID.Hex())
		return
	}

	tempPassword := authutil.GenerateTempPassword()

	data := residentCreatedData{
		BaseVM:       viewdata.NewBaseVM(r, "Resident Added", "/society/"+soc.ID.Hex()),
		SocietyID:    soc.ID.Hex(),
		SocietyName:  soc.Name,
		FullName:     created.FullName,
		Email:        created.Email,
		RoleLabel:    role.Label(),
		TempPassword: tempPassword,
	}

	if err := h.Credentials.CreateIdentity(ctx, created.ID, tempPassword); err != nil {
		// The account record is already committed; report the partial
		// state instead of pretending the whole operation failed.
		h.Log.Error("credential provisioning failed",
			zap.Error(err),
			zap.String("user_id", created.ID.Hex()),
			zap.String("society_id", soc.ID.Hex()))
		data.ProvisionPending = true
		data.TempPassword = ""
	}

	h.Log.Info("resident created",
		zap.String("user_id", created.ID.Hex()),
		zap.String("society_id", soc.ID.Hex()),
		zap.String("role", string(role)),
		zap.Bool("provision_pending", data.ProvisionPending))

	templates.Render(w, r, "resident_created", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Shared society loading                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// loadSociety parses the societyID route param, runs the access gate, and
// loads the society. On any failure the response has been written and
// ok=false is returned.
func (h *Handler) loadSociety(w http.ResponseWriter, r *http.Request) (models.Society, gates.Result, bool) {
	socID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "societyID"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That society does not exist.", "/")
		return models.Society{}, gates.Result{}, false
	}

	res := gates.RequireSocietyAccess(w, r, socID, "/")
	if !res.OK {
		return models.Society{}, gates.Result{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	soc, err := h.Societies.GetByID(ctx, socID)
	switch err {
	case nil:
		return soc, res, true
	case mongo.ErrNoDocuments:
		uierrors.RenderNotFound(w, r, "That society does not exist.", "/")
		return models.Society{}, gates.Result{}, false
	default:
		h.ErrLog.LogServerError(w, r, "DB find society", err, "A server error occurred.", "/")
		return models.Society{}, gates.Result{}, false
	}
}
