// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/societyhub/internal/app/store/users"
	"github.com/dalemusser/societyhub/internal/app/system/authutil"
	"github.com/dalemusser/societyhub/internal/app/system/credentials"
	"github.com/dalemusser/societyhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// SocietyHub does two things here: it seeds the super admin account from
// config if one does not exist yet, and it reconciles accounts whose
// credential provisioning was interrupted (row committed, password never
// written) by issuing them fresh temporary passwords.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminEmail, appCfg.SuperAdminName, appCfg.SuperAdminPassword, logger); err != nil {
		return err
	}
	return reconcilePendingCredentials(ctx, deps, logger)
}

// ensureSuperAdmin guarantees a usable super admin account for the given
// email. An existing account with that email is promoted to super_admin if
// needed; otherwise a new account is created and provisioned. When password
// is empty a temporary one is generated and logged so the operator can
// complete the first sign-in.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, email, name, password string, logger *zap.Logger) error {
	if email == "" {
		logger.Warn("superadmin_email not configured; skipping super admin seed")
		return nil
	}

	db := deps.SocietyHubMongoDatabase
	users := userstore.New(db)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleSuperAdmin {
			return nil
		}
		logger.Info("promoting existing user to super admin",
			zap.String("email", email),
			zap.String("previous_role", string(existing.Role)))
		_, err := db.Collection("users").UpdateByID(ctx, existing.ID, bson.M{
			"$set":   bson.M{"role": models.RoleSuperAdmin},
			"$unset": bson.M{"society_id": ""},
		})
		if err != nil {
			return fmt.Errorf("promote super admin: %w", err)
		}
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		// fall through to create
	default:
		return fmt.Errorf("look up super admin: %w", err)
	}

	if name == "" {
		name = "Super Admin"
	}
	generated := false
	if password == "" {
		password = authutil.GenerateTempPassword()
		generated = true
	}

	created, err := users.Create(ctx, models.User{
		Email:    email,
		FullName: name,
		Role:     models.RoleSuperAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}

	prov := credentials.NewMongoProvider(db)
	if err := prov.CreateIdentity(ctx, created.ID, password); err != nil {
		return fmt.Errorf("provision super admin credential: %w", err)
	}

	if generated {
		logger.Warn("super admin seeded with generated temporary password",
			zap.String("email", email),
			zap.String("temp_password", password))
	} else {
		logger.Info("super admin seeded", zap.String("email", email))
	}
	return nil
}

// reconcilePendingCredentials finds accounts stuck in credential_status
// "pending" (the insert committed but provisioning failed) and provisions
// them with fresh temporary passwords. The passwords are logged for the
// operator to relay; affected users still go through the forced
// password change on first sign-in.
func reconcilePendingCredentials(ctx context.Context, deps DBDeps, logger *zap.Logger) error {
	db := deps.SocietyHubMongoDatabase
	users := userstore.New(db)
	prov := credentials.NewMongoProvider(db)

	pending, err := users.ListPendingCredentials(ctx)
	if err != nil {
		return fmt.Errorf("list pending credentials: %w", err)
	}

	for _, u := range pending {
		temp := authutil.GenerateTempPassword()
		if err := prov.CreateIdentity(ctx, u.ID, temp); err != nil {
			logger.Error("credential reconciliation failed",
				zap.String("email", u.Email), zap.Error(err))
			continue
		}
		logger.Warn("reconciled pending credential with new temporary password",
			zap.String("email", u.Email),
			zap.String("temp_password", temp))
	}
	return nil
}
