// server/internal/database/seeder.go
package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/auth"
	"school-supply-tracker-api-server/internal/logger"
	"school-supply-tracker-api-server/internal/models"
)

// AdminUsers is what SeedAdmin needs from the users collection.
type AdminUsers interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetUserRole(ctx context.Context, uid string, role models.Role) error
}

// SeedAdmin makes sure an admin account exists for email. An existing
// account with that email is promoted to admin; its password is left alone.
func SeedAdmin(ctx context.Context, users AdminUsers, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			if err := users.SetUserRole(ctx, existing.UID, models.RoleAdmin); err != nil {
				return nil, err
			}
			existing.Role = models.RoleAdmin
			logger.Info("existing user promoted to admin", "email", email)
		} else {
			logger.Info("admin already exists, seeding skipped", "email", email)
		}
		return existing, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	if password == "" {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "admin password is required")
	}
	hashed, err := auth.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		UID:          uuid.NewString(),
		Email:        email,
		Role:         models.RoleAdmin,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return nil, err
	}
	logger.Info("admin seeded", "email", email, "uid", admin.UID)
	return admin, nil
}
