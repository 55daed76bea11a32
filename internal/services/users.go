package services

import (
	"context"

	"school-supply-tracker-api-server/internal/apperr"
	"school-supply-tracker-api-server/internal/models"
)

type UserService struct {
	Users UserLister
	Roles RoleSetter
}

// ListUsers returns users newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	if s == nil || s.Users == nil {
		return nil, apperr.NotInitialized("document store")
	}
	return s.Users.ListUsers(ctx)
}

func (s *UserService) UserStats(ctx context.Context) (models.UserStats, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return models.UserStats{}, err
	}
	return models.ComputeUserStats(users), nil
}

func (s *UserService) SetUserRole(ctx context.Context, uid string, role models.Role) error {
	if s == nil || s.Roles == nil {
		return apperr.NotInitialized("identity backend")
	}
	return s.Roles.SetUserRole(ctx, uid, role)
}
