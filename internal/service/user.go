// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/models"
)

// UserService is the admin view of accounts.
type UserService struct {
	users  UserRepository
	logger *slog.Logger
}

// NewUserService returns a UserService.
func NewUserService(users UserRepository, opts ...Option) *UserService {
	o := buildOptions(opts)
	return &UserService{users: users, logger: o.logger}
}

// List returns one page of accounts, newest first.
func (s *UserService) List(ctx context.Context, page, pageSize int) (*models.Page[models.User], error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	q := models.ListQuery{Page: page, PageSize: pageSize}.Normalize()
	users, total, err := s.users.List(ctx, q.PageSize, q.Offset())
	if err != nil {
		return nil, apperr.Persistence("Failed to list users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return &models.Page[models.User]{Items: users, Pagination: models.NewPagination(total, q.Page, q.PageSize)}, nil
}

// SetRole changes another account's role. Only super admins may do this.
func (s *UserService) SetRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	p, err := auth.RequireSuperAdmin(ctx)
	if err != nil {
		return err
	}
	if !role.Valid() {
		return apperr.Validation("Unknown role %q", role)
	}
	if id == p.UserID && role != p.Role {
		return apperr.Conflict("You cannot change your own role")
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.users.SetRole(ctx, id, role); err != nil {
		return apperr.Persistence("Failed to update role", err)
	}
	s.logger.Info("user role changed", "user_id", id, "role", role, "by", p.UserID)
	return nil
}

// SetActive locks (false) or unlocks (true) an account. Admins cannot lock
// themselves, and only super admins may lock a super admin.
func (s *UserService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	p, err := auth.RequireAdmin(ctx)
	if err != nil {
		return err
	}
	if id == p.UserID && !active {
		return apperr.Conflict("You cannot lock your own account")
	}
	target, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if target.Role == models.RoleSuperAdmin && p.Role != models.RoleSuperAdmin {
		return apperr.Forbidden("Only a super admin can change another super admin")
	}
	if err := s.users.SetActive(ctx, id, active); err != nil {
		return apperr.Persistence("Failed to update account", err)
	}
	s.logger.Info("user active changed", "user_id", id, "active", active, "by", p.UserID)
	return nil
}

// ResetTOTP turns off 2FA for an account that lost its authenticator.
func (s *UserService) ResetTOTP(ctx context.Context, id uuid.UUID) error {
	p, err := auth.RequireSuperAdmin(ctx)
	if err != nil {
		return err
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.users.ResetTOTP(ctx, id); err != nil {
		return apperr.Persistence("Failed to reset two-factor authentication", err)
	}
	s.logger.Info("user 2fa reset", "user_id", id, "by", p.UserID)
	return nil
}

// Delete removes another account.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := auth.RequireSuperAdmin(ctx)
	if err != nil {
		return err
	}
	if id == p.UserID {
		return apperr.Conflict("You cannot delete your own account")
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperr.Persistence("Failed to delete user", err)
	}
	s.logger.Info("user deleted", "user_id", id, "by", p.UserID)
	return nil
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("Failed to load user", err)
	}
	if u == nil {
		return nil, apperr.NotFound("User")
	}
	return u, nil
}
