// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/store"
)

// minPasswordLength applies to self-registration.
const minPasswordLength = 8

var (
	// ErrInvalidCredentials covers unknown emails, wrong passwords and
	// accounts without a password, so callers can't tell them apart.
	ErrInvalidCredentials = &apperr.Error{Kind: apperr.ErrUnauthenticated, Message: "Invalid email or password"}
	// ErrAccountLocked is returned for a correct password on a locked account.
	ErrAccountLocked = &apperr.Error{Kind: apperr.ErrForbidden, Message: "This account is locked"}
	// ErrInvalidCode is returned for a wrong or expired TOTP code.
	ErrInvalidCode = &apperr.Error{Kind: apperr.ErrValidation, Message: "Invalid verification code"}
)

// UserRepository is the persistence surface for accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, int, error)
	Create(ctx context.Context, name, email, password string, role models.Role) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	SetRole(ctx context.Context, id uuid.UUID, role models.Role) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetTOTPSecret(ctx context.Context, id uuid.UUID, secret string) error
	EnableTOTP(ctx context.Context, id uuid.UUID) error
	ResetTOTP(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RegisterInput is the self-registration form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
}

func (in RegisterInput) validate() error {
	return apperr.Invalid(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, validation.Required, validation.Length(minPasswordLength, 128)),
	))
}

// AuthService handles sign-in, registration and TOTP enrollment.
type AuthService struct {
	users  UserRepository
	logger *slog.Logger
}

// NewAuthService returns an AuthService.
func NewAuthService(users UserRepository, opts ...Option) *AuthService {
	o := buildOptions(opts)
	return &AuthService{users: users, logger: o.logger}
}

// Login checks credentials. Unknown emails, wrong passwords and accounts
// without a password all yield ErrInvalidCredentials; a locked account with
// the right password yields ErrAccountLocked.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Persistence("Failed to load account", err)
	}
	if user == nil || !store.CheckPassword(user, password) {
		s.logger.Info("login failed", "email", email)
		return nil, ErrInvalidCredentials
	}
	if user.IsLocked() {
		s.logger.Info("login refused for locked account", "user_id", user.ID)
		return nil, ErrAccountLocked
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// Register creates a credentials account with the user role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, in.Name, in.Email, in.Password, models.RoleUser)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, apperr.Conflict("An account with this email already exists")
		}
		return nil, apperr.Persistence("Failed to create account", err)
	}
	s.logger.Info("account registered", "user_id", user.ID)
	return user, nil
}

// Me returns the signed-in user's account.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	p, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, p.UserID)
}

// SetupTOTP generates and stores a new secret for the signed-in user. The
// secret is inactive until EnableTOTP confirms a code.
func (s *AuthService) SetupTOTP(ctx context.Context) (*auth.Enrollment, error) {
	p, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.load(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user.TOTPEnabled {
		return nil, apperr.Conflict("Two-factor authentication is already enabled")
	}

	enrollment, err := auth.NewEnrollment(user.Email)
	if err != nil {
		return nil, apperr.Persistence("Failed to generate two-factor secret", err)
	}
	if err := s.users.SetTOTPSecret(ctx, user.ID, enrollment.Secret); err != nil {
		return nil, apperr.Persistence("Failed to save two-factor secret", err)
	}
	return enrollment, nil
}

// EnableTOTP activates 2FA once code matches the pending secret.
func (s *AuthService) EnableTOTP(ctx context.Context, code string) error {
	p, err := auth.RequireUser(ctx)
	if err != nil {
		return err
	}
	user, err := s.load(ctx, p.UserID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == nil {
		return apperr.Validation("Start two-factor setup first")
	}
	if !auth.ValidateCode(strings.TrimSpace(code), *user.TOTPSecret) {
		return ErrInvalidCode
	}
	if err := s.users.EnableTOTP(ctx, user.ID); err != nil {
		return apperr.Persistence("Failed to enable two-factor authentication", err)
	}
	s.logger.Info("two-factor enabled", "user_id", user.ID)
	return nil
}

// VerifyTOTP checks the second factor for the signed-in user. Users
// without 2FA pass.
func (s *AuthService) VerifyTOTP(ctx context.Context, code string) error {
	p, err := auth.RequireUser(ctx)
	if err != nil {
		return err
	}
	user, err := s.load(ctx, p.UserID)
	if err != nil {
		return err
	}
	if !user.Needs2FAVerification() {
		return nil
	}
	if !auth.ValidateCode(strings.TrimSpace(code), *user.TOTPSecret) {
		return ErrInvalidCode
	}
	return nil
}

func (s *AuthService) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("Failed to load account", err)
	}
	if user == nil {
		return nil, apperr.NotFound("Account")
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
