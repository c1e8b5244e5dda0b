// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// CanAdminister returns true for roles allowed into the back office.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Provider records how an account authenticates.
type Provider string

const (
	ProviderCredentials Provider = "credentials"
	ProviderOAuth       Provider = "oauth"
)

// User represents an account with authentication, lock and 2FA fields.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Image        string     `json:"image"`
	Role         Role       `json:"role"`
	Provider     Provider   `json:"provider"`
	PasswordHash *string    `json:"-"` // Only set for the credentials provider
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	TOTPSecret   *string    `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool       `json:"totp_enabled"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAdmin returns true if the user may use the admin area.
func (u *User) IsAdmin() bool {
	return u.Role.CanAdminister()
}

// IsLocked returns true if the account has been deactivated.
func (u *User) IsLocked() bool {
	return !u.IsActive
}

// Needs2FAVerification returns true if login must be followed by a TOTP code.
func (u *User) Needs2FAVerification() bool {
	return u.TOTPEnabled && u.TOTPSecret != nil
}
