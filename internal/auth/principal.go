// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth carries the authenticated caller through request contexts
// and holds the TOTP enrollment helpers. Services call RequireAdmin before
// any write so authorization holds no matter which surface invoked them.
package auth

import (
	"context"

	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/models"
)

// Principal is the identity behind a request.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Role      models.Role
	TwoFADone bool
}

// IsAdmin reports whether the principal may use the admin area.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role.CanAdminister()
}

type principalKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, or nil.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// RequireUser returns the principal or an unauthenticated error.
func RequireUser(ctx context.Context) (*Principal, error) {
	p := FromContext(ctx)
	if p == nil {
		return nil, apperr.Unauthenticated()
	}
	return p, nil
}

// RequireAdmin returns the principal if it may administer content.
func RequireAdmin(ctx context.Context) (*Principal, error) {
	p, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() {
		return nil, apperr.Forbidden("Admin access required")
	}
	return p, nil
}

// RequireSuperAdmin returns the principal if it holds the superAdmin role.
func RequireSuperAdmin(ctx context.Context) (*Principal, error) {
	p, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleSuperAdmin {
		return nil, apperr.Forbidden("Super admin access required")
	}
	return p, nil
}
