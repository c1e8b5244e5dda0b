// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/models"
)

const testPassword = "correct horse battery"

func credentialsUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)
	return &models.User{
		ID: uuid.New(), Name: "Test User", Email: email, Role: role,
		Provider: models.ProviderCredentials, PasswordHash: &h, IsActive: true,
	}
}

func signedIn(u *models.User) context.Context {
	return auth.NewContext(context.Background(), &auth.Principal{UserID: u.ID, Email: u.Email, Role: u.Role})
}

func TestLogin(t *testing.T) {
	active := credentialsUser(t, "editor@folio.test", models.RoleAdmin)
	locked := credentialsUser(t, "locked@folio.test", models.RoleUser)
	locked.IsActive = false
	oauth := &models.User{ID: uuid.New(), Email: "oauth@folio.test", Provider: models.ProviderOAuth, IsActive: true}

	users := &fakeUsers{users: []*models.User{active, locked, oauth}}
	svc := NewAuthService(users, WithLogger(quietLog))

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{name: "unknown email", email: "nobody@folio.test", password: testPassword, want: ErrInvalidCredentials},
		{name: "wrong password", email: active.Email, password: "wrong", want: ErrInvalidCredentials},
		{name: "empty password", email: active.Email, password: "", want: ErrInvalidCredentials},
		{name: "oauth account", email: oauth.Email, password: testPassword, want: ErrInvalidCredentials},
		{name: "locked with right password", email: locked.Email, password: testPassword, want: ErrAccountLocked},
		{name: "locked with wrong password", email: locked.Email, password: "wrong", want: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, users.touched)

	u, err := svc.Login(context.Background(), "  Editor@Folio.test ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, active.ID, u.ID)
	assert.Equal(t, []uuid.UUID{active.ID}, users.touched)
}

func TestLoginErrorsMapToDistinctKinds(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidCredentials, apperr.ErrUnauthenticated)
	assert.ErrorIs(t, ErrAccountLocked, apperr.ErrForbidden)
	assert.NotErrorIs(t, ErrAccountLocked, ErrInvalidCredentials)
}

func TestLoginSurvivesLastLoginFailure(t *testing.T) {
	u := credentialsUser(t, "editor@folio.test", models.RoleAdmin)
	users := &fakeUsers{users: []*models.User{u}, touchErr: errStore}
	svc := NewAuthService(users, WithLogger(quietLog))

	_, err := svc.Login(context.Background(), u.Email, testPassword)
	assert.NoError(t, err)
}

func TestRegister(t *testing.T) {
	users := &fakeUsers{}
	svc := NewAuthService(users, WithLogger(quietLog))

	u, err := svc.Register(context.Background(), RegisterInput{Name: " Ana ", Email: "Ana@Example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, models.RoleUser, u.Role)

	_, err = svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	for _, in := range []RegisterInput{
		{Name: "", Email: "x@example.com", Password: "longenough"},
		{Name: "X", Email: "not-an-email", Password: "longenough"},
		{Name: "X", Email: "x@example.com", Password: "short"},
	} {
		_, err := svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, apperr.ErrValidation, "%+v", in)
	}
	assert.Len(t, users.users, 1)
}

func TestTOTPLoginFlow(t *testing.T) {
	u := credentialsUser(t, "admin@folio.test", models.RoleAdmin)
	users := &fakeUsers{users: []*models.User{u}}
	svc := NewAuthService(users, WithLogger(quietLog))
	ctx := signedIn(u)

	_, err := svc.SetupTOTP(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	assert.ErrorIs(t, svc.EnableTOTP(ctx, "123456"), apperr.ErrValidation, "enable before setup")

	enrollment, err := svc.SetupTOTP(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.QRCode)
	require.NotNil(t, users.get(u.ID).TOTPSecret)
	assert.Equal(t, enrollment.Secret, *users.get(u.ID).TOTPSecret)
	assert.False(t, users.get(u.ID).TOTPEnabled, "secret stays inactive until confirmed")

	assert.ErrorIs(t, svc.EnableTOTP(ctx, "000000x"), ErrInvalidCode)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.EnableTOTP(ctx, code))
	assert.True(t, users.get(u.ID).TOTPEnabled)

	_, err = svc.SetupTOTP(ctx)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// A fresh sign-in now needs the second factor.
	logged, err := svc.Login(context.Background(), u.Email, testPassword)
	require.NoError(t, err)
	assert.True(t, logged.Needs2FAVerification())

	assert.ErrorIs(t, svc.VerifyTOTP(ctx, "not-a-code"), ErrInvalidCode)
	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyTOTP(ctx, code))
}

func TestVerifyTOTPWithoutEnrollmentPasses(t *testing.T) {
	u := credentialsUser(t, "plain@folio.test", models.RoleUser)
	svc := NewAuthService(&fakeUsers{users: []*models.User{u}}, WithLogger(quietLog))
	assert.NoError(t, svc.VerifyTOTP(signedIn(u), ""))
}

func TestMe(t *testing.T) {
	u := credentialsUser(t, "me@folio.test", models.RoleUser)
	svc := NewAuthService(&fakeUsers{users: []*models.User{u}}, WithLogger(quietLog))

	got, err := svc.Me(signedIn(u))
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.Me(context.Background())
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	ghost := &models.User{ID: uuid.New(), Role: models.RoleUser}
	_, err = svc.Me(signedIn(ghost))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
