// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/service"
	"folio/internal/session"
)

// AuthService is the account surface used by the auth handlers.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	SetupTOTP(ctx context.Context) (*auth.Enrollment, error)
	EnableTOTP(ctx context.Context, code string) error
	VerifyTOTP(ctx context.Context, code string) error
}

// Sessions creates, rotates and destroys the session behind the cookie.
type Sessions interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups sign-in, registration and 2FA handlers.
type Auth struct {
	svc      AuthService
	sessions Sessions
}

// NewAuth returns the auth handlers.
func NewAuth(svc AuthService, sessions Sessions) *Auth {
	return &Auth{svc: svc, sessions: sessions}
}

type loginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callback_url"`
}

type codeRequest struct {
	Code string `json:"code"`
}

// signInResult tells the client where to go next.
type signInResult struct {
	User          *session.Data `json:"user"`
	TwoFARequired bool          `json:"two_fa_required"`
	Redirect      string        `json:"redirect"`
}

// LoginInfo serves GET /login: it echoes the sanitized callback so the
// client knows where to return after signing in.
func (a *Auth) LoginInfo(w http.ResponseWriter, r *http.Request) {
	render.OK(w, "", map[string]string{
		"callback_url": safeCallback(r.URL.Query().Get("callbackUrl"), ""),
	})
}

// Login checks credentials and starts a session. Accounts with 2FA get a
// session that still owes the second factor.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	user, err := a.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	data := session.ForUser(user)
	if _, err := a.sessions.Create(r.Context(), w, data); err != nil {
		render.Error(w, r, apperr.Persistence("Failed to start session", err))
		return
	}

	callback := req.CallbackURL
	if callback == "" {
		callback = r.URL.Query().Get("callbackUrl")
	}
	result := signInResult{
		User:          data,
		TwoFARequired: !data.TwoFADone,
		Redirect:      safeCallback(callback, middleware.HomeFor(user.Role)),
	}
	if result.TwoFARequired {
		result.Redirect = "/2fa/verify"
	}
	render.OK(w, "Signed in", result)
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	render.OK(w, "Signed out", nil)
}

// Register creates a user account. The client signs in afterwards.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}
	user, err := a.svc.Register(r.Context(), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.Created(w, "Account created", user)
}

// Session reports the current session, if any.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	render.OK(w, "", map[string]any{
		"authenticated": sess != nil && sess.TwoFADone,
		"user":          sess,
	})
}

// Account returns the signed-in user's account.
func (a *Auth) Account(w http.ResponseWriter, r *http.Request) {
	user, err := a.svc.Me(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", user)
}

// TwoFASetup starts enrollment and returns the secret and QR code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	enrollment, err := a.svc.SetupTOTP(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "Scan the QR code with your authenticator app", enrollment)
}

// TwoFAEnable confirms enrollment with a first code.
func (a *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, r, err)
		return
	}
	if err := a.svc.EnableTOTP(r.Context(), req.Code); err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "Two-factor authentication enabled", nil)
}

// TwoFAVerify completes a pending sign-in. The session has no principal
// yet, so the code is checked against the session's user.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		render.Error(w, r, apperr.Unauthenticated())
		return
	}
	var req codeRequest
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	ctx := auth.NewContext(r.Context(), sess.Principal())
	if err := a.svc.VerifyTOTP(ctx, req.Code); err != nil {
		render.Error(w, r, err)
		return
	}

	// The verified session gets a new id.
	sess.TwoFADone = true
	if _, err := a.sessions.Rotate(r.Context(), w, r, sess); err != nil {
		render.Error(w, r, apperr.Persistence("Failed to update session", err))
		return
	}
	render.OK(w, "Verified", signInResult{User: sess, Redirect: middleware.HomeFor(sess.Role)})
}

// safeCallback returns raw if it is a local absolute path, else fallback.
func safeCallback(raw, fallback string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return fallback
	}
	return raw
}
