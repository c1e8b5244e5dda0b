// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/session"
)

type contextKey string

// SessionKey is the context key for the session data.
const SessionKey contextKey = "session"

// SessionLoader looks up the session named by a request's cookie.
type SessionLoader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadSession reads the session named by the cookie and stores it in the
// request context, along with the matching auth.Principal once the second
// factor is done. It never blocks a request; a Valkey error is logged and
// the request continues as anonymous.
func LoadSession(store SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if data != nil {
				r = r.WithContext(WithSession(r.Context(), data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithSession returns ctx carrying data. A principal is attached only when
// the second factor is complete, so services never see a half-signed-in
// user as authenticated.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	ctx = context.WithValue(ctx, SessionKey, data)
	if data.TwoFADone {
		ctx = auth.NewContext(ctx, data.Principal())
	}
	return ctx
}

// SessionFromCtx returns the session loaded for the request, or nil.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// Verdict is the gate's decision for a request.
type Verdict int

const (
	// Allow lets the request through.
	Allow Verdict = iota
	// SignIn means the route needs a session.
	SignIn
	// Verify2FA means the session still owes its second factor.
	Verify2FA
	// Deny means the session lacks the role the route needs.
	Deny
	// AlreadySignedIn means a guest-only page was visited with a session.
	AlreadySignedIn
)

// Decide applies the route rules: /admin needs an admin or super admin
// with 2FA done, /account needs any signed-in user, /2fa needs a session,
// and /login and /register are for guests.
func Decide(path string, sess *session.Data) Verdict {
	switch {
	case under(path, "/admin"):
		if sess == nil {
			return SignIn
		}
		if !sess.TwoFADone {
			return Verify2FA
		}
		if !sess.Role.CanAdminister() {
			return Deny
		}
	case under(path, "/account"):
		if sess == nil {
			return SignIn
		}
		if !sess.TwoFADone {
			return Verify2FA
		}
	case under(path, "/2fa"):
		if sess == nil {
			return SignIn
		}
	case under(path, "/login"), under(path, "/register"):
		if sess != nil && sess.TwoFADone {
			return AlreadySignedIn
		}
	}
	return Allow
}

// HomeFor returns where a signed-in user lands.
func HomeFor(role models.Role) string {
	if role.CanAdminister() {
		return "/admin"
	}
	return "/account"
}

// LoginURL returns the login page with the original location as callback.
func LoginURL(r *http.Request) string {
	return "/login?callbackUrl=" + url.QueryEscape(r.URL.RequestURI())
}

// Gate enforces Decide. API clients get JSON errors; browser navigations
// are redirected. Must run after LoadSession.
func Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromCtx(r.Context())
		api := render.WantsJSON(r)

		switch Decide(r.URL.Path, sess) {
		case SignIn:
			if api {
				render.Fail(w, http.StatusUnauthorized, "You must be signed in")
				return
			}
			http.Redirect(w, r, LoginURL(r), http.StatusSeeOther)
			return
		case Verify2FA:
			if api {
				render.Fail(w, http.StatusForbidden, "Two-factor verification required")
				return
			}
			http.Redirect(w, r, "/2fa/verify", http.StatusSeeOther)
			return
		case Deny:
			if api {
				render.Fail(w, http.StatusForbidden, "Admin access required")
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		case AlreadySignedIn:
			if !api && r.Method == http.MethodGet {
				http.Redirect(w, r, HomeFor(sess.Role), http.StatusSeeOther)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func under(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
