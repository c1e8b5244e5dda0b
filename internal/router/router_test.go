// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"folio/internal/middleware"
	"folio/internal/session"
)

type nullSessions struct{}

func (nullSessions) Get(context.Context, *http.Request) (*session.Data, error) { return nil, nil }
func (nullSessions) Create(context.Context, http.ResponseWriter, *session.Data) (string, error) {
	return "", nil
}
func (nullSessions) Rotate(context.Context, http.ResponseWriter, *http.Request, *session.Data) (string, error) {
	return "", nil
}
func (nullSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	return nil
}

func newTestRouter() http.Handler {
	return New(Deps{
		Sessions:        nullSessions{},
		CORSOrigins:     []string{"https://folio.example"},
		LoginRateLimit:  10,
		LoginRateWindow: time.Minute,
	})
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content-type: got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRoutes(t *testing.T) {
	h := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		accept string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/health", "", http.StatusMethodNotAllowed},
		{"admin needs sign in", http.MethodGet, "/admin", "", http.StatusUnauthorized},
		{"admin posts need sign in", http.MethodGet, "/admin/posts", "application/json", http.StatusUnauthorized},
		{"admin browser redirect", http.MethodGet, "/admin/posts", "text/html", http.StatusSeeOther},
		{"account needs sign in", http.MethodGet, "/account", "", http.StatusUnauthorized},
		{"2fa needs session", http.MethodPost, "/2fa/verify", "", http.StatusUnauthorized},
		{"login info", http.MethodGet, "/login?callbackUrl=/admin", "", http.StatusOK},
		{"session", http.MethodGet, "/session", "", http.StatusOK},
		{"logout", http.MethodPost, "/logout", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("%s %s: got %d, want %d (%s)", tt.method, tt.path, rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("X-RateLimit-Limit"); got == "" {
		t.Error("expected global rate limit headers")
	}
}

func TestCSRFCookieIssued(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CSRFCookieName {
			return
		}
	}
	t.Error("expected CSRF cookie")
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/messages", nil)
	req.Header.Set("Origin", "https://folio.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://folio.example" {
		t.Errorf("allowed origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow credentials = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/messages", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}
