// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for Folio.
// It organizes routes into the public API, the auth endpoints and the
// gated admin area.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"

	"folio/internal/cache"
	"folio/internal/handlers"
	"folio/internal/media"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/service"
	"folio/internal/session"
)

const (
	// globalRateLimit caps requests per IP per minute across the site.
	globalRateLimit = 300

	// messageRateLimit caps contact form submissions per IP per hour.
	messageRateLimit = 5
)

// SessionStore is the session backend the router wires into middleware
// and the auth handlers.
type SessionStore interface {
	middleware.SessionLoader
	handlers.Sessions
}

// Deps holds everything the routes are built from.
type Deps struct {
	Sessions SessionStore
	Cache    *cache.ResponseCache

	Categories *service.CategoryService
	Posts      *service.PostService
	Projects   *service.ProjectService
	Templates  *service.TemplateService
	Auth       *service.AuthService
	Users      *service.UserService
	Messages   *service.MessageService
	Dashboard  *service.DashboardService

	MediaHost media.Host
	Janitor   *media.Janitor

	CORSOrigins     []string
	SecureCookies   bool
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	posts := handlers.NewContent[models.Post, service.PostInput](d.Posts, d.Cache, "posts", "Post")
	projects := handlers.NewContent[models.Project, service.ProjectInput](d.Projects, d.Cache, "projects", "Project")
	templates := handlers.NewContent[models.WebTemplate, service.TemplateInput](d.Templates, d.Cache, "templates", "Template")
	categories := handlers.NewCategories(d.Categories, d.Cache)
	authH := handlers.NewAuth(d.Auth, d.Sessions)
	admin := handlers.NewAdmin(d.Users, d.Messages, d.Dashboard, d.Cache)
	mediaH := handlers.NewMedia(d.MediaHost, d.Janitor)

	loginLimit := middleware.RateLimit(d.LoginRateLimit, d.LoginRateWindow)

	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(httprate.LimitByIP(globalRateLimit, time.Minute))
	r.Use(middleware.LoadSession(d.Sessions))
	r.Use(middleware.CSRF(session.CookieName, d.SecureCookies))
	r.Use(middleware.Gate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Fail(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		render.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", healthHandler)

	// Public API, cacheable and open to the configured front-end origins.
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   d.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.CSRFHeaderName},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler)
		r.Use(d.Cache.Middleware(session.CookieName))

		r.Get("/categories", categories.List)
		r.Get("/categories/tree", categories.Tree)

		r.Get("/posts", posts.List)
		r.Get("/posts/{slug}", posts.Show)

		r.Get("/projects", projects.List)
		r.Get("/projects/featured", handlers.Featured(d.Projects))
		r.Get("/projects/{slug}", projects.Show)

		r.Get("/templates", templates.List)
		r.Get("/templates/{slug}", templates.Show)

		r.With(middleware.RateLimit(messageRateLimit, time.Hour)).Post("/messages", admin.SubmitMessage)
	})

	// Auth. Guest-only and 2FA rules are applied by the gate.
	r.Get("/login", authH.LoginInfo)
	r.With(loginLimit).Post("/login", authH.Login)
	r.Post("/logout", authH.Logout)
	r.With(loginLimit).Post("/register", authH.Register)
	r.Get("/session", authH.Session)
	r.Get("/account", authH.Account)
	r.Route("/2fa", func(r chi.Router) {
		r.Post("/setup", authH.TwoFASetup)
		r.Post("/enable", authH.TwoFAEnable)
		r.With(loginLimit).Post("/verify", authH.TwoFAVerify)
	})

	// Admin area, gated to admins with 2FA complete.
	r.Route("/admin", func(r chi.Router) {
		r.Get("/", admin.Dashboard)
		r.Post("/cache/clear", admin.ClearCache)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Post("/", categories.Create)
			r.Get("/tree", categories.Tree)
			r.Get("/{id}", categories.Get)
			r.Put("/{id}", categories.Update)
			r.Delete("/{id}", categories.Delete)
			r.Get("/{id}/breadcrumbs", categories.Breadcrumbs)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.AdminList)
			r.Post("/", posts.Create)
			r.Get("/{id}", posts.Get)
			r.Put("/{id}", posts.Update)
			r.Delete("/{id}", posts.Delete)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.AdminList)
			r.Post("/", projects.Create)
			r.Get("/{id}", projects.Get)
			r.Put("/{id}", projects.Update)
			r.Delete("/{id}", projects.Delete)
			r.Delete("/{id}/gallery/*", projects.RemoveImage(d.Projects.DeleteGalleryImage, "Gallery image removed"))
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templates.AdminList)
			r.Post("/", templates.Create)
			r.Get("/{id}", templates.Get)
			r.Put("/{id}", templates.Update)
			r.Delete("/{id}", templates.Delete)
			r.Delete("/{id}/screenshots/*", templates.RemoveImage(d.Templates.DeleteScreenshot, "Screenshot removed"))
		})

		r.Post("/media", mediaH.Upload)
		r.Delete("/media/*", mediaH.Delete)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", admin.Users)
			r.Patch("/{id}/role", admin.SetRole)
			r.Patch("/{id}/active", admin.SetActive)
			r.Post("/{id}/reset-2fa", admin.ResetTOTP)
			r.Delete("/{id}", admin.DeleteUser)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", admin.Messages)
			r.Get("/{id}", admin.Message)
			r.Patch("/{id}/read", admin.MarkRead)
			r.Delete("/{id}", admin.DeleteMessage)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
