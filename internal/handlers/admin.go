// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"folio/internal/auth"
	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/service"
)

// UserService is the user administration surface.
type UserService interface {
	List(ctx context.Context, page, pageSize int) (*models.Page[models.User], error)
	SetRole(ctx context.Context, id uuid.UUID, role models.Role) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ResetTOTP(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MessageService is the contact inbox surface.
type MessageService interface {
	Submit(ctx context.Context, in service.MessageInput) (*models.Message, error)
	List(ctx context.Context, unreadOnly bool, page, pageSize int) (*models.Page[models.Message], error)
	Get(ctx context.Context, id uuid.UUID) (*models.Message, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StatsService returns dashboard counters.
type StatsService interface {
	Stats(ctx context.Context) (*service.Stats, error)
}

// Admin groups the back-office handlers that are not content CRUD.
type Admin struct {
	users    UserService
	messages MessageService
	stats    StatsService
	cache    Invalidator
}

// NewAdmin returns the admin handlers.
func NewAdmin(users UserService, messages MessageService, stats StatsService, rc *cache.ResponseCache) *Admin {
	return &Admin{users: users, messages: messages, stats: stats, cache: rc}
}

// Dashboard returns the content and inbox counters.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.stats.Stats(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", stats)
}

// ClearCache drops every cached public response.
func (a *Admin) ClearCache(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAdmin(r.Context()); err != nil {
		render.Error(w, r, err)
		return
	}
	a.cache.InvalidateAll(r.Context())
	render.OK(w, "Cache cleared", nil)
}

// Users lists accounts.
func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	page, err := a.users.List(r.Context(), queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", page)
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

// SetRole changes a user's role.
func (a *Admin) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req roleRequest
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, r, err)
		return
	}
	if err := a.users.SetRole(r.Context(), id, req.Role); err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "Role updated", nil)
}

type activeRequest struct {
	Active bool `json:"active"`
}

// SetActive locks or unlocks an account.
func (a *Admin) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req activeRequest
	if err := render.Decode(w, r, &req); err != nil {
		render.Error(w, r, err)
		return
	}
	if err := a.users.SetActive(r.Context(), id, req.Active); err != nil {
		render.Error(w, r, err)
		return
	}
	msg := "Account locked"
	if req.Active {
		msg = "Account unlocked"
	}
	render.OK(w, msg, nil)
}

// ResetTOTP clears a user's second factor.
func (a *Admin) ResetTOTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := a.users.ResetTOTP(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "Two-factor authentication reset", nil)
}

// DeleteUser removes an account.
func (a *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := a.users.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "User deleted", nil)
}

// SubmitMessage accepts the public contact form.
func (a *Admin) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var in service.MessageInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}
	if _, err := a.messages.Submit(r.Context(), in); err != nil {
		render.Error(w, r, err)
		return
	}
	render.Created(w, "Thanks, your message has been sent", nil)
}

// Messages lists the inbox; ?unread=true shows unread messages only.
func (a *Admin) Messages(w http.ResponseWriter, r *http.Request) {
	unread := r.URL.Query().Get("unread") == "true"
	page, err := a.messages.List(r.Context(), unread, queryInt(r, "page"), queryInt(r, "page_size"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", page)
}

// Message returns one message.
func (a *Admin) Message(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	m, err := a.messages.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", m)
}

// MarkRead flags a message as read.
func (a *Admin) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := a.messages.MarkRead(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "Message marked as read", nil)
}

// DeleteMessage removes a message.
func (a *Admin) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := a.messages.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "Message deleted", nil)
}
