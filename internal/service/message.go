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
	"folio/internal/markup"
	"folio/internal/models"
)

// MessageRepository is the persistence surface of the contact inbox.
type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error)
	List(ctx context.Context, unreadOnly bool, limit, offset int) ([]models.Message, int, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// MessageInput is the public contact form.
type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (in *MessageInput) normalize() {
	in.Name = singleLine(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Subject = singleLine(in.Subject)
	in.Body = strings.TrimSpace(markup.StripTags(in.Body))
}

func (in MessageInput) validate() error {
	return apperr.Invalid(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Subject, validation.Length(0, 200)),
		validation.Field(&in.Body, validation.Required, validation.Length(1, 5000)),
	))
}

// singleLine strips markup and collapses whitespace.
func singleLine(s string) string {
	return strings.Join(strings.Fields(markup.StripTags(s)), " ")
}

// MessageService stores contact form submissions for the admin inbox.
type MessageService struct {
	repo   MessageRepository
	logger *slog.Logger
}

// NewMessageService returns a MessageService.
func NewMessageService(repo MessageRepository, opts ...Option) *MessageService {
	o := buildOptions(opts)
	return &MessageService{repo: repo, logger: o.logger}
}

// Submit stores a message from the public contact form. Markup is stripped.
func (s *MessageService) Submit(ctx context.Context, in MessageInput) (*models.Message, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	m := &models.Message{Name: in.Name, Email: in.Email, Subject: in.Subject, Body: in.Body}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, apperr.Persistence("Failed to send message", err)
	}
	s.logger.Info("contact message received", "id", m.ID)
	return m, nil
}

// List returns one page of messages, newest first.
func (s *MessageService) List(ctx context.Context, unreadOnly bool, page, pageSize int) (*models.Page[models.Message], error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	q := models.ListQuery{Page: page, PageSize: pageSize}.Normalize()
	items, total, err := s.repo.List(ctx, unreadOnly, q.PageSize, q.Offset())
	if err != nil {
		return nil, apperr.Persistence("Failed to list messages", err)
	}
	if items == nil {
		items = []models.Message{}
	}
	return &models.Page[models.Message]{Items: items, Pagination: models.NewPagination(total, q.Page, q.PageSize)}, nil
}

// Get returns one message.
func (s *MessageService) Get(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("Failed to load message", err)
	}
	if m == nil {
		return nil, apperr.NotFound("Message")
	}
	return m, nil
}

// CountUnread returns the number of unread messages.
func (s *MessageService) CountUnread(ctx context.Context) (int, error) {
	n, err := s.repo.CountUnread(ctx)
	if err != nil {
		return 0, apperr.Persistence("Failed to count messages", err)
	}
	return n, nil
}

// MarkRead flags a message as read.
func (s *MessageService) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return err
	}
	ok, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return apperr.Persistence("Failed to update message", err)
	}
	if !ok {
		return apperr.NotFound("Message")
	}
	return nil
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperr.Persistence("Failed to delete message", err)
	}
	if !ok {
		return apperr.NotFound("Message")
	}
	s.logger.Info("message deleted", "id", id)
	return nil
}
