// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds Folio's business rules: the category hierarchy,
// the catalog actions shared by posts, projects and templates, accounts
// and the contact inbox. Services return *apperr.Error values so the HTTP
// layer can map them to status codes without knowing the rules.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
	"folio/internal/slug"
	"folio/internal/store"
)

// maxSlugAttempts bounds the insert retries after unique slug violations.
const maxSlugAttempts = 5

// Repository is the persistence surface of one catalog collection.
type Repository[T any] interface {
	List(ctx context.Context, f models.ListFilter) ([]T, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindBySlug(ctx context.Context, slug string) (*T, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Count(ctx context.Context, status *models.ContentStatus) (int, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImagePuller removes one entry from a document's embedded image array.
type ImagePuller interface {
	PullImage(ctx context.Context, id uuid.UUID, externalID string) error
}

// CategoryRepository is the persistence surface of the category forest.
type CategoryRepository interface {
	List(ctx context.Context, typ *models.CategoryType) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string, typ models.CategoryType) (*models.Category, error)
	FindMany(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Option configures a service.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *slog.Logger
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// withSlugRetry runs write, and on a unique violation assigns a fresh
// timestamp-suffixed slug derived from base and tries again.
func withSlugRetry(now func() time.Time, base string, setSlug func(string), write func() error) error {
	for attempt := 1; ; attempt++ {
		err := write()
		if err == nil || !store.IsUniqueViolation(err) || attempt >= maxSlugAttempts {
			return err
		}
		setSlug(slug.WithSuffix(base, slug.Stamp(now(), attempt)))
	}
}
