// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/markup"
	"folio/internal/media"
	"folio/internal/models"
)

// TemplateRepository adds the screenshot query to Repository.
type TemplateRepository interface {
	Repository[models.WebTemplate]
	ImagePuller
}

// TemplateInput is the admin form for a sellable web template. Prices are
// in cents; free templates always carry a zero price.
type TemplateInput struct {
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	Description  string               `json:"description"`
	Content      string               `json:"content"`
	Thumbnail    *models.Image        `json:"thumbnail"`
	Screenshots  []models.Image       `json:"screenshots"`
	Features     []string             `json:"features"`
	Technologies []string             `json:"technologies"`
	PriceCents   int64                `json:"price_cents"`
	IsFree       bool                 `json:"is_free"`
	PreviewURL   string               `json:"preview_url"`
	CategoryID   *uuid.UUID           `json:"category_id"`
	Status       models.ContentStatus `json:"status"`
}

func (in *TemplateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)
	in.PreviewURL = strings.TrimSpace(in.PreviewURL)
	in.Features = cleanList(in.Features)
	in.Technologies = cleanList(in.Technologies)
	if in.IsFree {
		in.PriceCents = 0
	}
	if in.Status == "" {
		in.Status = models.ContentStatusDraft
	}
}

func (in TemplateInput) validate(creating bool) error {
	return apperr.Invalid(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Length(0, 1000)),
		validation.Field(&in.PriceCents, validation.Min(int64(0))),
		validation.Field(&in.PreviewURL, is.URL),
		validation.Field(&in.CategoryID, validation.When(creating, validation.Required)),
		validation.Field(&in.Thumbnail, validation.When(creating, validation.Required), validation.By(validImage)),
		validation.Field(&in.Status, validation.In(
			models.ContentStatusDraft, models.ContentStatusPublished, models.ContentStatusArchived)),
	))
}

// TemplateService manages web templates.
type TemplateService struct {
	catalog[models.WebTemplate, *models.WebTemplate]
	templates TemplateRepository
}

// NewTemplateService returns a TemplateService.
func NewTemplateService(repo TemplateRepository, categories CategoryRepository, janitor *media.Janitor, opts ...Option) *TemplateService {
	return &TemplateService{
		catalog:   newCatalog[models.WebTemplate, *models.WebTemplate](repo, categories, janitor, models.CategoryTypeTemplate, "Template", opts),
		templates: repo,
	}
}

// Create validates and stores a new template.
func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*models.WebTemplate, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(true); err != nil {
		return nil, err
	}
	ref, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	t := &models.WebTemplate{
		Name:         in.Name,
		Description:  in.Description,
		Content:      markup.Sanitize(in.Content),
		Thumbnail:    *in.Thumbnail,
		Screenshots:  appendImages([]models.Image{}, in.Screenshots),
		Features:     in.Features,
		Technologies: in.Technologies,
		PriceCents:   in.PriceCents,
		IsFree:       in.IsFree,
		PreviewURL:   in.PreviewURL,
		CategoryID:   &ref.ID,
		Category:     ref,
		Status:       in.Status,
	}

	base, err := s.assignSlug(ctx, t, in.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, t, base, "create", s.repo.Create); err != nil {
		return nil, err
	}
	s.logger.Info("template created", "id", t.ID, "slug", t.Slug, "free", t.IsFree)
	return t, nil
}

// Update applies in to the template with id.
func (s *TemplateService) Update(ctx context.Context, id uuid.UUID, in TemplateInput) (*models.WebTemplate, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(false); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		ref, err := s.resolveCategory(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		t.CategoryID, t.Category = &ref.ID, ref
	}

	t.Name = in.Name
	t.Description = in.Description
	t.Content = markup.Sanitize(in.Content)
	t.Features = in.Features
	t.Technologies = in.Technologies
	t.PriceCents = in.PriceCents
	t.IsFree = in.IsFree
	t.PreviewURL = in.PreviewURL
	t.Status = in.Status
	t.Screenshots = appendImages(t.Screenshots, in.Screenshots)
	if in.Thumbnail != nil && *in.Thumbnail != t.Thumbnail {
		s.media.Replace(ctx, t.Thumbnail, *in.Thumbnail)
		t.Thumbnail = *in.Thumbnail
	}

	base, err := s.reassignSlug(ctx, t, in.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, t, base, "update", s.repo.Update); err != nil {
		return nil, err
	}
	s.logger.Info("template updated", "id", t.ID, "slug", t.Slug)
	return t, nil
}

// DeleteScreenshot removes one screenshot from the media host and from the
// template.
func (s *TemplateService) DeleteScreenshot(ctx context.Context, id uuid.UUID, externalID string) error {
	return s.pullImage(ctx, s.templates, id, externalID, "Screenshot", func(t *models.WebTemplate) []models.Image {
		return t.Screenshots
	})
}
