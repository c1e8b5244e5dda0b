// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/markup"
	"folio/internal/media"
	"folio/internal/models"
)

// defaultFeatured is how many featured projects the homepage shows.
const defaultFeatured = 3

// ProjectRepository adds the gallery and featured queries to Repository.
type ProjectRepository interface {
	Repository[models.Project]
	ImagePuller
	ListFeatured(ctx context.Context, limit int) ([]models.Project, error)
}

// ProjectInput is the admin form for a portfolio project. Gallery entries
// are references returned by the media upload endpoint and are appended
// to the existing gallery on update.
type ProjectInput struct {
	Title          string               `json:"title"`
	Slug           string               `json:"slug"`
	Description    string               `json:"description"`
	Content        string               `json:"content"`
	Thumbnail      *models.Image        `json:"thumbnail"`
	Gallery        []models.Image       `json:"gallery"`
	TechStack      []string             `json:"tech_stack"`
	Client         string               `json:"client"`
	DemoURL        string               `json:"demo_url"`
	RepoURL        string               `json:"repo_url"`
	IsFeatured     bool                 `json:"is_featured"`
	CompletionDate *time.Time           `json:"completion_date"`
	CategoryID     *uuid.UUID           `json:"category_id"`
	Status         models.ContentStatus `json:"status"`
}

func (in *ProjectInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)
	in.Client = strings.TrimSpace(in.Client)
	in.DemoURL = strings.TrimSpace(in.DemoURL)
	in.RepoURL = strings.TrimSpace(in.RepoURL)
	in.TechStack = cleanList(in.TechStack)
	if in.Status == "" {
		in.Status = models.ContentStatusDraft
	}
}

func (in ProjectInput) validate(creating bool) error {
	return apperr.Invalid(validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Length(0, 1000)),
		validation.Field(&in.DemoURL, is.URL),
		validation.Field(&in.RepoURL, is.URL),
		validation.Field(&in.CategoryID, validation.When(creating, validation.Required)),
		validation.Field(&in.Thumbnail, validation.When(creating, validation.Required), validation.By(validImage)),
		validation.Field(&in.Status, validation.In(
			models.ContentStatusDraft, models.ContentStatusPublished, models.ContentStatusArchived)),
	))
}

// ProjectService manages portfolio projects.
type ProjectService struct {
	catalog[models.Project, *models.Project]
	projects ProjectRepository
}

// NewProjectService returns a ProjectService.
func NewProjectService(repo ProjectRepository, categories CategoryRepository, janitor *media.Janitor, opts ...Option) *ProjectService {
	return &ProjectService{
		catalog:  newCatalog[models.Project, *models.Project](repo, categories, janitor, models.CategoryTypeProject, "Project", opts),
		projects: repo,
	}
}

// Create validates and stores a new project.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
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

	p := &models.Project{
		Title:          in.Title,
		Description:    in.Description,
		Content:        markup.Sanitize(in.Content),
		Thumbnail:      *in.Thumbnail,
		Gallery:        appendImages([]models.Image{}, in.Gallery),
		TechStack:      in.TechStack,
		Client:         in.Client,
		DemoURL:        in.DemoURL,
		RepoURL:        in.RepoURL,
		IsFeatured:     in.IsFeatured,
		CompletionDate: in.CompletionDate,
		CategoryID:     &ref.ID,
		Category:       ref,
		Status:         in.Status,
	}

	base, err := s.assignSlug(ctx, p, in.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, p, base, "create", s.repo.Create); err != nil {
		return nil, err
	}
	s.logger.Info("project created", "id", p.ID, "slug", p.Slug, "gallery", len(p.Gallery))
	return p, nil
}

// Update applies in to the project with id.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, in ProjectInput) (*models.Project, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
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
		p.CategoryID, p.Category = &ref.ID, ref
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Content = markup.Sanitize(in.Content)
	p.TechStack = in.TechStack
	p.Client = in.Client
	p.DemoURL = in.DemoURL
	p.RepoURL = in.RepoURL
	p.IsFeatured = in.IsFeatured
	p.CompletionDate = in.CompletionDate
	p.Status = in.Status
	p.Gallery = appendImages(p.Gallery, in.Gallery)
	if in.Thumbnail != nil && *in.Thumbnail != p.Thumbnail {
		s.media.Replace(ctx, p.Thumbnail, *in.Thumbnail)
		p.Thumbnail = *in.Thumbnail
	}

	base, err := s.reassignSlug(ctx, p, in.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, p, base, "update", s.repo.Update); err != nil {
		return nil, err
	}
	s.logger.Info("project updated", "id", p.ID, "slug", p.Slug, "gallery", len(p.Gallery))
	return p, nil
}

// DeleteGalleryImage removes one gallery entry from the media host and
// from the project.
func (s *ProjectService) DeleteGalleryImage(ctx context.Context, id uuid.UUID, externalID string) error {
	return s.pullImage(ctx, s.projects, id, externalID, "Gallery image", func(p *models.Project) []models.Image {
		return p.Gallery
	})
}

// ListFeatured returns up to limit published featured projects.
func (s *ProjectService) ListFeatured(ctx context.Context, limit int) ([]models.Project, error) {
	if limit < 1 || limit > models.MaxPageSize {
		limit = defaultFeatured
	}
	items, err := s.projects.ListFeatured(ctx, limit)
	if err != nil {
		return nil, apperr.Persistence("Failed to list featured projects", err)
	}
	if items == nil {
		items = []models.Project{}
	}
	return items, nil
}
