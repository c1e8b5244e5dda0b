// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/markup"
	"folio/internal/media"
	"folio/internal/models"
)

// excerptWords is the length of a derived excerpt.
const excerptWords = 40

// PostInput is the admin form for a blog post.
type PostInput struct {
	Title      string               `json:"title"`
	Slug       string               `json:"slug"`
	Content    string               `json:"content"`
	Excerpt    string               `json:"excerpt"`
	Tags       []string             `json:"tags"`
	Author     string               `json:"author"`
	LessonID   *string              `json:"lesson_id"`
	CategoryID *uuid.UUID           `json:"category_id"`
	Thumbnail  *models.Image        `json:"thumbnail"`
	Status     models.ContentStatus `json:"status"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Author = strings.TrimSpace(in.Author)
	in.Tags = cleanList(in.Tags)
	if in.LessonID != nil && strings.TrimSpace(*in.LessonID) == "" {
		in.LessonID = nil
	}
	if in.Status == "" {
		in.Status = models.ContentStatusDraft
	}
}

func (in PostInput) validate(creating bool) error {
	return apperr.Invalid(validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Excerpt, validation.Length(0, 500)),
		validation.Field(&in.CategoryID, validation.When(creating, validation.Required)),
		validation.Field(&in.Thumbnail, validation.When(creating, validation.Required), validation.By(validImage)),
		validation.Field(&in.Status, validation.In(
			models.ContentStatusDraft, models.ContentStatusPublished, models.ContentStatusArchived)),
	))
}

// PostService manages blog posts.
type PostService struct {
	catalog[models.Post, *models.Post]
}

// NewPostService returns a PostService.
func NewPostService(repo Repository[models.Post], categories CategoryRepository, janitor *media.Janitor, opts ...Option) *PostService {
	return &PostService{catalog: newCatalog[models.Post, *models.Post](repo, categories, janitor, models.CategoryTypePost, "Post", opts)}
}

// Create validates and stores a new post. Content is sanitized, and the
// excerpt and read time are derived from it.
func (s *PostService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
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

	p := &models.Post{
		Title:      in.Title,
		Tags:       in.Tags,
		Author:     in.Author,
		LessonID:   in.LessonID,
		CategoryID: &ref.ID,
		Category:   ref,
		Thumbnail:  *in.Thumbnail,
		Status:     in.Status,
	}
	s.setBody(p, in.Content, in.Excerpt)
	if p.IsPublished() {
		now := s.now()
		p.PublishedDate = &now
	}

	base, err := s.assignSlug(ctx, p, in.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, p, base, "create", s.repo.Create); err != nil {
		return nil, err
	}
	s.logger.Info("post created", "id", p.ID, "slug", p.Slug, "status", p.Status)
	return p, nil
}

// Update applies in to the post with id. A nil thumbnail or category keeps
// the current one. published_date is only set on the first publish.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, in PostInput) (*models.Post, error) {
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
	p.Tags = in.Tags
	p.Author = in.Author
	p.LessonID = in.LessonID
	p.Status = in.Status
	s.setBody(p, in.Content, in.Excerpt)
	if p.IsPublished() && p.PublishedDate == nil {
		now := s.now()
		p.PublishedDate = &now
	}
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
	s.logger.Info("post updated", "id", p.ID, "slug", p.Slug, "status", p.Status)
	return p, nil
}

func (s *PostService) setBody(p *models.Post, content, excerpt string) {
	p.Content = markup.Sanitize(content)
	p.ReadTime = markup.ReadTime(p.Content)
	if excerpt == "" {
		excerpt = markup.Excerpt(p.Content, excerptWords)
	}
	p.Excerpt = excerpt
}
