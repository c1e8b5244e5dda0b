// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/media"
	"folio/internal/models"
	"folio/internal/slug"
)

// document is satisfied by *models.Post, *models.Project and *models.WebTemplate.
type document[T any] interface {
	*T
	models.Document
}

// catalog is the list/get/slug/delete logic shared by every content
// collection. Type-specific services embed it and add Create/Update.
type catalog[T any, P document[T]] struct {
	repo       Repository[T]
	categories CategoryRepository
	media      *media.Janitor
	kind       models.CategoryType
	noun       string // capitalized singular, e.g. "Post"
	now        func() time.Time
	logger     *slog.Logger
}

func newCatalog[T any, P document[T]](repo Repository[T], categories CategoryRepository, janitor *media.Janitor,
	kind models.CategoryType, noun string, opts []Option) catalog[T, P] {
	o := buildOptions(opts)
	return catalog[T, P]{
		repo:       repo,
		categories: categories,
		media:      janitor,
		kind:       kind,
		noun:       noun,
		now:        o.now,
		logger:     o.logger,
	}
}

func (c *catalog[T, P]) plural() string {
	return strings.ToLower(c.noun) + "s"
}

// List returns one page of items for the admin area. The status filter
// applies as given.
func (c *catalog[T, P]) List(ctx context.Context, q models.ListQuery) (*models.Page[T], error) {
	return c.list(ctx, q, false)
}

// ListPublished returns one page of published items for the public site.
func (c *catalog[T, P]) ListPublished(ctx context.Context, q models.ListQuery) (*models.Page[T], error) {
	return c.list(ctx, q, true)
}

func (c *catalog[T, P]) list(ctx context.Context, q models.ListQuery, publicOnly bool) (*models.Page[T], error) {
	q = q.Normalize()
	f := models.ListFilter{
		Limit:  q.PageSize,
		Offset: q.Offset(),
		Search: strings.TrimSpace(q.Search),
	}

	if q.CategorySlug != "" {
		cat, err := c.categories.FindBySlug(ctx, q.CategorySlug, c.kind)
		if err != nil {
			return nil, apperr.Persistence("Failed to load category", err)
		}
		if cat == nil {
			return models.EmptyPage[T](q.Page, q.PageSize), nil
		}
		f.CategoryID = &cat.ID
	}

	var status models.ContentStatus
	switch {
	case publicOnly, q.Status == models.StatusFilterPublished:
		status = models.ContentStatusPublished
	case q.Status == models.StatusFilterDraft:
		status = models.ContentStatusDraft
	}
	if status != "" {
		f.Status = &status
	}

	items, total, err := c.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Persistence("Failed to list "+c.plural(), err)
	}
	if items == nil {
		items = []T{}
	}
	return &models.Page[T]{Items: items, Pagination: models.NewPagination(total, q.Page, q.PageSize)}, nil
}

// Get returns the item with id regardless of status.
func (c *catalog[T, P]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("Failed to load "+strings.ToLower(c.noun), err)
	}
	if item == nil {
		return nil, apperr.NotFound(c.noun)
	}
	return item, nil
}

// GetBySlug returns the item with slug regardless of status.
func (c *catalog[T, P]) GetBySlug(ctx context.Context, s string) (*T, error) {
	item, err := c.repo.FindBySlug(ctx, s)
	if err != nil {
		return nil, apperr.Persistence("Failed to load "+strings.ToLower(c.noun), err)
	}
	if item == nil {
		return nil, apperr.NotFound(c.noun)
	}
	return item, nil
}

// GetPublishedBySlug returns the item with slug only if it is published.
func (c *catalog[T, P]) GetPublishedBySlug(ctx context.Context, s string) (*T, error) {
	item, err := c.GetBySlug(ctx, s)
	if err != nil {
		return nil, err
	}
	if !P(item).IsPublished() {
		return nil, apperr.NotFound(c.noun)
	}
	return item, nil
}

// Count returns how many items exist, optionally with one status.
func (c *catalog[T, P]) Count(ctx context.Context, status *models.ContentStatus) (int, error) {
	n, err := c.repo.Count(ctx, status)
	if err != nil {
		return 0, apperr.Persistence("Failed to count "+c.plural(), err)
	}
	return n, nil
}

// Delete removes the item after a best-effort delete of every media entry
// it references. Media failures never block the document delete.
func (c *catalog[T, P]) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return err
	}
	item, err := c.Get(ctx, id)
	if err != nil {
		return err
	}

	refs := P(item).MediaRefs()
	removed := c.media.Discard(ctx, refs...)

	if err := c.repo.Delete(ctx, id); err != nil {
		return apperr.Persistence("Failed to delete "+strings.ToLower(c.noun), err)
	}
	c.logger.Info(strings.ToLower(c.noun)+" deleted", "id", id, "media", len(refs), "media_removed", removed)
	return nil
}

// resolveCategory checks that id names an existing category of this
// catalog's type and returns its summary.
func (c *catalog[T, P]) resolveCategory(ctx context.Context, id *uuid.UUID) (*models.CategoryRef, error) {
	if id == nil {
		return nil, apperr.Validation("Category is required")
	}
	cat, err := c.categories.FindByID(ctx, *id)
	if err != nil {
		return nil, apperr.Persistence("Failed to load category", err)
	}
	if cat == nil {
		return nil, apperr.Validation("Category does not exist")
	}
	if cat.Type != c.kind {
		return nil, apperr.Validation("Category %q is not a %s category", cat.Name, c.kind)
	}
	return &models.CategoryRef{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}, nil
}

// assignSlug sets doc's slug from explicit (or the title/name when empty),
// suffixing it when another document already holds it. A title with no
// slug characters gets a timestamped fallback. Returns the base slug for
// retries.
func (c *catalog[T, P]) assignSlug(ctx context.Context, doc P, explicit string) (string, error) {
	src := explicit
	if src == "" {
		src = doc.SlugSource()
	}
	base := slug.Generate(src)
	if base == "" {
		if explicit != "" {
			return "", apperr.Validation("A slug could not be derived from %q", src)
		}
		base = slug.Fallback(c.noun, c.now())
	}

	taken, err := c.repo.SlugExists(ctx, base, doc.Key())
	if err != nil {
		return "", apperr.Persistence("Failed to check slug", err)
	}
	if taken {
		doc.SetSlug(slug.WithSuffix(base, slug.Stamp(c.now(), 0)))
	} else {
		doc.SetSlug(base)
	}
	return base, nil
}

// reassignSlug keeps doc's slug unless explicit asks for a different one.
func (c *catalog[T, P]) reassignSlug(ctx context.Context, doc P, explicit string) (string, error) {
	if explicit == "" || slug.Generate(explicit) == doc.CurrentSlug() {
		return doc.CurrentSlug(), nil
	}
	return c.assignSlug(ctx, doc, explicit)
}

// save persists doc with write, retrying with a fresh slug suffix when the
// unique index rejects the slug.
func (c *catalog[T, P]) save(ctx context.Context, doc P, base, verb string, write func(context.Context, *T) error) error {
	err := withSlugRetry(c.now, base, doc.SetSlug, func() error {
		return write(ctx, (*T)(doc))
	})
	if err != nil {
		return apperr.Persistence(fmt.Sprintf("Failed to %s %s", verb, strings.ToLower(c.noun)), err)
	}
	return nil
}

// pullImage deletes one gallery or screenshot entry from the media host,
// then removes it from the document.
func (c *catalog[T, P]) pullImage(ctx context.Context, puller ImagePuller, id uuid.UUID, externalID, what string,
	images func(P) []models.Image) error {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return err
	}
	item, err := c.Get(ctx, id)
	if err != nil {
		return err
	}

	var found *models.Image
	for _, img := range images(P(item)) {
		if img.ExternalID == externalID {
			found = &img
			break
		}
	}
	if found == nil {
		return apperr.NotFound(what)
	}

	c.media.Discard(ctx, *found)
	if err := puller.PullImage(ctx, id, externalID); err != nil {
		return apperr.Persistence("Failed to remove "+strings.ToLower(what), err)
	}
	c.logger.Info(strings.ToLower(what)+" removed", "id", id, "external_id", externalID)
	return nil
}

// appendImages adds entries from extra whose external id is not already
// present in images.
func appendImages(images, extra []models.Image) []models.Image {
	seen := make(map[string]bool, len(images))
	for _, img := range images {
		seen[img.ExternalID] = true
	}
	for _, img := range extra {
		if img.URL == "" || (img.ExternalID != "" && seen[img.ExternalID]) {
			continue
		}
		seen[img.ExternalID] = true
		images = append(images, img)
	}
	return images
}

// errImageURL is reported for image references without a URL.
var errImageURL = errors.New("must include a url")

// validImage is an ozzo-validation rule for optional *models.Image fields.
func validImage(value any) error {
	img, _ := value.(*models.Image)
	if img != nil && img.URL == "" {
		return errImageURL
	}
	return nil
}

// cleanList trims entries and drops blanks.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
