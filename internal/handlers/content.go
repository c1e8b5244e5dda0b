// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/render"
)

// CatalogService is what the content handlers need from the post, project
// and template services.
type CatalogService[T, In any] interface {
	List(ctx context.Context, q models.ListQuery) (*models.Page[T], error)
	ListPublished(ctx context.Context, q models.ListQuery) (*models.Page[T], error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*T, error)
	Create(ctx context.Context, in In) (*T, error)
	Update(ctx context.Context, id uuid.UUID, in In) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Content serves one content collection, publicly under /api/<collection>
// and for editors under /admin/<collection>.
type Content[T, In any] struct {
	svc        CatalogService[T, In]
	cache      Invalidator
	collection string
	noun       string
}

// NewContent returns the handlers for collection ("posts", "projects",
// "templates"). noun names a single item in messages.
func NewContent[T, In any](svc CatalogService[T, In], rc *cache.ResponseCache, collection, noun string) *Content[T, In] {
	return &Content[T, In]{svc: svc, cache: rc, collection: collection, noun: noun}
}

// List returns a page of published items.
func (h *Content[T, In]) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListPublished(r.Context(), listQuery(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", page)
}

// Show returns a published item by slug.
func (h *Content[T, In]) Show(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetPublishedBySlug(r.Context(), strings.ToLower(chi.URLParam(r, "slug")))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", item)
}

// AdminList returns a page of items in any status; ?status= narrows it.
func (h *Content[T, In]) AdminList(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), listQuery(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", page)
}

// Get returns one item by id.
func (h *Content[T, In]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", item)
}

// Create adds an item.
func (h *Content[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}
	item, err := h.svc.Create(r.Context(), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), h.collection)
	render.Created(w, h.noun+" created", item)
}

// Update edits an item.
func (h *Content[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var in In
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}
	item, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), h.collection)
	render.OK(w, h.noun+" updated", item)
}

// Delete removes an item and its media.
func (h *Content[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), h.collection)
	render.OK(w, h.noun+" deleted", nil)
}

// ImageRemover drops one image from an item's image list.
type ImageRemover func(ctx context.Context, id uuid.UUID, externalID string) error

// RemoveImage returns a handler for DELETE .../{id}/<list>/{externalID}.
// External ids contain slashes, so the route binds the remainder as "*".
func (h *Content[T, In]) RemoveImage(remove ImageRemover, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.Error(w, r, err)
			return
		}
		externalID := strings.Trim(chi.URLParam(r, "*"), "/")
		if externalID == "" {
			render.Error(w, r, apperr.Validation("Image id is required"))
			return
		}
		if err := remove(r.Context(), id, externalID); err != nil {
			render.Error(w, r, err)
			return
		}
		h.cache.Invalidate(r.Context(), h.collection)
		render.OK(w, message, nil)
	}
}
