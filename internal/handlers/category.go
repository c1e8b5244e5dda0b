// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/service"
)

// CategoryService is the category hierarchy surface used by the handlers.
type CategoryService interface {
	List(ctx context.Context, typ *models.CategoryType) ([]models.Category, error)
	Tree(ctx context.Context, typ *models.CategoryType) ([]models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Breadcrumbs(ctx context.Context, id uuid.UUID) ([]models.Category, error)
	Create(ctx context.Context, in service.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, in service.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Categories serves the category endpoints.
type Categories struct {
	svc   CategoryService
	cache Invalidator
}

// NewCategories returns the category handlers.
func NewCategories(svc CategoryService, rc *cache.ResponseCache) *Categories {
	return &Categories{svc: svc, cache: rc}
}

// List returns categories in display order, optionally of one ?type=.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	typ, err := categoryType(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	items, err := h.svc.List(r.Context(), typ)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", items)
}

// Tree returns the category forest. With ?flat=true the forest is
// flattened depth-first, which is what select inputs want.
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	typ, err := categoryType(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	tree, err := h.svc.Tree(r.Context(), typ)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if r.URL.Query().Get("flat") == "true" {
		render.OK(w, "", service.Flatten(tree))
		return
	}
	render.OK(w, "", tree)
}

// Get returns one category.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", c)
}

// Breadcrumbs returns the root-first path to a category, itself included.
func (h *Categories) Breadcrumbs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	trail, err := h.svc.Breadcrumbs(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.OK(w, "", trail)
}

// Category names and slugs are embedded in every content listing, so
// category writes drop the whole response cache.

// Create adds a category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CategoryInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}
	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	render.Created(w, "Category created", c)
}

// Update edits a category. Moving it re-parents its whole subtree.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var in service.CategoryInput
	if err := render.Decode(w, r, &in); err != nil {
		render.Error(w, r, err)
		return
	}
	c, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	render.OK(w, "Category updated", c)
}

// Delete removes a childless category.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		render.Error(w, r, err)
		return
	}
	h.cache.InvalidateAll(r.Context())
	render.OK(w, "Category deleted", nil)
}
