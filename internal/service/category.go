// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/models"
	"folio/internal/slug"
)

// rootParent is the form value for "no parent".
const rootParent = "root"

// CategoryInput is the admin form for a category. ParentID is a category
// id, or "" / "root" for a top-level category.
type CategoryInput struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	ParentID    string                `json:"parent_id"`
	Type        models.CategoryType   `json:"type"`
	Status      models.CategoryStatus `json:"status"`
}

func (in *CategoryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ParentID = strings.TrimSpace(in.ParentID)
	if in.Status == "" {
		in.Status = models.CategoryStatusActive
	}
}

func (in CategoryInput) validate() error {
	return apperr.Invalid(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Description, validation.Length(0, 500)),
		validation.Field(&in.Type, validation.Required, validation.In(
			models.CategoryTypePost, models.CategoryTypeProject, models.CategoryTypeTemplate, models.CategoryTypeStudy)),
		validation.Field(&in.Status, validation.In(models.CategoryStatusActive, models.CategoryStatusInactive)),
	))
}

// parentRef parses the parent form value. ok is false for root.
func (in CategoryInput) parentRef() (id uuid.UUID, ok bool) {
	if in.ParentID == "" || strings.EqualFold(in.ParentID, rootParent) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(in.ParentID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CategoryService maintains the category forest: every category stores its
// full ancestor chain and depth, and re-parenting rewrites the subtree.
type CategoryService struct {
	repo   CategoryRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewCategoryService returns a CategoryService.
func NewCategoryService(repo CategoryRepository, opts ...Option) *CategoryService {
	o := buildOptions(opts)
	return &CategoryService{repo: repo, now: o.now, logger: o.logger}
}

// List returns all categories, optionally of one type, newest first.
func (s *CategoryService) List(ctx context.Context, typ *models.CategoryType) ([]models.Category, error) {
	cats, err := s.repo.List(ctx, typ)
	if err != nil {
		return nil, apperr.Persistence("Failed to list categories", err)
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

// Tree returns the categories of typ assembled into a forest.
func (s *CategoryService) Tree(ctx context.Context, typ *models.CategoryType) ([]models.Category, error) {
	cats, err := s.List(ctx, typ)
	if err != nil {
		return nil, err
	}
	return BuildTree(cats), nil
}

// Get returns one category.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("Failed to load category", err)
	}
	if c == nil {
		return nil, apperr.NotFound("Category")
	}
	return c, nil
}

// Breadcrumbs returns the path from the root down to the category with id.
func (s *CategoryService) Breadcrumbs(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := s.repo.FindMany(ctx, c.Lineage())
	if err != nil {
		return nil, apperr.Persistence("Failed to load breadcrumbs", err)
	}
	return path, nil
}

// Create stores a new category under the parent named in in. A parent that
// cannot be resolved makes the category a root.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	c := &models.Category{
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		Status:      in.Status,
		Ancestors:   []uuid.UUID{},
	}
	if err := s.attach(ctx, c, in); err != nil {
		return nil, err
	}

	base, err := s.assignSlug(ctx, c)
	if err != nil {
		return nil, err
	}
	err = withSlugRetry(s.now, base, func(v string) { c.Slug = v }, func() error {
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return nil, apperr.Persistence("Failed to create category", err)
	}
	s.logger.Info("category created", "id", c.ID, "slug", c.Slug, "depth", c.Depth)
	return c, nil
}

// Update edits the category with id. Moving it under a new parent
// recomputes its ancestors and rewrites every descendant in the same
// transaction. Moving a category under itself or one of its descendants
// is a conflict, as is changing the type of a category with subcategories.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if pid, ok := in.parentRef(); ok && pid == id {
		return nil, apperr.Conflict("A category cannot be its own parent")
	}

	if in.Type != c.Type {
		hasChildren, err := s.repo.HasChildren(ctx, id)
		if err != nil {
			return nil, apperr.Persistence("Failed to check subcategories", err)
		}
		if hasChildren {
			return nil, apperr.Conflict("Category %q has subcategories; its type cannot change", c.Name)
		}
	}

	renamed := c.Name != in.Name
	c.Name = in.Name
	c.Description = in.Description
	c.Type = in.Type
	c.Status = in.Status
	if err := s.attach(ctx, c, in); err != nil {
		return nil, err
	}

	base := c.Slug
	if renamed {
		if base, err = s.assignSlug(ctx, c); err != nil {
			return nil, err
		}
	}

	var moved int64
	err = withSlugRetry(s.now, base, func(v string) { c.Slug = v }, func() error {
		var err error
		moved, err = s.repo.Update(ctx, c)
		return err
	})
	if err != nil {
		return nil, apperr.Persistence("Failed to update category", err)
	}
	s.logger.Info("category updated", "id", c.ID, "slug", c.Slug, "depth", c.Depth, "descendants", moved)
	return c, nil
}

// Delete removes a category that has no children. Content filed under it
// becomes uncategorized.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		return apperr.Persistence("Failed to check subcategories", err)
	}
	if hasChildren {
		return apperr.Conflict("Category %q has subcategories; move or delete them first", c.Name)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Persistence("Failed to delete category", err)
	}
	s.logger.Info("category deleted", "id", id, "slug", c.Slug)
	return nil
}

// attach sets c's parent, ancestors and depth from the parent named in in.
func (s *CategoryService) attach(ctx context.Context, c *models.Category, in CategoryInput) error {
	c.ParentID = nil
	c.Ancestors = []uuid.UUID{}
	c.Depth = 0

	pid, ok := in.parentRef()
	if !ok {
		return nil
	}
	parent, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		return apperr.Persistence("Failed to load parent category", err)
	}
	if parent == nil {
		s.logger.Debug("parent category not found, using root", "parent_id", in.ParentID)
		return nil
	}
	if c.ID != uuid.Nil && parent.HasAncestor(c.ID) {
		return apperr.Conflict("Cannot move %q under its own descendant %q", c.Name, parent.Name)
	}
	if parent.Type != c.Type {
		return apperr.Validation("Parent category %q is a %s category", parent.Name, parent.Type)
	}

	c.ParentID = &parent.ID
	c.Ancestors = parent.Lineage()
	c.Depth = len(c.Ancestors)
	return nil
}

func (s *CategoryService) assignSlug(ctx context.Context, c *models.Category) (string, error) {
	base := slug.Generate(c.Name)
	if base == "" {
		base = slug.Fallback("category", s.now())
	}
	taken, err := s.repo.SlugExists(ctx, base, c.ID)
	if err != nil {
		return "", apperr.Persistence("Failed to check slug", err)
	}
	c.Slug = base
	if taken {
		c.Slug = slug.WithSuffix(base, slug.Stamp(s.now(), 0))
	}
	return base, nil
}

// BuildTree groups a flat category list into a forest. Categories whose
// parent is absent from the list become roots. Sibling order follows the
// input order.
func BuildTree(flat []models.Category) []models.Category {
	present := make(map[uuid.UUID]bool, len(flat))
	for _, c := range flat {
		present[c.ID] = true
	}

	children := make(map[uuid.UUID][]models.Category)
	roots := []models.Category{}
	for _, c := range flat {
		if c.ParentID != nil && present[*c.ParentID] {
			children[*c.ParentID] = append(children[*c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}

	var attach func([]models.Category) []models.Category
	attach = func(nodes []models.Category) []models.Category {
		for i := range nodes {
			nodes[i].Children = attach(children[nodes[i].ID])
		}
		return nodes
	}
	return attach(roots)
}

// Flatten walks a forest depth-first, for indented dropdowns.
func Flatten(tree []models.Category) []models.Category {
	out := make([]models.Category, 0, len(tree))
	for _, c := range tree {
		kids := c.Children
		c.Children = nil
		out = append(out, c)
		out = append(out, Flatten(kids)...)
	}
	return out
}
