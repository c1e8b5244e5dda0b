// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/apperr"
	"folio/internal/models"
	"folio/internal/service"
)

type fakeCategoryService struct {
	tree      []models.Category
	lastType  *models.CategoryType
	created   []service.CategoryInput
	deleteErr error
}

func (f *fakeCategoryService) List(_ context.Context, typ *models.CategoryType) ([]models.Category, error) {
	f.lastType = typ
	return service.Flatten(f.tree), nil
}

func (f *fakeCategoryService) Tree(_ context.Context, typ *models.CategoryType) ([]models.Category, error) {
	f.lastType = typ
	return f.tree, nil
}

func (f *fakeCategoryService) Get(_ context.Context, id uuid.UUID) (*models.Category, error) {
	return nil, apperr.NotFound("Category")
}

func (f *fakeCategoryService) Breadcrumbs(_ context.Context, id uuid.UUID) ([]models.Category, error) {
	return []models.Category{{ID: id, Name: "Leaf"}}, nil
}

func (f *fakeCategoryService) Create(_ context.Context, in service.CategoryInput) (*models.Category, error) {
	f.created = append(f.created, in)
	return &models.Category{ID: uuid.New(), Name: in.Name, Type: in.Type}, nil
}

func (f *fakeCategoryService) Update(_ context.Context, id uuid.UUID, in service.CategoryInput) (*models.Category, error) {
	return &models.Category{ID: id, Name: in.Name}, nil
}

func (f *fakeCategoryService) Delete(_ context.Context, _ uuid.UUID) error {
	return f.deleteErr
}

func categoryRouter(h *Categories) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/categories", h.List)
	r.Get("/api/categories/tree", h.Tree)
	r.Post("/admin/categories", h.Create)
	r.Get("/admin/categories/{id}", h.Get)
	r.Get("/admin/categories/{id}/breadcrumbs", h.Breadcrumbs)
	r.Put("/admin/categories/{id}", h.Update)
	r.Delete("/admin/categories/{id}", h.Delete)
	return r
}

func sampleTree() []models.Category {
	rootID := uuid.New()
	return []models.Category{{
		ID: rootID, Name: "Web", Type: models.CategoryTypePost,
		Children: []models.Category{{ID: uuid.New(), Name: "Go", Type: models.CategoryTypePost, Depth: 1}},
	}}
}

func TestCategoriesListTypeFilter(t *testing.T) {
	svc := &fakeCategoryService{tree: sampleTree()}
	h := categoryRouter(NewCategories(svc, nil))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/categories?type=Post", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastType)
	assert.Equal(t, models.CategoryTypePost, *svc.lastType)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/categories?type=widgets", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoriesTree(t *testing.T) {
	svc := &fakeCategoryService{tree: sampleTree()}
	h := categoryRouter(NewCategories(svc, nil))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/categories/tree", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var tree []models.Category
	decodeData(t, rec, &tree)
	require.Len(t, tree, 1)
	assert.Len(t, tree[0].Children, 1)
	assert.Nil(t, svc.lastType)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/categories/tree?flat=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var flat []models.Category
	decodeData(t, rec, &flat)
	require.Len(t, flat, 2)
	assert.Equal(t, "Web", flat[0].Name)
	assert.Equal(t, "Go", flat[1].Name)
}

func TestCategoriesCreate(t *testing.T) {
	svc := &fakeCategoryService{}
	h := categoryRouter(NewCategories(svc, nil))

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/admin/categories",
		strings.NewReader(`{"name":"Go","type":"post","parent_id":"root"}`)))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, svc.created, 1)
	assert.Equal(t, "root", svc.created[0].ParentID)
}

func TestCategoriesErrors(t *testing.T) {
	svc := &fakeCategoryService{deleteErr: apperr.Conflict("Category has subcategories")}
	h := categoryRouter(NewCategories(svc, nil))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/admin/categories/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodDelete, "/admin/categories/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Category has subcategories", decodeEnvelope(t, rec).Error)
}

func TestCategoriesBreadcrumbs(t *testing.T) {
	h := categoryRouter(NewCategories(&fakeCategoryService{}, nil))
	id := uuid.New()

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/admin/categories/"+id.String()+"/breadcrumbs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var trail []models.Category
	decodeData(t, rec, &trail)
	require.Len(t, trail, 1)
	assert.Equal(t, id, trail[0].ID)
}

// recordingCache records which invalidations a handler requested.
type recordingCache struct {
	collections []string
	all         int
}

func (c *recordingCache) Invalidate(_ context.Context, collection string) {
	c.collections = append(c.collections, collection)
}

func (c *recordingCache) InvalidateAll(_ context.Context) { c.all++ }

func TestCategoryWritesDropWholeCache(t *testing.T) {
	rc := &recordingCache{}
	h := NewCategories(&fakeCategoryService{}, nil)
	h.cache = rc
	router := categoryRouter(h)
	id := uuid.NewString()

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/admin/categories",
		strings.NewReader(`{"name":"Go","type":"post"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = serve(router, httptest.NewRequest(http.MethodPut, "/admin/categories/"+id,
		strings.NewReader(`{"name":"Golang","type":"post"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serve(router, httptest.NewRequest(http.MethodDelete, "/admin/categories/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 3, rc.all)
	assert.Empty(t, rc.collections)

	// Reads and failed writes leave the cache alone.
	serve(router, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	serve(router, httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(`{`)))
	assert.Equal(t, 3, rc.all)
}
