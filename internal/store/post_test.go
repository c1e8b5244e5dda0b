// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"folio/internal/models"
)

func newPost(t *testing.T, db *sql.DB, title string, cat *models.Category, status models.ContentStatus) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:     title,
		Slug:      uniq("post"),
		Content:   "<p>hello</p>",
		Tags:      []string{"go", "web"},
		Author:    "Ana",
		ReadTime:  1,
		Thumbnail: models.Image{URL: "https://cdn/x.png", ExternalID: "posts/x.png"},
		Status:    status,
	}
	if cat != nil {
		p.CategoryID = &cat.ID
	}
	if err := NewPostStore(db).Create(context.Background(), p); err != nil {
		t.Fatalf("create post: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM posts WHERE id = $1", p.ID) })
	return p
}

func TestPostStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	cat := newCategory(t, db, "post-cat", models.CategoryTypePost, nil)
	p := newPost(t, db, "Store Round Trip", cat, models.ContentStatusDraft)

	if p.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	got, err := s.FindByID(ctx, p.ID)
	if err != nil || got == nil {
		t.Fatalf("FindByID = %v, %v", got, err)
	}
	if got.Thumbnail != p.Thumbnail {
		t.Errorf("thumbnail = %+v, want %+v", got.Thumbnail, p.Thumbnail)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.Category == nil || got.Category.Slug != cat.Slug || got.Category.Name != cat.Name {
		t.Errorf("category ref = %+v, want %s", got.Category, cat.Slug)
	}

	bySlug, err := s.FindBySlug(ctx, p.Slug)
	if err != nil || bySlug == nil || bySlug.ID != p.ID {
		t.Errorf("FindBySlug = %v, %v", bySlug, err)
	}

	none, err := s.FindBySlug(ctx, uniq("missing"))
	if err != nil || none != nil {
		t.Errorf("FindBySlug(missing) = %v, %v; want nil, nil", none, err)
	}
}

func TestPostStoreUpdate(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	p := newPost(t, db, "Before", nil, models.ContentStatusDraft)
	now := time.Now().UTC().Truncate(time.Second)
	p.Title = "After"
	p.Status = models.ContentStatusPublished
	p.PublishedDate = &now
	p.Tags = nil

	if err := s.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := s.FindByID(ctx, p.ID)
	if got.Title != "After" || got.Status != models.ContentStatusPublished {
		t.Errorf("after update: %q %s", got.Title, got.Status)
	}
	if got.PublishedDate == nil || !got.PublishedDate.Equal(now) {
		t.Errorf("published_date = %v, want %v", got.PublishedDate, now)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("tags = %#v, want empty slice", got.Tags)
	}
	if got.Category != nil {
		t.Errorf("uncategorized post has category ref %+v", got.Category)
	}
}

func TestPostStoreListFilters(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	cat := newCategory(t, db, "filter-cat", models.CategoryTypePost, nil)
	marker := uuid.NewString()[:8]
	newPost(t, db, "Alpha "+marker, cat, models.ContentStatusPublished)
	newPost(t, db, "Beta "+marker, cat, models.ContentStatusDraft)
	newPost(t, db, "Gamma "+marker, nil, models.ContentStatusPublished)

	items, total, err := s.List(ctx, models.ListFilter{Limit: 10, Search: marker})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("search total = %d items = %d, want 3", total, len(items))
	}
	if items[0].Title != "Gamma "+marker {
		t.Errorf("newest first: got %q first", items[0].Title)
	}

	_, total, _ = s.List(ctx, models.ListFilter{Limit: 10, Search: "ALPHA " + marker})
	if total != 1 {
		t.Errorf("case-insensitive search total = %d, want 1", total)
	}

	_, total, _ = s.List(ctx, models.ListFilter{Limit: 10, Search: marker, CategoryID: &cat.ID})
	if total != 2 {
		t.Errorf("category filter total = %d, want 2", total)
	}

	published := models.ContentStatusPublished
	_, total, _ = s.List(ctx, models.ListFilter{Limit: 10, Search: marker, Status: &published})
	if total != 2 {
		t.Errorf("status filter total = %d, want 2", total)
	}

	page2, total, _ := s.List(ctx, models.ListFilter{Limit: 2, Offset: 2, Search: marker})
	if total != 3 || len(page2) != 1 {
		t.Errorf("page 2: total %d items %d, want 3 and 1", total, len(page2))
	}

	beyond, _, _ := s.List(ctx, models.ListFilter{Limit: 2, Offset: 10, Search: marker})
	if beyond == nil || len(beyond) != 0 {
		t.Errorf("page beyond end = %#v, want empty slice", beyond)
	}
}

func TestPostStoreSlugExistsAndDelete(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()

	p := newPost(t, db, "Delete Me", nil, models.ContentStatusDraft)

	exists, err := s.SlugExists(ctx, p.Slug, uuid.Nil)
	if err != nil || !exists {
		t.Errorf("SlugExists = %v, %v", exists, err)
	}

	dup := *p
	dup.ID = uuid.Nil
	if err := s.Create(ctx, &dup); !IsUniqueViolation(err) {
		t.Errorf("duplicate slug: err = %v, want unique violation", err)
	}

	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, err := s.FindByID(ctx, p.ID)
	if err != nil || got != nil {
		t.Errorf("after delete FindByID = %v, %v", got, err)
	}
}

func TestPostStoreCategoryDeleteDetaches(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	cat := newCategory(t, db, "detach", models.CategoryTypePost, nil)
	p := newPost(t, db, "Orphaned", cat, models.ContentStatusDraft)

	if err := NewCategoryStore(db).Delete(ctx, cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	got, _ := NewPostStore(db).FindByID(ctx, p.ID)
	if got.CategoryID != nil || got.Category != nil {
		t.Errorf("post still references deleted category: %v", got.CategoryID)
	}
}
