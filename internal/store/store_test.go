// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"folio/internal/database"
	"folio/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "folio")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "folio")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(context.Background(), testDSN())
	if err != nil {
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// uniq returns a slug-safe name unique to this test run.
func uniq(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// newCategory inserts a category for tests and removes it on cleanup.
func newCategory(t *testing.T, db *sql.DB, name string, typ models.CategoryType, parent *models.Category) *models.Category {
	t.Helper()
	c := &models.Category{
		Name:      name,
		Slug:      uniq(name),
		Type:      typ,
		Status:    models.CategoryStatusActive,
		Ancestors: []uuid.UUID{},
	}
	if parent != nil {
		c.ParentID = &parent.ID
		c.Ancestors = parent.Lineage()
	}
	if err := NewCategoryStore(db).Create(context.Background(), c); err != nil {
		t.Fatalf("create category %q: %v", name, err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"go", "%go%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
	}
	for _, tt := range tests {
		if got := likePattern(tt.in); got != tt.want {
			t.Errorf("likePattern(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSONColumn(t *testing.T) {
	var img models.Image
	if err := (jsonColumn[models.Image]{&img}).Scan([]byte(`{"url":"u","external_id":"e"}`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if img.URL != "u" || img.ExternalID != "e" {
		t.Errorf("image = %+v", img)
	}

	var tags []string
	if err := (jsonColumn[[]string]{&tags}).Scan(`["a","b"]`); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("tags = %v", tags)
	}

	ids := []uuid.UUID{uuid.New()}
	if err := (jsonColumn[[]uuid.UUID]{&ids}).Scan(nil); err != nil || len(ids) != 1 {
		t.Errorf("NULL should leave dst untouched, got %v, %v", ids, err)
	}

	if err := (jsonColumn[[]string]{&tags}).Scan(42); err == nil {
		t.Error("expected error for unsupported source")
	}
}

func TestJSONArg_NilImagesBecomeEmptyArray(t *testing.T) {
	b, err := jsonArg([]models.Image(nil))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[]" {
		t.Errorf("jsonArg(nil) = %s, want []", b)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !IsUniqueViolation(dup) {
		t.Error("23505 should be a unique violation")
	}
	if !IsUniqueViolation(errors.Join(errors.New("create post"), dup)) {
		t.Error("wrapped 23505 should be a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("FK violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Error("plain error is not a unique violation")
	}
}
