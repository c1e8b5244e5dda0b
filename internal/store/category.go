// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/models"
)

// CategoryStore manages the category forest in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `c.id, c.name, c.slug, c.description, c.type, c.status,
	c.parent_id, array_to_json(c.ancestors), c.depth, c.created_at, c.updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(s scanner) (*models.Category, error) {
	var c models.Category
	err := s.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Type, &c.Status,
		&c.ParentID, jsonColumn[[]uuid.UUID]{&c.Ancestors}, &c.Depth, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Ancestors == nil {
		c.Ancestors = []uuid.UUID{}
	}
	return &c, nil
}

// List returns every category, or only those of typ when non-nil, newest
// first and with ParentName populated.
func (s *CategoryStore) List(ctx context.Context, typ *models.CategoryType) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `, COALESCE(p.name, '')
		FROM categories c
		LEFT JOIN categories p ON p.id = c.parent_id`
	var args []any
	if typ != nil {
		query += ` WHERE c.type = $1`
		args = append(args, string(*typ))
	}
	query += ` ORDER BY c.created_at DESC, c.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		var parentName string
		c, err := scanCategory(scannerFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &parentName)...)
		}))
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ParentName = parentName
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.findOne(ctx, `c.id = $1`, id)
}

// FindBySlug retrieves a category of the given type by slug. Returns nil
// if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string, typ models.CategoryType) (*models.Category, error) {
	return s.findOne(ctx, `c.slug = $1 AND c.type = $2`, slug, string(typ))
}

func (s *CategoryStore) findOne(ctx context.Context, cond string, args ...any) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE `+cond, args...)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

// FindMany returns the categories with the given ids in the order given.
// Unknown ids are skipped.
func (s *CategoryStore) FindMany(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	items := []models.Category{}
	if len(ids) == 0 {
		return items, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories c
		WHERE c.id = ANY($1::text[]::uuid[])
		ORDER BY array_position($1::text[]::uuid[], c.id)
	`, uuidArray(ids))
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// SlugExists reports whether a category other than exclude holds slug.
func (s *CategoryStore) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`, slug, exclude,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}

// HasChildren reports whether any category names id as its parent.
func (s *CategoryStore) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category children: %w", err)
	}
	return exists, nil
}

// Create inserts a category and fills in its generated id and timestamps.
// Depth is written from len(Ancestors).
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	c.Depth = len(c.Ancestors)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, type, status, parent_id, ancestors, depth)
		VALUES ($1, $2, $3, $4, $5, $6, $7::text[]::uuid[], $8)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Slug, c.Description, string(c.Type), string(c.Status),
		c.ParentID, uuidArray(c.Ancestors), c.Depth,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update writes c and rewrites the ancestor chain of every descendant so
// the whole subtree hangs under c's new lineage. Both happen in one
// transaction. Returns the number of descendants rewritten.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	c.Depth = len(c.Ancestors)
	ancestors := uuidArray(c.Ancestors)
	err = tx.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, type = $4, status = $5,
			parent_id = $6, ancestors = $7::text[]::uuid[], depth = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`, c.Name, c.Slug, c.Description, string(c.Type), string(c.Status),
		c.ParentID, ancestors, c.Depth, c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("update category: %w", err)
	}

	// Each descendant keeps the part of its chain from c downwards and
	// gets c's new ancestors prepended.
	res, err := tx.ExecContext(ctx, `
		UPDATE categories SET
			ancestors = $2::text[]::uuid[] || ancestors[array_position(ancestors, $1::uuid):],
			depth = cardinality($2::text[]::uuid[]) + cardinality(ancestors) - array_position(ancestors, $1::uuid) + 1,
			updated_at = NOW()
		WHERE $1::uuid = ANY(ancestors)
	`, c.ID, ancestors)
	if err != nil {
		return 0, fmt.Errorf("cascade category lineage: %w", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cascade category lineage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit category update: %w", err)
	}
	return moved, nil
}

// Delete removes a category by ID. Content referencing it is detached by
// the foreign key (ON DELETE SET NULL).
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// scannerFunc adapts a function to the scanner interface.
type scannerFunc func(dest ...any) error

func (f scannerFunc) Scan(dest ...any) error { return f(dest...) }
