// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"folio/internal/models"
)

// schema describes how one catalog table maps onto its model. The shared
// collection queries are built from it; per-type stores add Create/Update.
type schema[T any] struct {
	table      string // table name, aliased as t
	noun       string // used in error messages
	title      string // searchable display column: "title" or "name"
	columns    string // select list over t, without the category join
	imageArray string // JSONB image array column pulled by PullImage, if any
	scan       func(s scanner) (*T, error)
}

// collection implements the queries every catalog table shares: paging,
// search, category filter, slug lookups and deletes.
type collection[T any] struct {
	db     *sql.DB
	schema schema[T]
}

// selectFrom returns the SELECT ... FROM ... JOIN prefix. The category
// summary columns are always the last three.
func (c collection[T]) selectFrom() string {
	return fmt.Sprintf(`
		SELECT %s, cat.id, cat.name, cat.slug
		FROM %s t
		LEFT JOIN categories cat ON cat.id = t.category_id`, c.schema.columns, c.schema.table)
}

// where renders the filter conditions and their arguments.
func (c collection[T]) where(f models.ListFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(t.%s ILIKE $%d OR t.slug ILIKE $%d)", c.schema.title, n, n))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("t.category_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("t.status = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of rows, newest first, plus the total number of
// rows matching the filter.
func (c collection[T]) List(ctx context.Context, f models.ListFilter) ([]T, int, error) {
	where, args := c.where(f)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s t%s", c.schema.table, where)
	if err := c.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", c.schema.noun, err)
	}

	items := make([]T, 0, f.Limit)
	if total == 0 || f.Offset >= total {
		return items, total, nil
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf("%s%s ORDER BY t.created_at DESC, t.id LIMIT $%d OFFSET $%d",
		c.selectFrom(), where, len(args)-1, len(args))

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", c.schema.noun, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := c.schema.scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", c.schema.noun, err)
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a row by id. Returns nil if not found.
func (c collection[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return c.findOne(ctx, "t.id = $1", id)
}

// FindBySlug retrieves a row by slug. Returns nil if not found.
func (c collection[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	return c.findOne(ctx, "t.slug = $1", slug)
}

func (c collection[T]) findOne(ctx context.Context, cond string, arg any) (*T, error) {
	row := c.db.QueryRowContext(ctx, c.selectFrom()+" WHERE "+cond, arg)
	item, err := c.schema.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.schema.noun, err)
	}
	return item, nil
}

// SlugExists reports whether any row other than exclude holds slug.
// Pass uuid.Nil to check against every row.
func (c collection[T]) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE slug = $1 AND id <> $2)", c.schema.table)
	if err := c.db.QueryRowContext(ctx, query, slug, exclude).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s slug: %w", c.schema.noun, err)
	}
	return exists, nil
}

// Count returns the number of rows, optionally restricted to one status.
func (c collection[T]) Count(ctx context.Context, status *models.ContentStatus) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.schema.table)
	var args []any
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, string(*status))
	}
	var n int
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", c.schema.noun, err)
	}
	return n, nil
}

// Delete removes a row by id.
func (c collection[T]) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", c.schema.table)
	if _, err := c.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s: %w", c.schema.noun, err)
	}
	return nil
}

// PullImage removes every entry with externalID from the row's image array.
func (c collection[T]) PullImage(ctx context.Context, id uuid.UUID, externalID string) error {
	if c.schema.imageArray == "" {
		return fmt.Errorf("pull image: %s has no image array", c.schema.noun)
	}
	col := c.schema.imageArray
	query := fmt.Sprintf(`
		UPDATE %s SET %s = COALESCE(
			(SELECT jsonb_agg(img) FROM jsonb_array_elements(%s) img WHERE img->>'external_id' <> $2),
			'[]'::jsonb
		), updated_at = NOW()
		WHERE id = $1`, c.schema.table, col, col)
	if _, err := c.db.ExecContext(ctx, query, id, externalID); err != nil {
		return fmt.Errorf("pull %s image: %w", c.schema.noun, err)
	}
	return nil
}
