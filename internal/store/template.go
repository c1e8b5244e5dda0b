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

const templateColumns = `t.id, t.name, t.slug, t.description, t.content, t.thumbnail,
	t.screenshots, array_to_json(t.features), array_to_json(t.technologies),
	t.price_cents, t.is_free, t.preview_url, t.category_id, t.status,
	t.created_at, t.updated_at`

func scanTemplate(s scanner) (*models.WebTemplate, error) {
	var (
		w                models.WebTemplate
		catID            uuid.NullUUID
		catName, catSlug *string
	)
	err := s.Scan(
		&w.ID, &w.Name, &w.Slug, &w.Description, &w.Content, jsonColumn[models.Image]{&w.Thumbnail},
		jsonColumn[[]models.Image]{&w.Screenshots}, jsonColumn[[]string]{&w.Features},
		jsonColumn[[]string]{&w.Technologies},
		&w.PriceCents, &w.IsFree, &w.PreviewURL, &w.CategoryID, &w.Status,
		&w.CreatedAt, &w.UpdatedAt,
		&catID, &catName, &catSlug,
	)
	if err != nil {
		return nil, err
	}
	w.Category = categoryRef(catID, catName, catSlug)
	return &w, nil
}

// TemplateStore handles web template persistence.
type TemplateStore struct {
	collection[models.WebTemplate]
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{collection[models.WebTemplate]{db: db, schema: schema[models.WebTemplate]{
		table:      "web_templates",
		noun:       "web template",
		title:      "name",
		columns:    templateColumns,
		imageArray: "screenshots",
		scan:       scanTemplate,
	}}}
}

// Create inserts a template and fills in its generated id and timestamps.
func (s *TemplateStore) Create(ctx context.Context, w *models.WebTemplate) error {
	thumb, err := jsonArg(w.Thumbnail)
	if err != nil {
		return err
	}
	shots, err := jsonArg(w.Screenshots)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO web_templates (name, slug, description, content, thumbnail, screenshots,
		                           features, technologies, price_cents, is_free, preview_url,
		                           category_id, status)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7::text[], $8::text[], $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, w.Name, w.Slug, w.Description, w.Content, thumb, shots,
		textArray(w.Features), textArray(w.Technologies), w.PriceCents, w.IsFree, w.PreviewURL,
		w.CategoryID, string(w.Status),
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create web template: %w", err)
	}
	return nil
}

// Update writes every mutable column of w, including the full screenshot list.
func (s *TemplateStore) Update(ctx context.Context, w *models.WebTemplate) error {
	thumb, err := jsonArg(w.Thumbnail)
	if err != nil {
		return err
	}
	shots, err := jsonArg(w.Screenshots)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx, `
		UPDATE web_templates SET
			name = $1, slug = $2, description = $3, content = $4, thumbnail = $5::jsonb,
			screenshots = $6::jsonb, features = $7::text[], technologies = $8::text[],
			price_cents = $9, is_free = $10, preview_url = $11, category_id = $12,
			status = $13, updated_at = NOW()
		WHERE id = $14
		RETURNING updated_at
	`, w.Name, w.Slug, w.Description, w.Content, thumb,
		shots, textArray(w.Features), textArray(w.Technologies),
		w.PriceCents, w.IsFree, w.PreviewURL, w.CategoryID,
		string(w.Status), w.ID,
	).Scan(&w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update web template: %w", err)
	}
	return nil
}
