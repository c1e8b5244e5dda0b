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

const projectColumns = `t.id, t.title, t.slug, t.description, t.content, t.thumbnail,
	t.gallery, array_to_json(t.tech_stack), t.client, t.demo_url, t.repo_url,
	t.is_featured, t.completion_date, t.category_id, t.status, t.created_at, t.updated_at`

func scanProject(s scanner) (*models.Project, error) {
	var (
		p                models.Project
		catID            uuid.NullUUID
		catName, catSlug *string
	)
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Content, jsonColumn[models.Image]{&p.Thumbnail},
		jsonColumn[[]models.Image]{&p.Gallery}, jsonColumn[[]string]{&p.TechStack},
		&p.Client, &p.DemoURL, &p.RepoURL,
		&p.IsFeatured, &p.CompletionDate, &p.CategoryID, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catSlug,
	)
	if err != nil {
		return nil, err
	}
	p.Category = categoryRef(catID, catName, catSlug)
	return &p, nil
}

// ProjectStore handles portfolio project persistence.
type ProjectStore struct {
	collection[models.Project]
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{collection[models.Project]{db: db, schema: schema[models.Project]{
		table:      "projects",
		noun:       "project",
		title:      "title",
		columns:    projectColumns,
		imageArray: "gallery",
		scan:       scanProject,
	}}}
}

// Create inserts a project and fills in its generated id and timestamps.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) error {
	thumb, err := jsonArg(p.Thumbnail)
	if err != nil {
		return err
	}
	gallery, err := jsonArg(p.Gallery)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO projects (title, slug, description, content, thumbnail, gallery,
		                      tech_stack, client, demo_url, repo_url, is_featured,
		                      completion_date, category_id, status)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7::text[], $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Slug, p.Description, p.Content, thumb, gallery,
		textArray(p.TechStack), p.Client, p.DemoURL, p.RepoURL, p.IsFeatured,
		p.CompletionDate, p.CategoryID, string(p.Status),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// Update writes every mutable column of p, including the full gallery.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project) error {
	thumb, err := jsonArg(p.Thumbnail)
	if err != nil {
		return err
	}
	gallery, err := jsonArg(p.Gallery)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx, `
		UPDATE projects SET
			title = $1, slug = $2, description = $3, content = $4, thumbnail = $5::jsonb,
			gallery = $6::jsonb, tech_stack = $7::text[], client = $8, demo_url = $9,
			repo_url = $10, is_featured = $11, completion_date = $12, category_id = $13,
			status = $14, updated_at = NOW()
		WHERE id = $15
		RETURNING updated_at
	`, p.Title, p.Slug, p.Description, p.Content, thumb,
		gallery, textArray(p.TechStack), p.Client, p.DemoURL,
		p.RepoURL, p.IsFeatured, p.CompletionDate, p.CategoryID,
		string(p.Status), p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// ListFeatured returns up to limit published, featured projects, newest first.
func (s *ProjectStore) ListFeatured(ctx context.Context, limit int) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, s.selectFrom()+`
		WHERE t.is_featured AND t.status = 'published'
		ORDER BY t.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured projects: %w", err)
	}
	defer rows.Close()

	items := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}
