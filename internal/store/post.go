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

const postColumns = `t.id, t.title, t.slug, t.content, t.excerpt, array_to_json(t.tags),
	t.author, t.lesson_id, t.read_time, t.published_date, t.category_id,
	t.thumbnail, t.status, t.created_at, t.updated_at`

func scanPost(s scanner) (*models.Post, error) {
	var (
		p                models.Post
		catID            uuid.NullUUID
		catName, catSlug *string
	)
	err := s.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, jsonColumn[[]string]{&p.Tags},
		&p.Author, &p.LessonID, &p.ReadTime, &p.PublishedDate, &p.CategoryID,
		jsonColumn[models.Image]{&p.Thumbnail}, &p.Status, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catSlug,
	)
	if err != nil {
		return nil, err
	}
	p.Category = categoryRef(catID, catName, catSlug)
	return &p, nil
}

// PostStore handles blog post persistence.
type PostStore struct {
	collection[models.Post]
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{collection[models.Post]{db: db, schema: schema[models.Post]{
		table:   "posts",
		noun:    "post",
		title:   "title",
		columns: postColumns,
		scan:    scanPost,
	}}}
}

// Create inserts a post and fills in its generated id and timestamps.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	thumb, err := jsonArg(p.Thumbnail)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, tags, author, lesson_id,
		                   read_time, published_date, category_id, thumbnail, status)
		VALUES ($1, $2, $3, $4, $5::text[], $6, $7, $8, $9, $10, $11::jsonb, $12)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Slug, p.Content, p.Excerpt, textArray(p.Tags), p.Author, p.LessonID,
		p.ReadTime, p.PublishedDate, p.CategoryID, thumb, string(p.Status),
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update writes every mutable column of p.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	thumb, err := jsonArg(p.Thumbnail)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4, tags = $5::text[],
			author = $6, lesson_id = $7, read_time = $8, published_date = $9,
			category_id = $10, thumbnail = $11::jsonb, status = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at
	`, p.Title, p.Slug, p.Content, p.Excerpt, textArray(p.Tags),
		p.Author, p.LessonID, p.ReadTime, p.PublishedDate,
		p.CategoryID, thumb, string(p.Status), p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}
