// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentStatus represents the publishing state of a catalog item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// Valid reports whether s is a known status.
func (s ContentStatus) Valid() bool {
	switch s {
	case ContentStatusDraft, ContentStatusPublished, ContentStatusArchived:
		return true
	}
	return false
}

// Document is implemented by the pointer types of every catalog entity
// (posts, projects, templates). It exposes the handful of fields the shared
// catalog logic needs without knowing the entity's full shape.
type Document interface {
	Key() uuid.UUID
	SlugSource() string
	CurrentSlug() string
	SetSlug(s string)
	CategoryRef() *uuid.UUID
	MediaRefs() []Image
	IsPublished() bool
}

// Post is a blog article.
type Post struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt"`
	Tags          []string      `json:"tags"`
	Author        string        `json:"author"`
	LessonID      *string       `json:"lesson_id,omitempty"`
	ReadTime      int           `json:"read_time"`
	PublishedDate *time.Time    `json:"published_date,omitempty"`
	CategoryID    *uuid.UUID    `json:"category_id"`
	Category      *CategoryRef  `json:"category,omitempty"`
	Thumbnail     Image         `json:"thumbnail"`
	Status        ContentStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == ContentStatusPublished
}

func (p *Post) Key() uuid.UUID          { return p.ID }
func (p *Post) SlugSource() string      { return p.Title }
func (p *Post) CurrentSlug() string     { return p.Slug }
func (p *Post) SetSlug(s string)        { p.Slug = s }
func (p *Post) CategoryRef() *uuid.UUID { return p.CategoryID }
func (p *Post) MediaRefs() []Image      { return mediaRefs(p.Thumbnail, nil) }
