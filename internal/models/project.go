// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a portfolio case study with an image gallery.
type Project struct {
	ID             uuid.UUID     `json:"id"`
	Title          string        `json:"title"`
	Slug           string        `json:"slug"`
	Description    string        `json:"description"`
	Content        string        `json:"content"`
	Thumbnail      Image         `json:"thumbnail"`
	Gallery        []Image       `json:"gallery"`
	TechStack      []string      `json:"tech_stack"`
	Client         string        `json:"client"`
	DemoURL        string        `json:"demo_url"`
	RepoURL        string        `json:"repo_url"`
	IsFeatured     bool          `json:"is_featured"`
	CompletionDate *time.Time    `json:"completion_date,omitempty"`
	CategoryID     *uuid.UUID    `json:"category_id"`
	Category       *CategoryRef  `json:"category,omitempty"`
	Status         ContentStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// IsPublished returns true if the project is visible on the public site.
func (p *Project) IsPublished() bool {
	return p.Status == ContentStatusPublished
}

func (p *Project) Key() uuid.UUID          { return p.ID }
func (p *Project) SlugSource() string      { return p.Title }
func (p *Project) CurrentSlug() string     { return p.Slug }
func (p *Project) SetSlug(s string)        { p.Slug = s }
func (p *Project) CategoryRef() *uuid.UUID { return p.CategoryID }
func (p *Project) MediaRefs() []Image      { return mediaRefs(p.Thumbnail, p.Gallery) }

// RemoveGalleryImage drops the gallery entry with the given external id.
func (p *Project) RemoveGalleryImage(externalID string) {
	p.Gallery = withoutImage(p.Gallery, externalID)
}
