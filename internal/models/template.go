// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// WebTemplate is a website template offered in the shop, free or paid.
// Price is stored in cents to avoid float rounding.
type WebTemplate struct {
	ID           uuid.UUID     `json:"id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	Description  string        `json:"description"`
	Content      string        `json:"content"`
	Thumbnail    Image         `json:"thumbnail"`
	Screenshots  []Image       `json:"screenshots"`
	Features     []string      `json:"features"`
	Technologies []string      `json:"technologies"`
	PriceCents   int64         `json:"price_cents"`
	IsFree       bool          `json:"is_free"`
	PreviewURL   string        `json:"preview_url"`
	CategoryID   *uuid.UUID    `json:"category_id"`
	Category     *CategoryRef  `json:"category,omitempty"`
	Status       ContentStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsPublished returns true if the template is visible on the public site.
func (t *WebTemplate) IsPublished() bool {
	return t.Status == ContentStatusPublished
}

func (t *WebTemplate) Key() uuid.UUID          { return t.ID }
func (t *WebTemplate) SlugSource() string      { return t.Name }
func (t *WebTemplate) CurrentSlug() string     { return t.Slug }
func (t *WebTemplate) SetSlug(s string)        { t.Slug = s }
func (t *WebTemplate) CategoryRef() *uuid.UUID { return t.CategoryID }
func (t *WebTemplate) MediaRefs() []Image      { return mediaRefs(t.Thumbnail, t.Screenshots) }

// RemoveScreenshot drops the screenshot with the given external id.
func (t *WebTemplate) RemoveScreenshot(externalID string) {
	t.Screenshots = withoutImage(t.Screenshots, externalID)
}
