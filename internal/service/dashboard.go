// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"

	"folio/internal/auth"
	"folio/internal/models"
)

// Counter is implemented by the catalog services.
type Counter interface {
	Count(ctx context.Context, status *models.ContentStatus) (int, error)
}

// Stats are the admin dashboard counters.
type Stats struct {
	Posts          int `json:"posts"`
	PublishedPosts int `json:"published_posts"`
	DraftPosts     int `json:"draft_posts"`
	Projects       int `json:"projects"`
	Templates      int `json:"templates"`
	Categories     int `json:"categories"`
	UnreadMessages int `json:"unread_messages"`
}

// DashboardService aggregates counts for the admin home.
type DashboardService struct {
	posts, projects, templates Counter
	categories                 *CategoryService
	messages                   *MessageService
}

// NewDashboardService returns a DashboardService.
func NewDashboardService(posts, projects, templates Counter, categories *CategoryService, messages *MessageService) *DashboardService {
	return &DashboardService{posts: posts, projects: projects, templates: templates, categories: categories, messages: messages}
}

// Stats returns the current counters.
func (d *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	published, draft := models.ContentStatusPublished, models.ContentStatusDraft

	var st Stats
	var err error
	steps := []struct {
		dst *int
		run func() (int, error)
	}{
		{&st.Posts, func() (int, error) { return d.posts.Count(ctx, nil) }},
		{&st.PublishedPosts, func() (int, error) { return d.posts.Count(ctx, &published) }},
		{&st.DraftPosts, func() (int, error) { return d.posts.Count(ctx, &draft) }},
		{&st.Projects, func() (int, error) { return d.projects.Count(ctx, nil) }},
		{&st.Templates, func() (int, error) { return d.templates.Count(ctx, nil) }},
		{&st.Categories, func() (int, error) {
			cats, err := d.categories.List(ctx, nil)
			return len(cats), err
		}},
		{&st.UnreadMessages, func() (int, error) { return d.messages.CountUnread(ctx) }},
	}
	for _, step := range steps {
		if *step.dst, err = step.run(); err != nil {
			return nil, err
		}
	}
	return &st, nil
}
