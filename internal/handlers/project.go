// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"folio/internal/models"
	"folio/internal/render"
)

// FeaturedLister returns featured published projects.
type FeaturedLister interface {
	ListFeatured(ctx context.Context, limit int) ([]models.Project, error)
}

// Featured serves GET /api/projects/featured?limit=.
func Featured(svc FeaturedLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListFeatured(r.Context(), queryInt(r, "limit"))
		if err != nil {
			render.Error(w, r, err)
			return
		}
		render.OK(w, "", items)
	}
}
