// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP endpoints. Handlers decode input,
// call a service and write the JSON envelope; authorization and business
// rules live in the services.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"folio/internal/apperr"
	"folio/internal/models"
)

// Invalidator drops cached API responses after a write.
// *cache.ResponseCache implements it, nil included.
type Invalidator interface {
	Invalidate(ctx context.Context, collection string)
	InvalidateAll(ctx context.Context)
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("Invalid id")
	}
	return id, nil
}

// queryInt returns the integer query parameter name, or 0 when absent or
// malformed. Callers rely on their own defaults for 0.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}

// listQuery reads the shared listing parameters.
func listQuery(r *http.Request) models.ListQuery {
	q := r.URL.Query()
	return models.ListQuery{
		Page:         queryInt(r, "page"),
		PageSize:     queryInt(r, "page_size"),
		Search:       strings.TrimSpace(q.Get("search")),
		CategorySlug: strings.TrimSpace(q.Get("category")),
		Status:       models.StatusFilter(strings.ToLower(q.Get("status"))),
	}
}

// categoryType reads the optional ?type= filter.
func categoryType(r *http.Request) (*models.CategoryType, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	if raw == "" {
		return nil, nil
	}
	t := models.CategoryType(raw)
	if !t.Valid() {
		return nil, apperr.Validation("Unknown category type %q", raw)
	}
	return &t, nil
}
