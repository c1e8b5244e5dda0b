// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"folio/internal/render"
)

// RateLimit allows limit requests per window for each client IP and
// answers the rest with a 429 JSON error. It guards login, registration
// and the contact form.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			render.Fail(w, http.StatusTooManyRequests, "Too many requests, please try again later")
		}),
	)
}
