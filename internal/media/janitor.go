// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media coordinates side effects against the external media host.
// Deletes are best-effort: a failure is logged and never reaches the caller,
// so a flaky media host can't block content edits.
package media

import (
	"context"
	"io"
	"log/slog"
	"time"

	"folio/internal/models"
)

// deleteTimeout bounds each best-effort delete.
const deleteTimeout = 10 * time.Second

// Deleter removes a stored file by its external id.
type Deleter interface {
	Delete(ctx context.Context, externalID string) error
}

// Host is the full media host surface used by the upload handler.
type Host interface {
	Deleter
	Upload(ctx context.Context, folder, contentType string, body io.Reader, size int64) (models.Image, error)
}

// Janitor performs best-effort deletes of media entries.
type Janitor struct {
	host   Deleter
	logger *slog.Logger
}

// NewJanitor returns a Janitor. A nil host makes every Discard a no-op,
// which is how the app runs without media configured.
func NewJanitor(host Deleter, logger *slog.Logger) *Janitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Janitor{host: host, logger: logger}
}

// Discard deletes every image that has an external id and returns how many
// deletes succeeded. Failures are logged at WARN and otherwise ignored.
// The deletes outlive a cancelled request context.
func (j *Janitor) Discard(ctx context.Context, images ...models.Image) int {
	if j == nil || j.host == nil {
		return 0
	}

	base := context.WithoutCancel(ctx)
	deleted := 0
	for _, img := range images {
		if img.ExternalID == "" {
			continue
		}
		dctx, cancel := context.WithTimeout(base, deleteTimeout)
		err := j.host.Delete(dctx, img.ExternalID)
		cancel()
		if err != nil {
			j.logger.Warn("media delete failed",
				"external_id", img.ExternalID,
				"url", img.URL,
				"error", err,
			)
			continue
		}
		deleted++
	}
	return deleted
}

// Replace discards old when it differs from next. It is used when a new
// thumbnail supersedes the stored one.
func (j *Janitor) Replace(ctx context.Context, old, next models.Image) {
	if old.ExternalID == "" || old.ExternalID == next.ExternalID {
		return
	}
	j.Discard(ctx, old)
}
