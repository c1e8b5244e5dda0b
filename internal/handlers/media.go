// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"folio/internal/apperr"
	"folio/internal/auth"
	"folio/internal/media"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/storage"
)

const (
	// maxUploadSize is the largest accepted image (10 MB).
	maxUploadSize = 10 << 20

	// sniffLen is how much of an upload http.DetectContentType reads.
	sniffLen = 512
)

// uploadFolders are the folders an upload may be filed under.
var uploadFolders = map[string]bool{
	"posts":     true,
	"projects":  true,
	"templates": true,
	"users":     true,
	"misc":      true,
}

// Media uploads images to the media host and deletes them again.
type Media struct {
	host    media.Host
	janitor *media.Janitor
}

// NewMedia returns the media handlers. A nil host answers 503.
func NewMedia(host media.Host, janitor *media.Janitor) *Media {
	return &Media{host: host, janitor: janitor}
}

// Upload stores the multipart "file" field and returns its {url,
// external_id} reference, ready to be sent back as a thumbnail or
// gallery entry.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAdmin(r.Context()); err != nil {
		render.Error(w, r, err)
		return
	}
	if h.host == nil {
		render.Fail(w, http.StatusServiceUnavailable, "Media storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.Error(w, r, apperr.Validation("File is too large or the form is malformed"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		render.Error(w, r, apperr.Validation("File is required"))
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		render.Error(w, r, apperr.Validation("File is too large (max 10 MB)"))
		return
	}

	folder := strings.ToLower(strings.TrimSpace(r.FormValue("folder")))
	if folder == "" {
		folder = "misc"
	}
	if !uploadFolders[folder] {
		render.Error(w, r, apperr.Validation("Unknown folder %q", folder))
		return
	}

	head := make([]byte, sniffLen)
	n, _ := io.ReadFull(file, head)
	contentType := detectType(header.Header.Get("Content-Type"), head[:n])
	if _, ok := storage.ExtensionFor(contentType); !ok {
		render.Error(w, r, apperr.Validation("Only JPEG, PNG, GIF, WebP and SVG images are accepted"))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		render.Error(w, r, apperr.Persistence("Failed to read upload", err))
		return
	}

	img, err := h.host.Upload(r.Context(), folder, contentType, file, header.Size)
	if err != nil {
		render.Error(w, r, apperr.Persistence("Failed to upload file", err))
		return
	}
	slog.Info("media uploaded", "external_id", img.ExternalID, "size", header.Size)
	render.Created(w, "File uploaded", img)
}

// Delete removes an object by external id. The delete is best-effort;
// the response reports whether the host confirmed it.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.RequireAdmin(r.Context()); err != nil {
		render.Error(w, r, err)
		return
	}
	externalID := strings.Trim(chi.URLParam(r, "*"), "/")
	if externalID == "" {
		render.Error(w, r, apperr.Validation("Image id is required"))
		return
	}
	n := h.janitor.Discard(r.Context(), models.Image{ExternalID: externalID})
	render.OK(w, "File removed", map[string]bool{"deleted": n > 0})
}

// detectType trusts the sniffed type for raster images. SVG sniffs as
// text, so the declared type is kept when the content looks textual.
func detectType(declared string, head []byte) string {
	sniffed := http.DetectContentType(head)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared == "image/svg+xml" && strings.HasPrefix(sniffed, "text/") {
		return declared
	}
	return sniffed
}
