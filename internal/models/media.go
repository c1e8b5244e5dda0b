// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Image is a reference to a file held by the external media host. The
// application never builds these URLs itself; it stores what the host returns.
type Image struct {
	URL        string `json:"url"`
	ExternalID string `json:"external_id"`
}

// IsZero reports whether the reference is empty.
func (i Image) IsZero() bool {
	return i.URL == "" && i.ExternalID == ""
}

// withoutImage returns images minus every entry whose ExternalID matches.
func withoutImage(images []Image, externalID string) []Image {
	out := make([]Image, 0, len(images))
	for _, img := range images {
		if img.ExternalID != externalID {
			out = append(out, img)
		}
	}
	return out
}

// mediaRefs collects the thumbnail and extra images that exist on the host.
func mediaRefs(thumb Image, extra []Image) []Image {
	var refs []Image
	if thumb.ExternalID != "" {
		refs = append(refs, thumb)
	}
	for _, img := range extra {
		if img.ExternalID != "" {
			refs = append(refs, img)
		}
	}
	return refs
}
