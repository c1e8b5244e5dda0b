// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and the timestamp-suffix policy used to de-duplicate colliding slugs.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// fold strips combining marks after canonical decomposition, so "é"
	// becomes "e".
	fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	// letters covers Latin letters that have no decomposition.
	letters = strings.NewReplacer("ß", "ss", "æ", "ae", "œ", "oe", "ø", "o", "đ", "d", "ł", "l", "þ", "th", "ı", "i")
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of spaces, tabs and newlines.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string. Accented
// Latin letters are folded to ASCII; other scripts are dropped, so the
// result may be empty.
// Example: "Café Résumé 2026" → "cafe-resume-2026"
func Generate(s string) string {
	result, _, err := transform.String(fold, s)
	if err != nil {
		result = s
	}
	result = letters.Replace(strings.ToLower(strings.TrimSpace(result)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// WithSuffix appends a numeric discriminator to base, producing
// "base-<stamp>". Callers pass a millisecond timestamp.
func WithSuffix(base string, stamp int64) string {
	return base + "-" + strconv.FormatInt(stamp, 10)
}

// Fallback returns the slug used when text yields no slug characters:
// prefix followed by a millisecond timestamp, e.g. "post-1767225600000".
func Fallback(prefix string, t time.Time) string {
	return WithSuffix(Generate(prefix), t.UnixMilli())
}

// Stamp returns the discriminator for the given time and retry attempt.
// Each attempt yields a distinct value even within the same millisecond.
func Stamp(t time.Time, attempt int) int64 {
	return t.UnixMilli() + int64(attempt)
}
