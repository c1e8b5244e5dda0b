// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markup cleans HTML bodies coming from the rich-text editor and
// derives plain-text facts (word count, read time) from them.
package markup

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// WordsPerMinute is the reading speed used for read-time estimates.
const WordsPerMinute = 200

// Policies are safe for concurrent use once built.
var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Sanitize strips scripts, event handlers and unsafe URLs from an editor
// body while keeping ordinary formatting.
func Sanitize(body string) string {
	return ugc.Sanitize(body)
}

// StripTags removes every tag and decodes entities, leaving the text content.
// Block boundaries become spaces so adjacent paragraphs don't merge words.
func StripTags(body string) string {
	spaced := strings.NewReplacer("<", " <", ">", "> ").Replace(body)
	return html.UnescapeString(strict.Sanitize(spaced))
}

// WordCount counts whitespace-separated words in the text content of body.
func WordCount(body string) int {
	return len(strings.Fields(StripTags(body)))
}

// ReadTime estimates minutes to read body at WordsPerMinute, rounding up.
// The result is never below one minute.
func ReadTime(body string) int {
	words := WordCount(body)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt returns up to n words of body's text content, with an ellipsis
// when truncated.
func Excerpt(body string, n int) string {
	words := strings.Fields(StripTags(body))
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "…"
}
