// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"math"

	"github.com/google/uuid"
)

// Paging defaults applied when a caller omits or exceeds the limits.
const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	// MaxPage keeps the row offset within a 32-bit integer.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// StatusFilter narrows post listings; "all" disables the filter.
type StatusFilter string

const (
	StatusFilterAll       StatusFilter = "all"
	StatusFilterPublished StatusFilter = "published"
	StatusFilterDraft     StatusFilter = "draft"
)

// ListQuery is the caller-facing list request shared by all catalog types.
type ListQuery struct {
	Page         int
	PageSize     int
	Search       string
	CategorySlug string
	Status       StatusFilter
}

// Normalize clamps page and page size into their valid ranges.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Status == "" {
		q.Status = StatusFilterAll
	}
	return q
}

// Offset returns the number of rows to skip for the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ListFilter is the store-level form of a ListQuery, with the category
// slug already resolved to an id.
type ListFilter struct {
	Limit      int
	Offset     int
	Search     string
	CategoryID *uuid.UUID
	Status     *ContentStatus
}

// Pagination describes the page a result set belongs to.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes total pages as ceil(total/pageSize).
func NewPagination(total, page, pageSize int) Pagination {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return Pagination{Total: total, Page: page, PageSize: pageSize, TotalPages: pages}
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// EmptyPage returns a page with no items and zero total pages.
func EmptyPage[T any](page, pageSize int) *Page[T] {
	return &Page[T]{Items: []T{}, Pagination: NewPagination(0, page, pageSize)}
}
