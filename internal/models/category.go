// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType partitions categories by the content collection that uses them.
type CategoryType string

const (
	CategoryTypePost     CategoryType = "post"
	CategoryTypeProject  CategoryType = "project"
	CategoryTypeTemplate CategoryType = "template"
	CategoryTypeStudy    CategoryType = "study"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypePost, CategoryTypeProject, CategoryTypeTemplate, CategoryTypeStudy:
		return true
	}
	return false
}

// CategoryStatus toggles whether a category is offered to editors.
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

// Category is a node in a per-type category forest. Ancestors holds the
// chain of ids from the root down to the parent, so Depth always equals
// len(Ancestors).
type Category struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Type        CategoryType   `json:"type"`
	Status      CategoryStatus `json:"status"`
	ParentID    *uuid.UUID     `json:"parent_id"`
	Ancestors   []uuid.UUID    `json:"ancestors"`
	Depth       int            `json:"depth"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Virtual fields populated by store and service methods.
	ParentName string     `json:"parent_name,omitempty"`
	Children   []Category `json:"children,omitempty"`
}

// IsRoot returns true if the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Lineage returns the ancestor chain a child of c inherits: c's own
// ancestors followed by c's id.
func (c *Category) Lineage() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(c.Ancestors)+1)
	out = append(out, c.Ancestors...)
	return append(out, c.ID)
}

// HasAncestor reports whether id appears in c's ancestor chain.
func (c *Category) HasAncestor(id uuid.UUID) bool {
	for _, a := range c.Ancestors {
		if a == id {
			return true
		}
	}
	return false
}

// CategoryRef is the eagerly-resolved category summary embedded in content.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}
