// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Folio entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Lookups that find nothing return (nil, nil).
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"folio/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// IsUniqueViolation reports whether err came from a unique constraint,
// e.g. a slug or email that another row already holds.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// jsonColumn decodes a JSON or JSONB column (including array_to_json
// output) into dst. NULL leaves dst untouched.
type jsonColumn[T any] struct {
	dst *T
}

func (c jsonColumn[T]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, c.dst)
	case string:
		return json.Unmarshal([]byte(v), c.dst)
	default:
		return fmt.Errorf("json column: unsupported source %T", src)
	}
}

// jsonArg encodes v for a JSONB parameter. Nil slices become [].
func jsonArg(v any) ([]byte, error) {
	switch s := v.(type) {
	case []models.Image:
		if s == nil {
			return []byte("[]"), nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json arg: %w", err)
	}
	return b, nil
}

// textArray normalizes a string slice for a TEXT[] parameter.
func textArray(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// uuidArray renders ids for a "$n::text[]::uuid[]" parameter.
func uuidArray(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// likePattern wraps s in % wildcards, escaping LIKE metacharacters so the
// search matches s literally.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// categoryRef builds the embedded category summary from LEFT JOIN columns.
func categoryRef(id uuid.NullUUID, name, slug *string) *models.CategoryRef {
	if !id.Valid || name == nil || slug == nil {
		return nil
	}
	return &models.CategoryRef{ID: id.UUID, Name: *name, Slug: *slug}
}
