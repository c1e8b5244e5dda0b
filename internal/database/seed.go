// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"folio/internal/slug"
)

//go:embed fixtures/categories.yaml
var categoryFixture []byte

// SeedOptions controls the development seed account.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// seedCategory is one node of the YAML category fixture.
type seedCategory struct {
	Name        string         `yaml:"name"`
	Type        string         `yaml:"type"`
	Description string         `yaml:"description"`
	Children    []seedCategory `yaml:"children"`
}

// parseCategoryFixture decodes the embedded category forest.
func parseCategoryFixture(data []byte) ([]seedCategory, error) {
	var roots []seedCategory
	if err := yaml.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("parse category fixture: %w", err)
	}
	return roots, nil
}

// Seed populates the database with initial development data.
// It creates a default admin user if no users exist and a starter category
// forest if no categories exist. Both steps are skipped on populated tables.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	if err := seedAdmin(ctx, db, opts); err != nil {
		return err
	}
	return seedCategories(ctx, db)
}

func seedAdmin(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// The seed account is a superAdmin so it can promote others.
	_, err = db.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, role, provider)
		VALUES ($1, $2, $3, 'superAdmin', 'credentials')
	`, "Admin", opts.AdminEmail, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user", "email", opts.AdminEmail)
	return nil
}

func seedCategories(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("categories already seeded, skipping")
		return nil
	}

	roots, err := parseCategoryFixture(categoryFixture)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var insert func(nodes []seedCategory, parent *uuid.UUID, ancestors []string) error
	insert = func(nodes []seedCategory, parent *uuid.UUID, ancestors []string) error {
		for _, n := range nodes {
			id := uuid.New()
			_, err := tx.ExecContext(ctx, `
				INSERT INTO categories (id, name, slug, description, type, parent_id, ancestors, depth)
				VALUES ($1, $2, $3, $4, $5, $6, $7::text[]::uuid[], $8)
			`, id, n.Name, slug.Generate(n.Name), n.Description, n.Type, parent, ancestors, len(ancestors))
			if err != nil {
				return fmt.Errorf("seed insert category %q: %w", n.Name, err)
			}
			lineage := append(append([]string{}, ancestors...), id.String())
			if err := insert(n.Children, &id, lineage); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(roots, nil, []string{}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with starter categories", "roots", len(roots))
	return nil
}
