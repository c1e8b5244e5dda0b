// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"folio/internal/auth"
	"folio/internal/media"
	"folio/internal/models"
)

var (
	testNow    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	errStore   = errors.New("connection reset")
	uniqueErr  = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	quietLog   = slog.New(slog.NewTextHandler(io.Discard, nil))
	thumbnail  = &models.Image{URL: "https://media.example/thumb.jpg", ExternalID: "folio/posts/thumb.jpg"}
	principals = map[models.Role]uuid.UUID{}
)

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func testOptions(c *clock) []Option {
	return []Option{WithClock(c.now), WithLogger(quietLog)}
}

func ctxAs(role models.Role) context.Context {
	id, ok := principals[role]
	if !ok {
		id = uuid.New()
		principals[role] = id
	}
	return auth.NewContext(context.Background(), &auth.Principal{UserID: id, Email: string(role) + "@folio.test", Role: role, TwoFADone: true})
}

func adminCtx() context.Context { return ctxAs(models.RoleAdmin) }

// fakeRepo is an in-memory Repository for any content type.
type fakeRepo[T any, P document[T]] struct {
	items    []*T
	assignID func(*T)

	listErr    error
	createErr  error
	deleteErr  error
	uniqueHits int // forced unique violations before a write succeeds

	listCalls  int
	lastFilter models.ListFilter
	creates    int
	updates    int
	deleted    []uuid.UUID
	pulled     []string
}

func newFakeRepo[T any, P document[T]](assignID func(*T)) *fakeRepo[T, P] {
	return &fakeRepo[T, P]{assignID: assignID}
}

func (r *fakeRepo[T, P]) List(_ context.Context, f models.ListFilter) ([]T, int, error) {
	r.listCalls++
	r.lastFilter = f
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var matched []T
	for i := len(r.items) - 1; i >= 0; i-- {
		doc := P(r.items[i])
		if f.Search != "" && !strings.Contains(strings.ToLower(doc.SlugSource()), strings.ToLower(f.Search)) &&
			!strings.Contains(doc.CurrentSlug(), strings.ToLower(f.Search)) {
			continue
		}
		if f.CategoryID != nil && (doc.CategoryRef() == nil || *doc.CategoryRef() != *f.CategoryID) {
			continue
		}
		if f.Status != nil && *f.Status == models.ContentStatusPublished && !doc.IsPublished() {
			continue
		}
		matched = append(matched, *r.items[i])
	}
	total := len(matched)
	if f.Offset >= total {
		return []T{}, total, nil
	}
	end := min(f.Offset+f.Limit, total)
	return matched[f.Offset:end], total, nil
}

func (r *fakeRepo[T, P]) find(match func(P) bool) *T {
	for _, item := range r.items {
		if match(P(item)) {
			c := *item
			return &c
		}
	}
	return nil
}

func (r *fakeRepo[T, P]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	return r.find(func(d P) bool { return d.Key() == id }), nil
}

func (r *fakeRepo[T, P]) FindBySlug(_ context.Context, s string) (*T, error) {
	return r.find(func(d P) bool { return d.CurrentSlug() == s }), nil
}

func (r *fakeRepo[T, P]) SlugExists(_ context.Context, s string, exclude uuid.UUID) (bool, error) {
	return r.find(func(d P) bool { return d.CurrentSlug() == s && d.Key() != exclude }) != nil, nil
}

func (r *fakeRepo[T, P]) Count(_ context.Context, status *models.ContentStatus) (int, error) {
	n := 0
	for _, item := range r.items {
		if status == nil || (*status == models.ContentStatusPublished) == P(item).IsPublished() {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo[T, P]) violates(doc P) bool {
	if r.uniqueHits > 0 {
		r.uniqueHits--
		return true
	}
	taken, _ := r.SlugExists(context.Background(), doc.CurrentSlug(), doc.Key())
	return taken
}

func (r *fakeRepo[T, P]) Create(_ context.Context, item *T) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.violates(P(item)) {
		return uniqueErr
	}
	r.assignID(item)
	c := *item
	r.items = append(r.items, &c)
	r.creates++
	return nil
}

func (r *fakeRepo[T, P]) Update(_ context.Context, item *T) error {
	if r.violates(P(item)) {
		return uniqueErr
	}
	for i, existing := range r.items {
		if P(existing).Key() == P(item).Key() {
			c := *item
			r.items[i] = &c
			r.updates++
			return nil
		}
	}
	return errors.New("no rows updated")
}

func (r *fakeRepo[T, P]) Delete(_ context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.items = slices.DeleteFunc(r.items, func(item *T) bool { return P(item).Key() == id })
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRepo[T, P]) PullImage(_ context.Context, _ uuid.UUID, externalID string) error {
	r.pulled = append(r.pulled, externalID)
	return nil
}

type fakeProjects struct {
	*fakeRepo[models.Project, *models.Project]
	featuredLimit int
}

func (f *fakeProjects) ListFeatured(_ context.Context, limit int) ([]models.Project, error) {
	f.featuredLimit = limit
	var out []models.Project
	for _, p := range f.items {
		if p.IsFeatured && p.IsPublished() && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newPostRepo() *fakeRepo[models.Post, *models.Post] {
	return newFakeRepo[models.Post, *models.Post](func(p *models.Post) { p.ID = uuid.New() })
}

func newProjectRepo() *fakeProjects {
	return &fakeProjects{fakeRepo: newFakeRepo[models.Project, *models.Project](func(p *models.Project) { p.ID = uuid.New() })}
}

func newTemplateRepo() *fakeRepo[models.WebTemplate, *models.WebTemplate] {
	return newFakeRepo[models.WebTemplate, *models.WebTemplate](func(t *models.WebTemplate) { t.ID = uuid.New() })
}

// fakeCategories is an in-memory CategoryRepository. Update rewrites
// descendants the way the SQL store does.
type fakeCategories struct {
	items      []*models.Category
	uniqueHits int
	deleted    []uuid.UUID
}

func (f *fakeCategories) add(name string, typ models.CategoryType, parent *models.Category) *models.Category {
	c := &models.Category{ID: uuid.New(), Name: name, Slug: strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Type: typ, Status: models.CategoryStatusActive, Ancestors: []uuid.UUID{}}
	if parent != nil {
		c.ParentID = &parent.ID
		c.Ancestors = parent.Lineage()
	}
	c.Depth = len(c.Ancestors)
	f.items = append(f.items, c)
	return c
}

func (f *fakeCategories) get(id uuid.UUID) *models.Category {
	for _, c := range f.items {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeCategories) List(_ context.Context, typ *models.CategoryType) ([]models.Category, error) {
	var out []models.Category
	for i := len(f.items) - 1; i >= 0; i-- {
		if typ == nil || f.items[i].Type == *typ {
			out = append(out, *f.items[i])
		}
	}
	return out, nil
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	if c := f.get(id); c != nil {
		cp := *c
		cp.Ancestors = slices.Clone(c.Ancestors)
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCategories) FindBySlug(_ context.Context, s string, typ models.CategoryType) (*models.Category, error) {
	for _, c := range f.items {
		if c.Slug == s && c.Type == typ {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) FindMany(_ context.Context, ids []uuid.UUID) ([]models.Category, error) {
	var out []models.Category
	for _, id := range ids {
		if c := f.get(id); c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCategories) SlugExists(_ context.Context, s string, exclude uuid.UUID) (bool, error) {
	for _, c := range f.items {
		if c.Slug == s && c.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) HasChildren(_ context.Context, id uuid.UUID) (bool, error) {
	for _, c := range f.items {
		if c.ParentID != nil && *c.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) error {
	if f.uniqueHits > 0 {
		f.uniqueHits--
		return uniqueErr
	}
	c.ID = uuid.New()
	c.Depth = len(c.Ancestors)
	cp := *c
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeCategories) Update(_ context.Context, c *models.Category) (int64, error) {
	existing := f.get(c.ID)
	if existing == nil {
		return 0, errors.New("no rows updated")
	}
	c.Depth = len(c.Ancestors)
	*existing = *c
	existing.Ancestors = slices.Clone(c.Ancestors)

	var moved int64
	for _, d := range f.items {
		idx := slices.Index(d.Ancestors, c.ID)
		if idx < 0 {
			continue
		}
		d.Ancestors = append(slices.Clone(c.Ancestors), d.Ancestors[idx:]...)
		d.Depth = len(d.Ancestors)
		moved++
	}
	return moved, nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) error {
	f.items = slices.DeleteFunc(f.items, func(c *models.Category) bool { return c.ID == id })
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeHost records media deletes and fails for ids in failOn.
type fakeHost struct {
	deleted []string
	failOn  map[string]bool
}

func (h *fakeHost) Delete(_ context.Context, externalID string) error {
	if h.failOn[externalID] {
		return errors.New("media host unavailable")
	}
	h.deleted = append(h.deleted, externalID)
	return nil
}

func newJanitor(h *fakeHost) *media.Janitor {
	return media.NewJanitor(h, quietLog)
}

// fakeUsers is an in-memory UserRepository.
type fakeUsers struct {
	users    []*models.User
	touched  []uuid.UUID
	touchErr error
}

func (f *fakeUsers) get(id uuid.UUID) *models.User {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeUsers) copyOf(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return f.copyOf(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.copyOf(f.get(id)), nil
}

func (f *fakeUsers) List(_ context.Context, limit, offset int) ([]models.User, int, error) {
	var out []models.User
	for i, u := range f.users {
		if i >= offset && len(out) < limit {
			out = append(out, *u)
		}
	}
	return out, len(f.users), nil
}

func (f *fakeUsers) Create(_ context.Context, name, email, password string, role models.Role) (*models.User, error) {
	if u, _ := f.FindByEmail(context.Background(), email); u != nil {
		return nil, uniqueErr
	}
	hash := "hashed:" + password
	u := &models.User{ID: uuid.New(), Name: name, Email: email, Role: role, Provider: models.ProviderCredentials,
		PasswordHash: &hash, IsActive: true}
	f.users = append(f.users, u)
	return f.copyOf(u), nil
}

func (f *fakeUsers) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	f.touched = append(f.touched, id)
	return f.touchErr
}

func (f *fakeUsers) SetRole(_ context.Context, id uuid.UUID, role models.Role) error {
	f.get(id).Role = role
	return nil
}

func (f *fakeUsers) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.get(id).IsActive = active
	return nil
}

func (f *fakeUsers) SetTOTPSecret(_ context.Context, id uuid.UUID, secret string) error {
	f.get(id).TOTPSecret = &secret
	return nil
}

func (f *fakeUsers) EnableTOTP(_ context.Context, id uuid.UUID) error {
	f.get(id).TOTPEnabled = true
	return nil
}

func (f *fakeUsers) ResetTOTP(_ context.Context, id uuid.UUID) error {
	u := f.get(id)
	u.TOTPSecret, u.TOTPEnabled = nil, false
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	f.users = slices.DeleteFunc(f.users, func(u *models.User) bool { return u.ID == id })
	return nil
}

// fakeMessages is an in-memory MessageRepository.
type fakeMessages struct {
	items []*models.Message
}

func (f *fakeMessages) Create(_ context.Context, m *models.Message) error {
	m.ID = uuid.New()
	m.CreatedAt = testNow
	c := *m
	f.items = append(f.items, &c)
	return nil
}

func (f *fakeMessages) FindByID(_ context.Context, id uuid.UUID) (*models.Message, error) {
	for _, m := range f.items {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeMessages) List(_ context.Context, unreadOnly bool, limit, offset int) ([]models.Message, int, error) {
	var matched []models.Message
	for _, m := range f.items {
		if !unreadOnly || !m.IsRead {
			matched = append(matched, *m)
		}
	}
	if offset >= len(matched) {
		return nil, len(matched), nil
	}
	return matched[offset:min(offset+limit, len(matched))], len(matched), nil
}

func (f *fakeMessages) CountUnread(_ context.Context) (int, error) {
	n := 0
	for _, m := range f.items {
		if !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id uuid.UUID) (bool, error) {
	for _, m := range f.items {
		if m.ID == id {
			m.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMessages) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	n := len(f.items)
	f.items = slices.DeleteFunc(f.items, func(m *models.Message) bool { return m.ID == id })
	return len(f.items) < n, nil
}
