// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "api:"

	// DefaultTTL is how long a public response stays cached.
	DefaultTTL = 5 * time.Minute

	// maxBody skips caching for unusually large responses.
	maxBody = 1 << 20

	// headerCache reports HIT or MISS to clients.
	headerCache = "X-Cache"
)

// ResponseCache stores successful public GET responses in Valkey so
// repeated listing and detail requests skip the database. Admin writes
// invalidate by collection. A nil *ResponseCache is valid and caches
// nothing.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache returns a ResponseCache. A zero ttl uses DefaultTTL.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Key returns the cache key for a request: the path plus the query
// string with parameters sorted, so ?a=1&b=2 and ?b=2&a=1 share an entry.
func Key(r *http.Request) string {
	key := keyPrefix + r.URL.Path
	if q := r.URL.Query(); len(q) > 0 {
		key += "?" + q.Encode()
	}
	return key
}

// CollectionPrefix returns the key prefix shared by every cached response
// under /api/<collection>.
func CollectionPrefix(collection string) string {
	return keyPrefix + "/api/" + collection
}

// Get returns the cached body for key.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores body under key with the configured TTL.
func (c *ResponseCache) Set(ctx context.Context, key string, body []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Invalidate drops every cached response under /api/<collection>.
func (c *ResponseCache) Invalidate(ctx context.Context, collection string) {
	c.deletePattern(ctx, CollectionPrefix(collection)+"*")
}

// InvalidateAll drops every cached response. Category edits use it since
// category names are embedded in every content listing.
func (c *ResponseCache) InvalidateAll(ctx context.Context) {
	c.deletePattern(ctx, keyPrefix+"*")
}

func (c *ResponseCache) deletePattern(ctx context.Context, pattern string) {
	if c == nil {
		return
	}
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("response cache scan error", "pattern", pattern, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("response cache delete error", "pattern", pattern, "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("response cache invalidated", "pattern", pattern, "deleted", deleted)
	}
}

// Middleware serves cached GET responses and records fresh 200 responses.
// Requests carrying a session cookie bypass the cache.
func (c *ResponseCache) Middleware(skipCookie string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c == nil || r.Method != http.MethodGet || hasCookie(r, skipCookie) {
				next.ServeHTTP(w, r)
				return
			}

			key := Key(r)
			if body, ok := c.Get(r.Context(), key); ok {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set(headerCache, "HIT")
				w.WriteHeader(http.StatusOK)
				w.Write(body)
				return
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set(headerCache, "MISS")
			next.ServeHTTP(rec, r)

			if rec.status == http.StatusOK && !rec.overflow &&
				strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
				c.Set(r.Context(), key, rec.buf.Bytes())
			}
		})
	}
}

func hasCookie(r *http.Request, name string) bool {
	if name == "" {
		return false
	}
	_, err := r.Cookie(name)
	return err == nil
}

// recorder passes the response through while keeping a copy of the body.
type recorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	overflow bool
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.buf.Len()+len(b) > maxBody {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}
