// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage is the media host client. It stores uploaded images in an
// S3-compatible bucket and hands back {url, external_id} references; the
// external id is the object key and is all that is needed to delete it.
// Path-style addressing is used so CEPH/Hetzner endpoints work.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"folio/internal/models"
)

// ErrUnsupportedType is returned for uploads that are not web images.
var ErrUnsupportedType = errors.New("unsupported media type")

// allowedTypes maps accepted image MIME types to the extension used in keys.
var allowedTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/avif":    ".avif",
	"image/svg+xml": ".svg",
}

// Options configures a Client.
type Options struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // optional CDN/direct URL for objects
	KeyPrefix string // folder all keys are created under
}

// Client wraps an S3 client bound to one public bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string
	prefix    string
	now       func() time.Time
}

// New creates a storage client. Returns (nil, nil) if endpoint or
// credentials are empty, allowing the app to start without media.
func New(opts Options) (*Client, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, nil
	}
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket name is required")
	}

	endpoint := strings.TrimRight(opts.Endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       opts.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    opts.Bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(opts.PublicURL, "/"),
		prefix:    strings.Trim(opts.KeyPrefix, "/"),
		now:       time.Now,
	}, nil
}

// ExtensionFor returns the key extension for an accepted content type.
func ExtensionFor(contentType string) (string, bool) {
	ext, ok := allowedTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// Upload stores an image with public-read ACL and returns its reference.
// folder groups objects by owner collection, e.g. "posts" or "projects".
func (c *Client) Upload(ctx context.Context, folder, contentType string, body io.Reader, size int64) (models.Image, error) {
	ext, ok := ExtensionFor(contentType)
	if !ok {
		return models.Image{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	key := c.objectKey(folder, ext)

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return models.Image{URL: c.FileURL(key), ExternalID: key}, nil
}

// Delete removes the object identified by externalID.
func (c *Client) Delete(ctx context.Context, externalID string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(externalID),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, externalID, err)
	}
	return nil
}

// FileURL returns the public URL for key. Uses the configured public URL
// if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// ExtractKey recovers the object key from a URL produced by FileURL.
// Returns ("", false) if the URL doesn't belong to this storage.
func (c *Client) ExtractKey(rawURL string) (string, bool) {
	if c.publicURL != "" {
		prefix := c.publicURL + "/"
		if strings.HasPrefix(rawURL, prefix) {
			return rawURL[len(prefix):], true
		}
	}

	prefix := c.endpoint + "/" + c.bucket + "/"
	if strings.HasPrefix(rawURL, prefix) {
		return rawURL[len(prefix):], true
	}

	return "", false
}

// objectKey builds "<prefix>/<folder>/<yyyy>/<mm>/<uuid><ext>".
func (c *Client) objectKey(folder, ext string) string {
	now := c.now().UTC()
	return path.Join(
		c.prefix,
		strings.Trim(folder, "/"),
		now.Format("2006"),
		now.Format("01"),
		uuid.NewString()+ext,
	)
}
