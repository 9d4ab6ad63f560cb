// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blob defines the object storage contract used for customer photos.

The application never inspects photo bytes. It only issues write targets,
proxies uploads, checks existence and turns storage keys into retrieval URLs.

# Drivers

  - [github.com/memry/photobook/internal/platform/blob/s3]: AWS S3 and S3-compatible
    endpoints (Cloudflare R2) via aws-sdk-go-v2.
  - [github.com/memry/photobook/internal/platform/blob/minio]: MinIO via minio-go.

Both drivers are selected at startup from BLOB_DRIVER and satisfy [Store].
*/
package blob

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/memry/photobook/internal/platform/constants"
	"github.com/memry/photobook/pkg/slug"
	"github.com/memry/photobook/pkg/uuid"
)

// ErrNotFound is returned by drivers when a key has no object behind it.
var ErrNotFound = errors.New("blob: object not found")

// # Contract

// Store is the minimal object storage surface needed by the photo register.
type Store interface {

	// PresignUpload issues a one-shot write target for key, valid for ttl.
	PresignUpload(context context.Context, key, contentType string, ttl time.Duration) (*UploadTarget, error)

	// Put streams body to key. A negative size means unknown length.
	Put(context context.Context, key string, body io.Reader, size int64, contentType string) error

	// Exists reports whether an object is stored under key.
	Exists(context context.Context, key string) (bool, error)

	// URL returns a retrieval URL for key without checking that it exists.
	URL(context context.Context, key string) (string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(context context.Context, key string) error

	// Ping verifies the bucket is reachable (readiness check).
	Ping(context context.Context) error
}

// UploadTarget describes where and how a client must PUT the photo bytes.
type UploadTarget struct {
	StorageID string            `json:"storageId"`
	URL       string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// NewUploadTarget fills the fields shared by every driver.
func NewUploadTarget(key, url, contentType string, expiresAt time.Time) *UploadTarget {
	target := &UploadTarget{
		StorageID: key,
		URL:       url,
		Method:    http.MethodPut,
		ExpiresAt: expiresAt,
	}
	if contentType != "" {
		target.Headers = map[string]string{"Content-Type": contentType}
	}
	return target
}

// # Keys

// NewKey builds a collision-free storage key for an uploaded file.
//
// Format: uploads/<uuidv7>/<slugged filename>.
func NewKey(filename string) string {
	return constants.UploadKeyPrefix + uuid.New() + "/" + slug.Filename(filename)
}

// IsUploadKey reports whether key was produced by [NewKey].
//
// Clients send storage ids back when attaching photos; anything outside the
// upload prefix (or trying to climb out of it) is rejected before reaching a driver.
func IsUploadKey(key string) bool {
	if !strings.HasPrefix(key, constants.UploadKeyPrefix) {
		return false
	}
	if strings.Contains(key, "..") || strings.Contains(key, "//") {
		return false
	}
	parts := strings.Split(strings.TrimPrefix(key, constants.UploadKeyPrefix), "/")
	return len(parts) == 2 && uuid.IsValid(parts[0]) && parts[1] != ""
}

// PublicURL joins a CDN/public bucket base URL and a key.
func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}
