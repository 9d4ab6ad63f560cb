// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package minio implements [blob.Store] with the minio-go client.

It is the default for local development where a MinIO container stands in
for the production bucket.
*/
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/memry/photobook/internal/platform/blob"
)

// Options configures the MinIO driver.
type Options struct {

	// Endpoint is host:port, optionally prefixed with http:// or https://.
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PathStyle bool

	// PublicBaseURL, when set, is used for retrieval URLs instead of presigned GETs.
	PublicBaseURL string

	// PresignGetTTL is the lifetime of presigned retrieval URLs.
	PresignGetTTL time.Duration
}

// Store is the minio-go backed [blob.Store].
type Store struct {
	client  *miniogo.Client
	options Options
}

var _ blob.Store = (*Store)(nil)

// New creates the MinIO client. No network call is made until first use.
func New(options Options) (*Store, error) {
	if options.Bucket == "" {
		return nil, errors.New("minio: bucket is required")
	}

	host, secure, err := splitEndpoint(options.Endpoint, options.UseSSL)
	if err != nil {
		return nil, err
	}

	clientOptions := &miniogo.Options{
		Creds:  credentials.NewStaticV4(options.AccessKey, options.SecretKey, ""),
		Secure: secure,
		Region: options.Region,
	}
	if options.PathStyle {
		clientOptions.BucketLookup = miniogo.BucketLookupPath
	}

	client, err := miniogo.New(host, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("minio: create client: %w", err)
	}

	return &Store{client: client, options: options}, nil
}

// PresignUpload issues a presigned PUT for key.
func (store *Store) PresignUpload(context context.Context, key, contentType string, ttl time.Duration) (*blob.UploadTarget, error) {
	signed, err := store.client.PresignedPutObject(context, store.options.Bucket, key, ttl)
	if err != nil {
		return nil, fmt.Errorf("minio: presign put %q: %w", key, err)
	}
	return blob.NewUploadTarget(key, signed.String(), contentType, time.Now().Add(ttl)), nil
}

// Put uploads body under key.
func (store *Store) Put(context context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := store.client.PutObject(context, store.options.Bucket, key, body, size, miniogo.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio: put %q: %w", key, err)
	}
	return nil
}

// Exists stats key.
func (store *Store) Exists(context context.Context, key string) (bool, error) {
	_, err := store.client.StatObject(context, store.options.Bucket, key, miniogo.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("minio: stat %q: %w", key, err)
}

// URL returns the public URL when a public base is configured, a presigned GET otherwise.
func (store *Store) URL(context context.Context, key string) (string, error) {
	if store.options.PublicBaseURL != "" {
		return blob.PublicURL(store.options.PublicBaseURL, key), nil
	}

	signed, err := store.client.PresignedGetObject(context, store.options.Bucket, key, store.options.PresignGetTTL, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio: presign get %q: %w", key, err)
	}
	return signed.String(), nil
}

// Delete removes key.
func (store *Store) Delete(context context.Context, key string) error {
	err := store.client.RemoveObject(context, store.options.Bucket, key, miniogo.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("minio: remove %q: %w", key, err)
	}
	return nil
}

// Ping checks that the bucket exists.
func (store *Store) Ping(context context.Context) error {
	exists, err := store.client.BucketExists(context, store.options.Bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket exists %q: %w", store.options.Bucket, err)
	}
	if !exists {
		return fmt.Errorf("minio: bucket %q does not exist", store.options.Bucket)
	}
	return nil
}

// # Helpers

// splitEndpoint accepts both "host:port" and "scheme://host:port".
// An explicit scheme overrides the UseSSL flag.
func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if endpoint == "" {
		return "", false, errors.New("minio: endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), useSSL, nil
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("minio: invalid endpoint %q: %w", endpoint, err)
	}
	return parsed.Host, parsed.Scheme == "https", nil
}

func isNotFound(err error) bool {
	response := miniogo.ToErrorResponse(err)
	switch response.Code {
	case "NoSuchKey", "NotFound":
		return true
	case "NoSuchBucket":
		return false
	}
	return response.StatusCode == http.StatusNotFound
}
