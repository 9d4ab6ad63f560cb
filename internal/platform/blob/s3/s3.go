// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package s3 implements [blob.Store] on top of aws-sdk-go-v2.

It targets AWS S3 as well as S3-compatible services such as Cloudflare R2.
A custom endpoint switches the client to that host; path-style addressing
is opt-in because R2 and most self-hosted gateways do not need it.
*/
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/memry/photobook/internal/platform/blob"
)

// Options configures the S3 driver.
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PathStyle bool

	// PublicBaseURL, when set, is used for retrieval URLs instead of presigned GETs.
	PublicBaseURL string

	// PresignGetTTL is the lifetime of presigned retrieval URLs.
	PresignGetTTL time.Duration
}

// Store is the aws-sdk-go-v2 backed [blob.Store].
type Store struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	options Options
}

var _ blob.Store = (*Store)(nil)

/*
New builds an S3 client from the given options.

Static credentials are used when an access key is configured; otherwise the
default AWS credential chain applies (env, shared config, instance role).
*/
func New(context context.Context, options Options) (*Store, error) {
	if options.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	loadOptions := []func(*config.LoadOptions) error{
		config.WithRegion(options.Region),
	}
	if options.AccessKey != "" {
		loadOptions = append(loadOptions, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(context, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsConfig, func(o *awss3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
		}
		o.UsePathStyle = options.PathStyle
	})

	return &Store{
		client:  client,
		presign: awss3.NewPresignClient(client),
		options: options,
	}, nil
}

// PresignUpload issues a presigned PUT for key.
func (store *Store) PresignUpload(context context.Context, key, contentType string, ttl time.Duration) (*blob.UploadTarget, error) {
	input := &awss3.PutObjectInput{
		Bucket: aws.String(store.options.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	request, err := store.presign.PresignPutObject(context, input, awss3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("s3: presign put %q: %w", key, err)
	}

	return blob.NewUploadTarget(key, request.URL, contentType, time.Now().Add(ttl)), nil
}

// Put uploads body under key.
func (store *Store) Put(context context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &awss3.PutObjectInput{
		Bucket: aws.String(store.options.Bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := store.client.PutObject(context, input); err != nil {
		return fmt.Errorf("s3: put %q: %w", key, err)
	}
	return nil
}

// Exists issues a HEAD request for key.
func (store *Store) Exists(context context.Context, key string) (bool, error) {
	_, err := store.client.HeadObject(context, &awss3.HeadObjectInput{
		Bucket: aws.String(store.options.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("s3: head %q: %w", key, err)
}

// URL returns the public URL when a public base is configured, a presigned GET otherwise.
func (store *Store) URL(context context.Context, key string) (string, error) {
	if store.options.PublicBaseURL != "" {
		return blob.PublicURL(store.options.PublicBaseURL, key), nil
	}

	request, err := store.presign.PresignGetObject(context, &awss3.GetObjectInput{
		Bucket: aws.String(store.options.Bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(store.options.PresignGetTTL))
	if err != nil {
		return "", fmt.Errorf("s3: presign get %q: %w", key, err)
	}
	return request.URL, nil
}

// Delete removes key. S3 reports success for keys that do not exist.
func (store *Store) Delete(context context.Context, key string) error {
	_, err := store.client.DeleteObject(context, &awss3.DeleteObjectInput{
		Bucket: aws.String(store.options.Bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("s3: delete %q: %w", key, err)
	}
	return nil
}

// Ping checks the bucket with a HEAD request.
func (store *Store) Ping(context context.Context) error {
	_, err := store.client.HeadBucket(context, &awss3.HeadBucketInput{
		Bucket: aws.String(store.options.Bucket),
	})
	if err != nil {
		return fmt.Errorf("s3: head bucket %q: %w", store.options.Bucket, err)
	}
	return nil
}

// isNotFound recognises the typed 404 errors and the generic API codes
// returned by S3-compatible services that do not model them.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}

	var responseErr interface{ HTTPStatusCode() int }
	if errors.As(err, &responseErr) {
		return responseErr.HTTPStatusCode() == http.StatusNotFound
	}

	return false
}
