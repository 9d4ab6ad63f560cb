// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/blob"
	"github.com/memry/photobook/internal/platform/validate"
	"github.com/memry/photobook/pkg/uuid"
)

// # Service Layer

// Service coordinates photo bytes in the blob store with their metadata records.
type Service struct {
	repo      Repository
	store     blob.Store
	uploadTTL time.Duration
	logger    *slog.Logger
}

// NewService constructs a new [Service].
//
// uploadTTL bounds the validity of presigned upload targets.
func NewService(repo Repository, store blob.Store, uploadTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		uploadTTL: uploadTTL,
		logger:    logger,
	}
}

// # Upload Targets

/*
IssueUploadTarget creates a fresh storage id and a presigned PUT for it.

Description: Nothing is recorded. A target that is never used, or whose
bytes are never attached, leaves at most an orphaned object behind.

Parameters:
  - context: context.Context
  - input: UploadRequest (Original filename and optional MIME type)

Returns:
  - *blob.UploadTarget: Storage id, URL, method and headers for the client PUT
  - error: ValidationError or storage failures
*/
func (service *Service) IssueUploadTarget(context context.Context, input UploadRequest) (*blob.UploadTarget, error) {
	validator := &validate.Validator{}
	validator.Required(FieldFilename, input.Filename).MaxLen(FieldFilename, input.Filename, maxFilenameLen)
	validator.Custom(FieldContentType, !isImageType(input.ContentType), "Must be an image MIME type")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	key := blob.NewKey(input.Filename)

	target, err := service.store.PresignUpload(context, key, input.ContentType, service.uploadTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("presign upload: %w", err))
	}
	return target, nil
}

// # Resolution

/*
Resolve turns a storage id into a retrieval URL.

Returns:
  - *string: The URL, or nil when no object is stored under the id
  - error: Storage failures only
*/
func (service *Service) Resolve(context context.Context, storageID string) (*string, error) {
	if !blob.IsUploadKey(storageID) {
		return nil, nil
	}

	exists, err := service.store.Exists(context, storageID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("check object: %w", err))
	}
	if !exists {
		return nil, nil
	}

	url, err := service.store.URL(context, storageID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("object url: %w", err))
	}
	return &url, nil
}

/*
SignURLs issues fresh retrieval URLs without checking existence.

Description: Stored URLs may be presigned and expire, so reads re-sign
them from the storage id. Signing is local, no request reaches the bucket.
*/
func (service *Service) SignURLs(context context.Context, storageIDs []string) (map[string]string, error) {
	urls := make(map[string]string, len(storageIDs))
	for _, storageID := range storageIDs {
		if _, done := urls[storageID]; done || !blob.IsUploadKey(storageID) {
			continue
		}
		url, err := service.store.URL(context, storageID)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("object url: %w", err))
		}
		urls[storageID] = url
	}
	return urls, nil
}

// ResolveMany resolves a batch of storage ids. Unresolvable ids map to nil.
func (service *Service) ResolveMany(context context.Context, storageIDs []string) (map[string]*string, error) {
	if len(storageIDs) > maxResolveBatch {
		return nil, validate.RequiredError(FieldStorageIDs, fmt.Sprintf("At most %d ids per request", maxResolveBatch))
	}

	urls := make(map[string]*string, len(storageIDs))
	for _, storageID := range storageIDs {
		if _, done := urls[storageID]; done {
			continue
		}
		url, err := service.Resolve(context, storageID)
		if err != nil {
			return nil, err
		}
		urls[storageID] = url
	}
	return urls, nil
}

// # Registration

/*
Attach records bytes already uploaded to a target as a photo of a book.

Description: The storage id is resolved first. When it does not resolve,
the upload never landed and nothing is written.

Parameters:
  - context: context.Context
  - photobookID: string (UUID)
  - input: AttachRequest

Returns:
  - *Asset: The stored record
  - error: UploadFailed, InvalidReference (unknown book) or ValidationError
*/
func (service *Service) Attach(context context.Context, photobookID string, input AttachRequest) (*Asset, error) {
	validator := &validate.Validator{}
	validator.Required(FieldStorageID, input.StorageID)
	validator.Required(FieldFilename, input.Filename).MaxLen(FieldFilename, input.Filename, maxFilenameLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if !uuid.IsValid(photobookID) {
		return nil, apperr.InvalidReference(resourcePhotobook)
	}

	url, err := service.Resolve(context, input.StorageID)
	if err != nil {
		return nil, err
	}
	if url == nil {
		return nil, apperr.UploadFailed("Uploaded file could not be found", nil)
	}

	asset := &Asset{
		ID:          uuid.New(),
		PhotobookID: photobookID,
		StorageID:   input.StorageID,
		URL:         *url,
		Filename:    input.Filename,
	}
	if err := service.repo.Insert(context, asset); err != nil {
		return nil, err
	}

	service.logger.Info("photo_attached",
		slog.String("photo_id", asset.ID),
		slog.String("photobook_id", photobookID),
		slog.String("storage_id", asset.StorageID),
	)
	return asset, nil
}

/*
Upload streams a file to the blob store and attaches it in one call.

Description: When the record cannot be written (unknown book), the freshly
stored object is removed again.

Parameters:
  - context: context.Context
  - photobookID: string (UUID)
  - filename: string (Original name, slugged into the key)
  - contentType: string (MIME type forwarded to the store)
  - body: io.Reader
  - size: int64 (-1 when unknown)

Returns:
  - *Asset: The stored record
  - error: UploadFailed when the PUT fails, otherwise as [Service.Attach]
*/
func (service *Service) Upload(context context.Context, photobookID, filename, contentType string, body io.Reader, size int64) (*Asset, error) {
	validator := &validate.Validator{}
	validator.Required(FieldFilename, filename).MaxLen(FieldFilename, filename, maxFilenameLen)
	validator.Custom(FieldContentType, !isImageType(contentType), "Must be an image MIME type")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if !uuid.IsValid(photobookID) {
		return nil, apperr.InvalidReference(resourcePhotobook)
	}

	key := blob.NewKey(filename)
	if err := service.store.Put(context, key, body, size, contentType); err != nil {
		return nil, apperr.UploadFailed("Photo upload failed", err)
	}

	asset, err := service.Attach(context, photobookID, AttachRequest{StorageID: key, Filename: filename})
	if err != nil {
		if deleteErr := service.store.Delete(context, key); deleteErr != nil {
			service.logger.Warn("photo_orphan_delete_failed",
				slog.String("storage_id", key),
				slog.Any("error", deleteErr),
			)
		}
		return nil, err
	}
	return asset, nil
}

// # Reads

// ListForBook returns a book's photos by ascending upload time, with fresh URLs.
func (service *Service) ListForBook(context context.Context, photobookID string) ([]*Asset, error) {
	if !uuid.IsValid(photobookID) {
		return []*Asset{}, nil
	}

	assets, err := service.repo.ListForBook(context, photobookID)
	if err != nil {
		return nil, err
	}

	for _, asset := range assets {
		url, err := service.store.URL(context, asset.StorageID)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("object url: %w", err))
		}
		asset.URL = url
	}
	return assets, nil
}

// # Removal

/*
DeleteOne removes a photo's bytes, then its record.

Returns:
  - error: NotFound if no photo carries id, Internal on storage failures
*/
func (service *Service) DeleteOne(context context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperr.NotFound(resourcePhoto)
	}

	asset, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	if err := service.store.Delete(context, asset.StorageID); err != nil {
		return apperr.Internal(fmt.Errorf("delete object: %w", err))
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("photo_deleted",
		slog.String("photo_id", id),
		slog.String("photobook_id", asset.PhotobookID),
	)
	return nil
}

/*
DeleteAllForBook removes the bytes and records of every photo of a book.

Returns:
  - int64: Number of removed records
  - error: Internal on the first storage failure (records are kept)
*/
func (service *Service) DeleteAllForBook(context context.Context, photobookID string) (int64, error) {
	assets, err := service.ListForBook(context, photobookID)
	if err != nil {
		return 0, err
	}
	if len(assets) == 0 {
		return 0, nil
	}

	for _, asset := range assets {
		if err := service.store.Delete(context, asset.StorageID); err != nil {
			return 0, apperr.Internal(fmt.Errorf("delete object: %w", err))
		}
	}

	removed, err := service.repo.DeleteForBook(context, photobookID)
	if err != nil {
		return 0, err
	}

	service.logger.Info("photobook_photos_deleted",
		slog.String("photobook_id", photobookID),
		slog.Int64("count", removed),
	)
	return removed, nil
}

// DeleteMetadataForBook removes a book's records only. Bytes stay in the store.
func (service *Service) DeleteMetadataForBook(context context.Context, photobookID string) (int64, error) {
	if !uuid.IsValid(photobookID) {
		return 0, nil
	}
	return service.repo.DeleteForBook(context, photobookID)
}

/*
ClearAll deletes every stored photo and every record.

Description: Blob deletion failures are logged and skipped; the records
are removed regardless.

Returns:
  - int64: Number of removed records
  - error: Persistence failures
*/
func (service *Service) ClearAll(context context.Context) (int64, error) {
	storageIDs, err := service.repo.ListStorageIDs(context)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, storageID := range storageIDs {
		if err := service.store.Delete(context, storageID); err != nil {
			failed++
			service.logger.Warn("photo_binary_delete_failed",
				slog.String("storage_id", storageID),
				slog.Any("error", err),
			)
		}
	}

	removed, err := service.repo.DeleteAll(context)
	if err != nil {
		return 0, err
	}

	service.logger.Info("photos_cleared",
		slog.Int64("records", removed),
		slog.Int("binaries", len(storageIDs)-failed),
		slog.Int("binary_failures", failed),
	)
	return removed, nil
}

// # Helpers

// isImageType accepts an empty type (let the store default it) or any image/* type.
func isImageType(contentType string) bool {
	return contentType == "" || strings.HasPrefix(strings.ToLower(contentType), "image/")
}
