// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

import "context"

// Repository persists photo metadata. Blob bytes are handled by the service.
type Repository interface {

	/*
		Insert stores a new asset record.

		Returns:
		  - error: apperr.InvalidReference if the photobook does not exist
	*/
	Insert(context context.Context, asset *Asset) error

	// Get returns one asset or apperr.NotFound.
	Get(context context.Context, id string) (*Asset, error)

	// ListForBook returns a book's assets, oldest upload first.
	ListForBook(context context.Context, photobookID string) ([]*Asset, error)

	// Delete removes one record or returns apperr.NotFound.
	Delete(context context.Context, id string) error

	// DeleteForBook removes every record of a book and returns the count.
	DeleteForBook(context context.Context, photobookID string) (int64, error)

	// ListStorageIDs returns the storage id of every record (demo clear).
	ListStorageIDs(context context.Context) ([]string, error)

	// DeleteAll removes every record and returns the count.
	DeleteAll(context context.Context) (int64, error)
}
