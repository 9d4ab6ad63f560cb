// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package photo is the register of customer photos uploaded for a photobook.

A photo lives in two places: its bytes in the blob store under a storage id
(see [blob.NewKey]) and its metadata in orders.photoasset. A record is only
ever written after the storage id resolves to a URL, so every listed asset
points at bytes that existed at attach time.

# Upload Flows

  - Direct: POST /uploads issues a presigned PUT target, the client uploads
    the bytes itself, then POST /photobooks/{id}/photos attaches them.
  - Proxied: POST /photobooks/{id}/photos/upload streams a multipart file
    through the API and attaches it in the same request.
*/
package photo

import "time"

// # Entities

// Asset binds a stored photo to the photobook it was uploaded for.
type Asset struct {
	ID          string    `json:"id"`
	PhotobookID string    `json:"photobookId"`
	StorageID   string    `json:"storageId"`
	URL         string    `json:"url"`
	Filename    string    `json:"filename"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// UploadRequest asks for a presigned write target.
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// AttachRequest registers bytes already PUT to a target as a photobook photo.
type AttachRequest struct {
	StorageID string `json:"storageId"`
	Filename  string `json:"filename"`
}

// ResolveRequest is the body of the batch resolution endpoint.
type ResolveRequest struct {
	StorageIDs []string `json:"storageIds"`
}

// # Field Names

const (
	FieldFilename    = "filename"
	FieldContentType = "contentType"
	FieldStorageID   = "storageId"
	FieldStorageIDs  = "storageIds"
	FieldFile        = "file"
)

const (
	maxFilenameLen = 255

	// maxResolveBatch bounds one resolveMany call; the editor asks for at most one book's photos.
	maxResolveBatch = 200
)
