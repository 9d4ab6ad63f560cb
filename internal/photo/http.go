// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/memry/photobook/internal/platform/constants"
	requestutil "github.com/memry/photobook/internal/platform/request"
	"github.com/memry/photobook/internal/platform/respond"
	"github.com/memry/photobook/internal/platform/validate"
)

// multipartMemory is the part of a multipart form kept in memory; the rest spills to disk.
const multipartMemory = 8 << 20

// # Handler Implementation

// Handler implements the HTTP layer for photo uploads.
type Handler struct {
	service *Service
}

// NewHandler constructs a new photo [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UploadRoutes returns the storage-level endpoints, mounted at /uploads.
func (handler *Handler) UploadRoutes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.issueUploadTarget)
	router.Get("/resolve", handler.resolve)
	router.Post("/resolve", handler.resolveMany)

	return router
}

// BookRoutes returns the per-book endpoints, mounted at /photobooks/{id}/photos.
func (handler *Handler) BookRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listForBook)
	router.Post("/", handler.attach)
	router.Delete("/", handler.deleteAllForBook)
	router.Post("/upload", handler.upload)

	return router
}

// Routes returns the single-photo endpoints, mounted at /photos.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Delete("/{photoID}", handler.deleteOne)

	return router
}

// # Uploads

/*
POST /api/v1/uploads.

Description: Issues a presigned PUT target. The client uploads the bytes
directly to the store, then attaches the returned storageId to a book.

Request (Body):
  - filename: string
  - contentType: string (optional, image/*)

Response:
  - 201: UploadTarget: {storageId, uploadUrl, method, headers, expiresAt}
  - 400: VALIDATION_ERROR: Missing filename or non-image type
*/
func (handler *Handler) issueUploadTarget(writer http.ResponseWriter, request *http.Request) {
	var input UploadRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	target, err := handler.service.IssueUploadTarget(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, target)
}

/*
GET /api/v1/uploads/resolve?storageId=...

Response:
  - 200: {"url": string|null}
*/
func (handler *Handler) resolve(writer http.ResponseWriter, request *http.Request) {
	url, err := handler.service.Resolve(request.Context(), request.URL.Query().Get(FieldStorageID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]*string{"url": url})
}

/*
POST /api/v1/uploads/resolve.

Request (Body):
  - storageIds: []string

Response:
  - 200: map[storageId]url|null
*/
func (handler *Handler) resolveMany(writer http.ResponseWriter, request *http.Request) {
	var input ResolveRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	urls, err := handler.service.ResolveMany(request.Context(), input.StorageIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, urls)
}

// # Book Photos

func (handler *Handler) listForBook(writer http.ResponseWriter, request *http.Request) {
	assets, err := handler.service.ListForBook(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, assets)
}

/*
POST /api/v1/photobooks/{id}/photos.

Request (Body):
  - storageId: string (From POST /uploads)
  - filename: string

Response:
  - 201: Asset: Stored record with its resolved URL
  - 422: UPLOAD_FAILED: Nothing stored under storageId
  - 422: INVALID_REFERENCE: Photobook does not exist
*/
func (handler *Handler) attach(writer http.ResponseWriter, request *http.Request) {
	var input AttachRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	asset, err := handler.service.Attach(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, asset)
}

/*
POST /api/v1/photobooks/{id}/photos/upload.

Description: Server-proxied upload for clients that cannot PUT to the store.

Request (multipart/form-data):
  - file: binary (max 25 MiB)

Response:
  - 201: Asset
  - 400: VALIDATION_ERROR: Missing file or non-image type
  - 413: VALIDATION_ERROR: File too large
  - 422: UPLOAD_FAILED: Store rejected the bytes
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)

	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			appErr := validate.RequiredError(FieldFile, "File exceeds the 25 MiB limit")
			appErr.HTTPStatus = http.StatusRequestEntityTooLarge
			respond.Error(writer, request, appErr)
			return
		}
		respond.Error(writer, request, validate.RequiredError(FieldFile, "Expected a multipart form"))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldFile, "This field is required"))
		return
	}
	defer file.Close()

	asset, err := handler.service.Upload(
		request.Context(),
		requestutil.Param(request, "id"),
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		header.Size,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, asset)
}

/*
DELETE /api/v1/photobooks/{id}/photos.

Response:
  - 200: {"deleted": int}: Number of removed photos
*/
func (handler *Handler) deleteAllForBook(writer http.ResponseWriter, request *http.Request) {
	removed, err := handler.service.DeleteAllForBook(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int64{"deleted": removed})
}

/*
DELETE /api/v1/photos/{photoID}.

Response:
  - 204: No Content
  - 404: NOT_FOUND: Photo not found
*/
func (handler *Handler) deleteOne(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteOne(request.Context(), requestutil.Param(request, "photoID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
