// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photobook

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/memry/photobook/internal/platform/request"
	"github.com/memry/photobook/internal/platform/respond"
	"github.com/memry/photobook/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for photobooks.
type Handler struct {
	service *Service
}

// NewHandler constructs a new photobook [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the customer endpoints, mounted at /photobooks.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)

	router.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Delete("/", handler.delete)
		r.Put("/pages", handler.updatePages)
		r.Put("/pages/{pageNumber}", handler.updatePage)
		r.Patch("/selections", handler.updateSelections)
		r.Post("/complete", handler.complete)
	})

	return router
}

// AdminRoutes returns the order management endpoints, mounted at /admin/photobooks.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/{id}/ordered", handler.markOrdered)

	return router
}

// # Customer Endpoints

/*
POST /api/v1/photobooks.

Request (Body):
  - bookTypeId: string (UUID)
  - pageOptionId: string (UUID)
  - themeId: string (UUID)

Response:
  - 201: Detail: Draft book with empty pages and a share id
  - 400: VALIDATION_ERROR: Missing selection
  - 422: INVALID_REFERENCE: First selection that does not exist
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, detail)
}

/*
GET /api/v1/photobooks/{id}.

Response:
  - 200: Detail: Book with bookType, pageOption and theme (null when deleted)
  - 404: NOT_FOUND: Photobook not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.GetByID(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

/*
PUT /api/v1/photobooks/{id}/pages.

Request (Body):
  - pages: []Page (The full sequence, numbered 1..N)

Response:
  - 200: Photobook
  - 400: VALIDATION_ERROR: Structural problem, field names point at the page
  - 404: NOT_FOUND: Photobook not found
*/
func (handler *Handler) updatePages(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Pages []Page `json:"pages"`
	}
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.UpdatePages(request.Context(), requestutil.Param(request, "id"), input.Pages)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

/*
PUT /api/v1/photobooks/{id}/pages/{pageNumber}.

Request (Body):
  - Page (pageNumber in the body is taken from the path)

Response:
  - 200: Photobook
  - 404: NOT_FOUND: Photobook not found / Page not found
*/
func (handler *Handler) updatePage(writer http.ResponseWriter, request *http.Request) {
	pageNumber, err := requestutil.IntParam(request, FieldPageNumber)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var page Page
	if err := requestutil.DecodeJSON(writer, request, &page); err != nil {
		respond.Error(writer, request, err)
		return
	}
	page.PageNumber = pageNumber

	book, err := handler.service.UpdatePage(request.Context(), requestutil.Param(request, "id"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

/*
PATCH /api/v1/photobooks/{id}/selections.

Request (Body):
  - bookTypeId, pageOptionId, themeId: string (each optional)

Response:
  - 200: Detail: Pages resized when the page option changed
  - 422: INVALID_REFERENCE: A provided id does not exist, nothing was written
*/
func (handler *Handler) updateSelections(writer http.ResponseWriter, request *http.Request) {
	var input Selections
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.UpdateSelections(request.Context(), requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

/*
POST /api/v1/photobooks/{id}/complete.

Response:
  - 200: {"shareId": string}
  - 409: CONFLICT: Photobook has already been ordered
*/
func (handler *Handler) complete(writer http.ResponseWriter, request *http.Request) {
	shareID, err := handler.service.Complete(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"shareId": shareID})
}

/*
DELETE /api/v1/photobooks/{id}.

Response:
  - 204: No Content
  - 404: NOT_FOUND: Photobook not found
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Admin Endpoints

/*
GET /api/v1/admin/photobooks?page=1&limit=20.

Response:
  - 200: []Photobook with pagination metadata, newest first
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	books, meta, err := handler.service.ListAll(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, books, meta)
}

/*
POST /api/v1/admin/photobooks/{id}/ordered.

Response:
  - 200: Photobook
  - 409: CONFLICT: Only completed photobooks can be marked as ordered
*/
func (handler *Handler) markOrdered(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.MarkOrdered(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}
