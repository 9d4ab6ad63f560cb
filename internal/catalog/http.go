// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/memry/photobook/internal/platform/apperr"
	requestutil "github.com/memry/photobook/internal/platform/request"
	"github.com/memry/photobook/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public, read-only catalog endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/book-types", handler.listBookTypes)
	router.Get("/book-types/{id}", handler.getBookType)
	router.Get("/page-options", handler.listPageOptions)
	router.Get("/page-options/{id}", handler.getPageOption)
	router.Get("/theme-categories", handler.listThemeCategories)
	router.Get("/theme-categories/{id}", handler.getThemeCategory)
	router.Get("/theme-categories/{id}/themes", handler.listThemesByCategory)
	router.Get("/themes", handler.listThemes)
	router.Get("/themes/grouped", handler.listGroupedThemes)
	router.Get("/themes/{id}", handler.getTheme)

	return router
}

// AdminRoutes returns the kind-generic management endpoints.
//
// The caller is responsible for mounting them behind the admin guard.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Route("/{kind}", func(kindRouter chi.Router) {
		kindRouter.Get("/", handler.adminList)
		kindRouter.Post("/", handler.adminCreate)
		kindRouter.Get("/{id}", handler.adminGet)
		kindRouter.Patch("/{id}", handler.adminUpdate)
		kindRouter.Delete("/{id}", handler.adminDelete)
		kindRouter.Post("/{id}/toggle", handler.adminToggle)
	})

	return router
}

// # Public Endpoints

/*
GET /api/v1/catalog/book-types.

Response:
  - 200: []BookType: Active book types in display order
*/
func (handler *Handler) listBookTypes(writer http.ResponseWriter, request *http.Request) {
	bookTypes, err := handler.service.ListBookTypes(request.Context(), true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, bookTypes)
}

func (handler *Handler) getBookType(writer http.ResponseWriter, request *http.Request) {
	bookType, err := handler.service.GetBookType(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, bookType)
}

func (handler *Handler) listPageOptions(writer http.ResponseWriter, request *http.Request) {
	options, err := handler.service.ListPageOptions(request.Context(), true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

func (handler *Handler) getPageOption(writer http.ResponseWriter, request *http.Request) {
	option, err := handler.service.GetPageOption(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, option)
}

func (handler *Handler) listThemeCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListThemeCategories(request.Context(), true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) getThemeCategory(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.GetThemeCategory(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

/*
GET /api/v1/catalog/theme-categories/{id}/themes.

Response:
  - 200: []Theme: Active themes of the category
  - 404: NOT_FOUND: Category not found
*/
func (handler *Handler) listThemesByCategory(writer http.ResponseWriter, request *http.Request) {
	themes, err := handler.service.ListThemesByCategory(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, themes)
}

func (handler *Handler) listThemes(writer http.ResponseWriter, request *http.Request) {
	themes, err := handler.service.ListThemes(request.Context(), true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, themes)
}

/*
GET /api/v1/catalog/themes/grouped.

Description: Active categories with their active themes, for the theme picker.

Response:
  - 200: []CategoryWithThemes
*/
func (handler *Handler) listGroupedThemes(writer http.ResponseWriter, request *http.Request) {
	groups, err := handler.service.ListActiveWithCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, groups)
}

func (handler *Handler) getTheme(writer http.ResponseWriter, request *http.Request) {
	theme, err := handler.service.GetTheme(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, theme)
}

// # Admin Endpoints

/*
GET /api/v1/admin/catalog/{kind}.

Request:
  - kind: string (book-types, page-options, theme-categories, themes)

Response:
  - 200: []Item: Every item, active or not
  - 404: NOT_FOUND: Unknown kind
*/
func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	kind, err := kindParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.service.List(request.Context(), kind)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

func (handler *Handler) adminGet(writer http.ResponseWriter, request *http.Request) {
	kind, err := kindParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Get(request.Context(), kind, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

/*
POST /api/v1/admin/catalog/{kind}.

Request (Body):
  - JSON object with the variant's fields (e.g. {"pageCount": 50, "additionalPrice": 0})

Response:
  - 201: Item: Created item
  - 400: VALIDATION_ERROR: Missing, unknown or invalid fields
  - 422: INVALID_REFERENCE: Theme category does not exist
*/
func (handler *Handler) adminCreate(writer http.ResponseWriter, request *http.Request) {
	kind, fields, err := decodeKindAndFields(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Create(request.Context(), kind, fields)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, item)
}

/*
PATCH /api/v1/admin/catalog/{kind}/{id}.

Description: Partial update. Only the fields present in the body are written;
"description": null clears the description.

Response:
  - 200: Item: Updated item
  - 400: VALIDATION_ERROR: Unknown, read-only or invalid fields
  - 404: NOT_FOUND: Item not found
*/
func (handler *Handler) adminUpdate(writer http.ResponseWriter, request *http.Request) {
	kind, fields, err := decodeKindAndFields(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.Update(request.Context(), kind, requestutil.Param(request, "id"), fields)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

func (handler *Handler) adminDelete(writer http.ResponseWriter, request *http.Request) {
	kind, err := kindParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), kind, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /api/v1/admin/catalog/{kind}/{id}/toggle.

Response:
  - 200: {"isActive": bool}: The new flag value
  - 404: NOT_FOUND: Item not found
*/
func (handler *Handler) adminToggle(writer http.ResponseWriter, request *http.Request) {
	kind, err := kindParam(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	isActive, err := handler.service.ToggleActive(request.Context(), kind, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]bool{"isActive": isActive})
}

// # Helpers

func kindParam(request *http.Request) (Kind, error) {
	kind, ok := ParseKind(requestutil.Param(request, "kind"))
	if !ok {
		return "", apperr.NotFound("Catalog kind")
	}
	return kind, nil
}

func decodeKindAndFields(writer http.ResponseWriter, request *http.Request) (Kind, FieldSet, error) {
	kind, err := kindParam(request)
	if err != nil {
		return "", nil, err
	}

	var raw map[string]json.RawMessage
	if err := requestutil.DecodeJSON(writer, request, &raw); err != nil {
		return "", nil, err
	}

	fields, err := DecodeFieldSet(kind, raw)
	if err != nil {
		return "", nil, err
	}
	return kind, fields, nil
}
