// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/memry/photobook/internal/photobook"
	requestutil "github.com/memry/photobook/internal/platform/request"
	"github.com/memry/photobook/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the layout editor.
type Handler struct {
	service *Service
}

// NewHandler constructs a new editor [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the editor endpoints, mounted at /editor.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.open)

	router.Route("/{sid}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Delete("/", handler.discard)
		r.Post("/save", handler.save)
		r.Post("/complete", handler.complete)

		r.Route("/pages/{page}", func(r chi.Router) {
			r.Put("/layout", handler.changeLayout)
			r.Put("/background", handler.changeBackground)
			r.Post("/texts", handler.addText)
			r.Patch("/texts/{tid}", handler.editText)
			r.Delete("/texts/{tid}", handler.deleteText)
			r.Put("/slots/{slot}", handler.assignPhoto)
			r.Delete("/slots/{slot}", handler.removePhoto)
		})
	})

	return router
}

// # Session Endpoints

/*
POST /api/v1/editor.

Request (Body):
  - photobookId: string (UUID)

Response:
  - 201: View: Working copy with pages, uploaded photos and the unplaced ones
  - 404: NOT_FOUND: Photobook not found
  - 409: CONFLICT: Photobook has already been ordered
*/
func (handler *Handler) open(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		PhotobookID string `json:"photobookId"`
	}
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.Open(request.Context(), input.PhotobookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, view)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.Get(request.Context(), requestutil.Param(request, "sid"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func (handler *Handler) discard(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Discard(request.Context(), requestutil.Param(request, "sid")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
POST /api/v1/editor/{sid}/save.

Response:
  - 200: Photobook: The stored book
  - 404: NOT_FOUND: Editor session not found
*/
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.Save(request.Context(), requestutil.Param(request, "sid"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

/*
POST /api/v1/editor/{sid}/complete.

Response:
  - 200: {"shareId": string}
  - 409: CONFLICT: Photobook has already been ordered
*/
func (handler *Handler) complete(writer http.ResponseWriter, request *http.Request) {
	shareID, err := handler.service.Complete(request.Context(), requestutil.Param(request, "sid"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"shareId": shareID})
}

// # Page Endpoints

/*
PUT /api/v1/editor/{sid}/pages/{page}/layout.

Request (Body):
  - layout: string ("1", "2", "3", "4" or "6")
*/
func (handler *Handler) changeLayout(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Layout photobook.Layout `json:"layout"`
	}
	handler.pageEdit(writer, request, &input, func(sessionID string, page int) (*View, error) {
		return handler.service.ChangeLayout(request.Context(), sessionID, page, input.Layout)
	})
}

/*
PUT /api/v1/editor/{sid}/pages/{page}/background.

Request (Body):
  - color: string (#rrggbb)
*/
func (handler *Handler) changeBackground(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Color string `json:"color"`
	}
	handler.pageEdit(writer, request, &input, func(sessionID string, page int) (*View, error) {
		return handler.service.ChangeBackground(request.Context(), sessionID, page, input.Color)
	})
}

func (handler *Handler) addText(writer http.ResponseWriter, request *http.Request) {
	sessionID, page, ok := pageParams(writer, request)
	if !ok {
		return
	}

	view, err := handler.service.AddText(request.Context(), sessionID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, view)
}

/*
PATCH /api/v1/editor/{sid}/pages/{page}/texts/{tid}.

Request (Body):
  - content, fontFamily, color: string (optional)
  - x, y, fontSize, rotation: number (optional)

Response:
  - 200: View
  - 404: NOT_FOUND: Text not found
*/
func (handler *Handler) editText(writer http.ResponseWriter, request *http.Request) {
	var patch TextPatch
	handler.pageEdit(writer, request, &patch, func(sessionID string, page int) (*View, error) {
		return handler.service.EditText(request.Context(), sessionID, page, requestutil.Param(request, "tid"), patch)
	})
}

func (handler *Handler) deleteText(writer http.ResponseWriter, request *http.Request) {
	handler.pageEdit(writer, request, nil, func(sessionID string, page int) (*View, error) {
		return handler.service.DeleteText(request.Context(), sessionID, page, requestutil.Param(request, "tid"))
	})
}

/*
PUT /api/v1/editor/{sid}/pages/{page}/slots/{slot}.

Request (Body):
  - storageId: string (An upload of this book)

Response:
  - 200: View
  - 400: VALIDATION_ERROR: Slot outside the layout
  - 422: INVALID_REFERENCE: Photo does not exist
*/
func (handler *Handler) assignPhoto(writer http.ResponseWriter, request *http.Request) {
	slot, err := requestutil.IntParam(request, FieldSlot)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		StorageID string `json:"storageId"`
	}
	handler.pageEdit(writer, request, &input, func(sessionID string, page int) (*View, error) {
		return handler.service.AssignPhoto(request.Context(), sessionID, page, slot, input.StorageID)
	})
}

func (handler *Handler) removePhoto(writer http.ResponseWriter, request *http.Request) {
	slot, err := requestutil.IntParam(request, FieldSlot)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.pageEdit(writer, request, nil, func(sessionID string, page int) (*View, error) {
		return handler.service.RemovePhoto(request.Context(), sessionID, page, slot)
	})
}

// # Helpers

// pageEdit decodes the optional body, runs the edit and writes the view.
func (handler *Handler) pageEdit(writer http.ResponseWriter, request *http.Request, body any, run func(sessionID string, page int) (*View, error)) {
	sessionID, page, ok := pageParams(writer, request)
	if !ok {
		return
	}

	if body != nil {
		if err := requestutil.DecodeJSON(writer, request, body); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	view, err := run(sessionID, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, view)
}

func pageParams(writer http.ResponseWriter, request *http.Request) (string, int, bool) {
	page, err := requestutil.IntParam(request, "page")
	if err != nil {
		respond.Error(writer, request, err)
		return "", 0, false
	}
	return requestutil.Param(request, "sid"), page, true
}
