// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/memry/photobook/internal/platform/request"
	"github.com/memry/photobook/internal/platform/respond"
)

// Handler implements the public viewer endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a new viewer [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the viewer endpoints, mounted at /view.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{shareId}", handler.view)
	return router
}

/*
GET /api/v1/view/{shareId}.

Response:
  - 200: Book: Pages with resolved book type, page option and theme
  - 404: NOT_FOUND: Photobook not found
*/
func (handler *Handler) view(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.View(request.Context(), requestutil.Param(request, "shareId"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}
