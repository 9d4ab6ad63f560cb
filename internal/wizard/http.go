// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package wizard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/memry/photobook/internal/platform/request"
	"github.com/memry/photobook/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the order wizard.
type Handler struct {
	service *Service
}

// NewHandler constructs a new wizard [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the wizard endpoints, mounted at /wizard.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.start)

	router.Route("/{sid}", func(r chi.Router) {
		r.Get("/", handler.get)
		r.Delete("/", handler.reset)
		r.Put("/book-type", handler.selection(handler.service.SelectBookType))
		r.Put("/page-option", handler.selection(handler.service.SelectPageOption))
		r.Put("/theme", handler.selection(handler.service.SelectTheme))
		r.Post("/next", handler.navigate(handler.service.Next))
		r.Post("/back", handler.navigate(handler.service.Back))
	})

	return router
}

/*
POST /api/v1/wizard.

Response:
  - 201: View: {id, step: 1, stepName: "bookType"}
*/
func (handler *Handler) start(writer http.ResponseWriter, request *http.Request) {
	view, err := handler.service.Start(request.Context())
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

func (handler *Handler) reset(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Reset(request.Context(), requestutil.Param(request, "sid")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
PUT /api/v1/wizard/{sid}/book-type | page-option | theme.

Request (Body):
  - id: string (UUID of an active catalog item)

Response:
  - 200: View
  - 422: INVALID_REFERENCE: Item does not exist or is inactive
*/
func (handler *Handler) selection(choose func(context.Context, string, string) (*View, error)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var input struct {
			ID string `json:"id"`
		}
		if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		view, err := choose(request.Context(), requestutil.Param(request, "sid"), input.ID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, view)
	}
}

/*
POST /api/v1/wizard/{sid}/next | back.

Response:
  - 200: View
  - 400: VALIDATION_ERROR: Current step has no selection
  - 409: CONFLICT: Already on the last step
*/
func (handler *Handler) navigate(move func(context.Context, string) (*View, error)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		view, err := move(request.Context(), requestutil.Param(request, "sid"))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, view)
	}
}
