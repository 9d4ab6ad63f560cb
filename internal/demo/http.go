// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package demo

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/memry/photobook/internal/platform/respond"
)

// Handler exposes the demo operations to the admin console.
type Handler struct {
	service *Service
}

// NewHandler constructs a new demo [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the demo endpoints, mounted at /admin/demo behind RequireAdmin.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/seed", handler.seed)
	router.Post("/clear", handler.clear)
	return router
}

/*
POST /api/v1/admin/demo/seed.

Response:
  - 201: SeedResult
  - 409: CONFLICT: Data already seeded
*/
func (handler *Handler) seed(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Seed(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, result)
}

// POST /api/v1/admin/demo/clear.
func (handler *Handler) clear(writer http.ResponseWriter, request *http.Request) {
	result, err := handler.service.Clear(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}
