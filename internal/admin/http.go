// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/memry/photobook/internal/platform/middleware"
	requestutil "github.com/memry/photobook/internal/platform/request"
	"github.com/memry/photobook/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the console setup and session endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new admin [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the console auth endpoints, mounted at /admin.
//
// # Endpoints
//   - GET  /setup    : Whether an admin exists.
//   - POST /setup    : Creates the first admin.
//   - POST /login    : Returns a console token.
//   - POST /logout   : Revokes the current session.
//   - GET  /me       : The logged-in admin.
//   - PUT  /password : Changes the password, revoking other sessions.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/setup", handler.setupStatus)
	router.Post("/setup", handler.bootstrap)
	router.Post("/login", handler.login)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(handler.service))
		r.Post("/logout", handler.logout)
		r.Get("/me", handler.me)
		r.Put("/password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// # Setup

func (handler *Handler) setupStatus(writer http.ResponseWriter, request *http.Request) {
	exists, err := handler.service.HasAdmin(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]bool{"hasAdmin": exists})
}

/*
POST /api/v1/admin/setup.

Request (Body):
  - email: string
  - password: string (min 6)

Response:
  - 201: Account
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: An admin already exists
*/
func (handler *Handler) bootstrap(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Bootstrap(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, account)
}

// # Sessions

/*
POST /api/v1/admin/login.

Response:
  - 200: LoginResult: {token, expiresAt, admin}
  - 401: UNAUTHORIZED: Invalid email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), claims.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.Me(request.Context(), claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, account)
}

/*
PUT /api/v1/admin/password.

Request (Body):
  - currentPassword: string
  - newPassword: string (min 6)

Response:
  - 204: Other sessions revoked
  - 401: UNAUTHORIZED: Current password is incorrect
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), claims, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
