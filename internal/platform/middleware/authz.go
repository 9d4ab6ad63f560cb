// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/constants"
	"github.com/memry/photobook/internal/platform/ctxutil"
	"github.com/memry/photobook/internal/platform/respond"
	"github.com/memry/photobook/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from [sec.TokenService],
// allowing fakes to be injected in handler tests.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AdminClaims, error)
}

// SessionChecker reports whether a console session is still live.
//
// It is implemented by the admin session store; a missing record means the
// session was revoked (logout, password change) or has expired.
type SessionChecker interface {
	IsSessionActive(context context.Context, sessionID string) (bool, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous (customers never carry tokens).
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AdminClaims] and an admin-scoped logger into the context.
//
// A malformed, stale or expired token also leaves the request anonymous, so a
// client holding an old token can still reach the login route. Rejection is
// left to [RequireAdmin].
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				ctxutil.GetLogger(request.Context()).Debug("auth_header_malformed")
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				ctxutil.GetLogger(request.Context()).Debug("auth_token_rejected", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAdmin(request.Context(), claims)
			logger := ctxutil.GetLogger(ctx).With(slog.String("admin_id", claims.AdminID))
			ctx = ctxutil.WithLogger(ctx, logger)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAdmin blocks requests without a verified token bound to a live session.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AdminClaims] exists in context (implies AuthN).
//  2. Check the role claim.
//  3. Ask the [SessionChecker] whether the session id was revoked.
func RequireAdmin(sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAdmin(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if claims.Role != constants.RoleAdmin {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			// ── 3. Revocation Check ───────────────────────────────────────────
			isActive, err := sessions.IsSessionActive(request.Context(), claims.SessionID)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}
			if !isActive {
				respond.Error(writer, request, apperr.Unauthorized("Session has ended, please log in again"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
