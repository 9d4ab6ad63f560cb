// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memry/photobook/internal/platform/ctxutil"
	"github.com/memry/photobook/internal/platform/middleware"
	"github.com/memry/photobook/internal/platform/sec"
)

type fakeVerifier struct {
	claims *sec.AdminClaims
}

func (verifier fakeVerifier) VerifyToken(token string) (*sec.AdminClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return verifier.claims, nil
}

type fakeSessions map[string]bool

func (sessions fakeSessions) IsSessionActive(_ context.Context, sessionID string) (bool, error) {
	return sessions[sessionID], nil
}

type fakeConfig struct {
	development bool
	origins     []string
}

func (cfg fakeConfig) IsDevelopment() bool { return cfg.development }
func (cfg fakeConfig) AllowedOrigins() []string { return cfg.origins }

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestRequireAdmin covers anonymous, malformed, revoked and live sessions.
*/
func TestRequireAdmin(t *testing.T) {
	verifier := fakeVerifier{claims: &sec.AdminClaims{AdminID: "a1", SessionID: "live", Role: "admin"}}
	revokedVerifier := fakeVerifier{claims: &sec.AdminClaims{AdminID: "a1", SessionID: "gone", Role: "admin"}}
	sessions := fakeSessions{"live": true}

	tests := []struct {
		name       string
		verifier   fakeVerifier
		header     string
		wantStatus int
	}{
		{"anonymous", verifier, "", http.StatusUnauthorized},
		{"bad_format", verifier, "Token good", http.StatusUnauthorized},
		{"bad_token", verifier, "Bearer nope", http.StatusUnauthorized},
		{"revoked_session", revokedVerifier, "Bearer good", http.StatusUnauthorized},
		{"live_session", verifier, "Bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(tt.verifier)(middleware.RequireAdmin(sessions)(okHandler()))

			request := httptest.NewRequest(http.MethodGet, "/api/v1/admin/me", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestAuthenticate_InjectsClaims verifies downstream handlers see the admin claims.
*/
func TestAuthenticate_InjectsClaims(t *testing.T) {
	claims := &sec.AdminClaims{AdminID: "a1", SessionID: "live", Role: "admin"}

	var seen *sec.AdminClaims
	handler := middleware.Authenticate(fakeVerifier{claims: claims})(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAdmin(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.Equal(t, claims, seen)
}

/*
TestAuthenticate_BadTokenIsAnonymous lets a stale or malformed token through
without claims, so public routes such as login still answer.
*/
func TestAuthenticate_BadTokenIsAnonymous(t *testing.T) {
	verifier := fakeVerifier{claims: &sec.AdminClaims{AdminID: "a1", SessionID: "live", Role: "admin"}}

	for _, header := range []string{"Bearer expired", "Token good", "Bearer"} {
		t.Run(header, func(t *testing.T) {
			reached := false
			var seen *sec.AdminClaims
			handler := middleware.Authenticate(verifier)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				reached = true
				seen = ctxutil.GetAdmin(request.Context())
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", nil)
			request.Header.Set("Authorization", header)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.True(t, reached)
			assert.Nil(t, seen)
			assert.Equal(t, http.StatusOK, recorder.Code)
		})
	}
}

/*
TestRateLimit rejects requests beyond the burst for the same IP.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimitWith(ctx, 1, 2)(okHandler())

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "203.0.113.7:5000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

/*
TestCORS checks the origin allow-list outside development.
*/
func TestCORS(t *testing.T) {
	cfg := fakeConfig{origins: []string{"https://preview.example.com"}}
	handler := middleware.CORS(cfg)(okHandler())

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://memry.app", true},
		{"https://admin.memry.app", true},
		{"https://preview.example.com", true},
		{"https://evil.example.com", false},
		{"https://notmemry.app", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodOptions, "/api/v1/catalog/book-types", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusNoContent, recorder.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestPanicRecovery turns a panic into a 500 response.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
